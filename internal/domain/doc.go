// Package domain defines the core business types for the newsletter service.
//
// Types in this package are validated value objects with no database
// dependencies and no HTTP concerns. They are the shared language between
// handlers, services, and repositories.
//
// Rules for this package:
//   - No imports from other internal/ packages
//   - No *sql.DB, no http.Request, no context.Context in struct fields
//   - Smart constructors (ParseEmail, ParseName, ParseToken) are the only
//     way to obtain an instance; a zero value is never valid
//   - Constants and enums belong here
package domain
