package auth

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Credentials carries a username/password pair extracted from a request.
type Credentials struct {
	Username string
	Password string
}

// ParseBasicAuth decodes an HTTP "Authorization: Basic ..." header value
// into credentials. The password may itself contain ':'; only the first
// colon delimits the fields.
func ParseBasicAuth(headerValue string) (Credentials, error) {
	if headerValue == "" {
		return Credentials{}, fmt.Errorf("authorization header is missing")
	}
	encoded, ok := strings.CutPrefix(headerValue, "Basic")
	if !ok {
		return Credentials{}, fmt.Errorf("authorization scheme is not Basic")
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return Credentials{}, fmt.Errorf("decode basic auth payload: %w", err)
	}
	if !utf8.Valid(decoded) {
		return Credentials{}, fmt.Errorf("basic auth payload is not valid UTF-8")
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return Credentials{}, fmt.Errorf("basic auth payload has no password field")
	}
	return Credentials{Username: username, Password: password}, nil
}
