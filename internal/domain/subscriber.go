package domain

import (
	"strings"
	"time"
)

// SubscriberStatus is the persisted status of a subscriber row.
type SubscriberStatus string

const (
	StatusPending   SubscriberStatus = "pending_confirmation"
	StatusConfirmed SubscriberStatus = "confirmed"
)

// SubscriberState is the tri-state view of a subscriber used by the
// subscribe state machine. Unlike SubscriberStatus it can also express
// "no row exists", so handler logic never reasons about missing rows
// via nil checks or empty strings.
type SubscriberState int

const (
	StateNonExisting SubscriberState = iota
	StatePending
	StateConfirmed
)

func (s SubscriberState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateConfirmed:
		return "confirmed"
	default:
		return "non_existing"
	}
}

// StateFromStatus maps a persisted status string to its state machine view.
// Unknown strings report ok=false; the persistence layer treats that as
// corruption, not as a new state.
func StateFromStatus(raw string) (SubscriberState, bool) {
	switch SubscriberStatus(raw) {
	case StatusPending:
		return StatePending, true
	case StatusConfirmed:
		return StateConfirmed, true
	}
	return StateNonExisting, false
}

// Email is a syntactically valid email address. Obtain via ParseEmail.
type Email struct {
	raw string
}

// ParseEmail validates the shape of an email address. No normalization
// (lower-casing, trimming) is applied; the input is stored as given.
func ParseEmail(raw string) (Email, error) {
	if raw == "" {
		return Email{}, validationErr("email", "must not be empty")
	}
	if len(raw) > 254 {
		return Email{}, validationErr("email", "too long")
	}
	if strings.ContainsAny(raw, " \t\r\n") {
		return Email{}, validationErr("email", "must not contain whitespace")
	}
	parts := strings.Split(raw, "@")
	if len(parts) != 2 {
		return Email{}, validationErr("email", "must contain exactly one @")
	}
	local, dom := parts[0], parts[1]
	if len(local) == 0 || len(local) > 64 {
		return Email{}, validationErr("email", "local part must be 1-64 characters")
	}
	if len(dom) == 0 || len(dom) > 253 || !strings.Contains(dom, ".") {
		return Email{}, validationErr("email", "domain is malformed")
	}
	for _, label := range strings.Split(dom, ".") {
		if label == "" {
			return Email{}, validationErr("email", "domain is malformed")
		}
	}
	return Email{raw: raw}, nil
}

func (e Email) String() string { return e.raw }

// Name is a validated subscriber display name. Obtain via ParseName.
type Name struct {
	raw string
}

// forbiddenNameChars are characters that could be hostile in rendered
// contexts (HTML, headers, paths) and are rejected outright.
const forbiddenNameChars = `/()"<>\{}`

// ParseName validates a subscriber name: non-empty after trimming, at most
// 256 Unicode code points, and free of forbidden characters. The original
// (untrimmed) input is kept.
func ParseName(raw string) (Name, error) {
	if strings.TrimSpace(raw) == "" {
		return Name{}, validationErr("name", "must not be empty")
	}
	if len([]rune(raw)) > 256 {
		return Name{}, validationErr("name", "must be at most 256 characters")
	}
	if strings.ContainsAny(raw, forbiddenNameChars) {
		return Name{}, validationErr("name", "contains a forbidden character")
	}
	return Name{raw: raw}, nil
}

func (n Name) String() string { return n.raw }

// NewSubscriber is a validated subscribe request.
type NewSubscriber struct {
	Email Email
	Name  Name
}

// Subscriber mirrors a row in the subscriptions table.
type Subscriber struct {
	ID           string           `json:"id" db:"id"`
	Email        string           `json:"email" db:"email"`
	Name         string           `json:"name" db:"name"`
	Status       SubscriberStatus `json:"status" db:"status"`
	SubscribedAt time.Time        `json:"subscribed_at" db:"subscribed_at"`
}
