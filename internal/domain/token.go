package domain

import (
	"crypto/rand"
	"math/big"
)

// TokenLength is the exact length of a confirmation token. 25 alphanumeric
// characters give roughly 10^45 possible tokens, so collisions and guessing
// are both negligible.
const TokenLength = 25

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// ConfirmationToken is a single-use random string proving control of a
// pending subscriber's email. Obtain via ParseToken or GenerateToken.
type ConfirmationToken struct {
	raw string
}

// ParseToken validates an inbound token string: exactly TokenLength
// characters, all ASCII alphanumeric.
func ParseToken(raw string) (ConfirmationToken, error) {
	if raw == "" {
		return ConfirmationToken{}, validationErr("subscription_token", "must not be empty")
	}
	if len(raw) != TokenLength {
		return ConfirmationToken{}, validationErr("subscription_token", "must be exactly 25 characters")
	}
	for _, c := range raw {
		if !isAlphanumeric(c) {
			return ConfirmationToken{}, validationErr("subscription_token", "must be alphanumeric")
		}
	}
	return ConfirmationToken{raw: raw}, nil
}

// GenerateToken draws a fresh token from crypto/rand.
func GenerateToken() ConfirmationToken {
	max := big.NewInt(int64(len(tokenAlphabet)))
	buf := make([]byte, TokenLength)
	for i := range buf {
		// rand.Int only fails if the source of randomness is broken,
		// at which point there is nothing sensible to do but stop.
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("domain: crypto/rand unavailable: " + err.Error())
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}
	return ConfirmationToken{raw: string(buf)}
}

func (t ConfirmationToken) String() string { return t.raw }

func isAlphanumeric(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
