package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2Params are the cost parameters embedded in a PHC hash string.
type Argon2Params struct {
	Memory  uint32 // KiB
	Time    uint32
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// DefaultParams matches the parameters used for stored operator credentials.
var DefaultParams = Argon2Params{
	Memory:  15000,
	Time:    2,
	Threads: 1,
	KeyLen:  32,
	SaltLen: 16,
}

// phcHash is a parsed argon2id PHC string.
type phcHash struct {
	params Argon2Params
	salt   []byte
	hash   []byte
}

// parsePHC parses "$argon2id$v=19$m=...,t=...,p=...$<salt>$<hash>" with
// unpadded standard base64 for salt and hash.
func parsePHC(s string) (phcHash, error) {
	parts := strings.Split(s, "$")
	if len(parts) != 6 || parts[0] != "" {
		return phcHash{}, fmt.Errorf("malformed PHC string")
	}
	if parts[1] != "argon2id" {
		return phcHash{}, fmt.Errorf("unsupported hash algorithm %q", parts[1])
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return phcHash{}, fmt.Errorf("malformed PHC version: %w", err)
	}
	if version != argon2.Version {
		return phcHash{}, fmt.Errorf("unsupported argon2 version %d", version)
	}
	var p phcHash
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.params.Memory, &p.params.Time, &p.params.Threads); err != nil {
		return phcHash{}, fmt.Errorf("malformed PHC parameters: %w", err)
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return phcHash{}, fmt.Errorf("malformed PHC salt: %w", err)
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return phcHash{}, fmt.Errorf("malformed PHC hash: %w", err)
	}
	p.salt = salt
	p.hash = hash
	p.params.KeyLen = uint32(len(hash))
	p.params.SaltLen = uint32(len(salt))
	return p, nil
}

// VerifyPassword checks a candidate password against a stored PHC hash.
// It returns ErrInvalidCredentials on mismatch and a descriptive error if
// the stored hash cannot be parsed (an operational fault, not a user error).
func VerifyPassword(candidate, storedPHC string) error {
	parsed, err := parsePHC(storedPHC)
	if err != nil {
		return fmt.Errorf("parse stored password hash: %w", err)
	}
	computed := argon2.IDKey([]byte(candidate), parsed.salt,
		parsed.params.Time, parsed.params.Memory, parsed.params.Threads, parsed.params.KeyLen)
	if subtle.ConstantTimeCompare(computed, parsed.hash) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

// GenerateHash hashes a password into a PHC string with the given
// parameters. Used when seeding operator accounts and in tests.
func GenerateHash(password string, params Argon2Params) (string, error) {
	salt := make([]byte, params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	hash := argon2.IDKey([]byte(password), salt, params.Time, params.Memory, params.Threads, params.KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, params.Memory, params.Time, params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash)), nil
}
