package domain

import (
	"strings"
	"testing"
)

func TestParseToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"valid token", "a1B2c3D4e5F6g7H8i9J0k1L2m", true},
		{"all digits", strings.Repeat("7", 25), true},
		{"empty", "", false},
		{"too short", strings.Repeat("a", 24), false},
		{"too long", strings.Repeat("a", 26), false},
		{"contains dash", "a1B2c3D4e5F6g7H8i9J0k1L2-", false},
		{"contains space", "a1B2c3D4e5F6g7H8i9J0k1L2 ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.token)
			if got := err == nil; got != tt.want {
				t.Errorf("ParseToken(%q) valid = %v, want %v (err: %v)", tt.token, got, tt.want, err)
			}
		})
	}
}

func TestGenerateTokenRoundTrips(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok := GenerateToken()
		if _, err := ParseToken(tok.String()); err != nil {
			t.Fatalf("generated token %q failed validation: %v", tok, err)
		}
		if seen[tok.String()] {
			t.Fatalf("generated duplicate token %q", tok)
		}
		seen[tok.String()] = true
	}
}
