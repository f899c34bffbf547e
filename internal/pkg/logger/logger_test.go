package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"ursula.leguin@example.com", "ur***@example.com"},
		{"ab@example.com", "***@example.com"},
		{"not-an-email", "***@***"},
	}
	for _, tt := range tests {
		if got := RedactEmail(tt.email); got != tt.want {
			t.Errorf("RedactEmail(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}

func TestLoggerRedactsEmailFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, INFO)

	l.Log(INFO, "subscriber added", "subscriber_email", "ursula_le_guin@gmail.com")

	var entry map[string]string
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if strings.Contains(entry["subscriber_email"], "ursula_le_guin") {
		t.Errorf("email not redacted: %q", entry["subscriber_email"])
	}
	if entry["level"] != "INFO" || entry["msg"] != "subscriber added" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestLoggerKeepsNonEmailValuesIntact(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, INFO)

	l.Log(INFO, "subscriber confirmed",
		"subscriber_id", "0d2d92b4-9f48-4b94-b8c2-4f0f7e3f4f33",
		"note", "reply to ursula_le_guin@gmail.com today")

	var entry map[string]string
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if entry["subscriber_id"] != "0d2d92b4-9f48-4b94-b8c2-4f0f7e3f4f33" {
		t.Errorf("subscriber_id mangled: %q", entry["subscriber_id"])
	}
	if strings.Contains(entry["note"], "ursula_le_guin@gmail.com") {
		t.Errorf("embedded address not redacted: %q", entry["note"])
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, WARN)

	l.Log(INFO, "hidden")
	if buf.Len() != 0 {
		t.Errorf("INFO entry emitted below WARN level: %s", buf.String())
	}
	l.Log(ERROR, "shown")
	if buf.Len() == 0 {
		t.Error("ERROR entry suppressed")
	}
}
