// Package transform maps external platform records into internal entity
// values. Everything here is a pure function: validation, normalization,
// status code mapping and field-level diffing, with no I/O and no knowledge
// of storage or transport.
package transform

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// NormalizeEmail lower-cases and trims an email address. Addresses missing
// either '@' or '.' are rejected.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", fmt.Errorf("email is empty")
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return "", fmt.Errorf("invalid email %q", email)
	}
	return email, nil
}

// NormalizePhone strips formatting characters from a phone number, keeping
// digits and a leading international '+'.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	for i, r := range raw {
		if unicode.IsDigit(r) || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// dateLayouts accepted from the platform, tried in order. Layouts without a
// zone are interpreted as UTC; a bare date becomes UTC midnight.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses an ISO-8601 date or date-time. Absent or unparseable
// input yields nil rather than an error: the platform routinely omits dates.
func ParseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
