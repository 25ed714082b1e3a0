package sanitizex

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// CleanSingleLine normalizes a string to Unicode NFC and rewrites every run
// of whitespace or control characters as one ASCII space, dropping leading
// and trailing runs entirely. Meant for fields that must never contain
// newlines or tabs, such as person names.
func CleanSingleLine(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range norm.NFC.String(s) {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			// a leading run has nothing in front of it to separate
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeEmail canonicalizes an email address for storage and comparison:
// Unicode NFC, surrounding whitespace stripped, and the whole address
// lowercased. Addresses differing only in case are treated as the same
// account.
func NormalizeEmail(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	s = strings.TrimSpace(s)
	return strings.ToLower(s)
}
