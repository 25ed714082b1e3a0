package logging

import (
	"strings"
	"unicode/utf8"
)

// runePrefix returns the first n runes of s without splitting a multibyte
// character.
func runePrefix(s string, n int) string {
	offset := 0
	for count := 0; count < n && offset < len(s); count++ {
		_, size := utf8.DecodeRuneInString(s[offset:])
		offset += size
	}
	return s[:offset]
}

// RedactEmail keeps the first two runes of the local part and the whole
// domain, masking the rest. Malformed addresses and local parts shorter
// than three runes come back unchanged rather than half-redacted.
func RedactEmail(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	at := strings.IndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return s
	}

	local, domain := s[:at], s[at+1:]
	if utf8.RuneCountInString(local) < 3 {
		return s
	}

	return runePrefix(local, 2) + "****@" + domain
}

// RedactKeepPrefix keeps the first keep runes of s and masks the rest with
// "****". Inputs with at most keep runes are returned unchanged.
func RedactKeepPrefix(s string, keep int) string {
	s = strings.TrimSpace(s)
	if s == "" || keep <= 0 {
		return s
	}
	if utf8.RuneCountInString(s) <= keep {
		return s
	}

	return runePrefix(s, keep) + "****"
}

// RedactToken masks an opaque token (activation key, session token) for
// logging. Only a short prefix survives, enough to correlate log lines
// without making the value usable.
func RedactToken(s string) string {
	return RedactKeepPrefix(s, 6)
}
