package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ascii local", "valid@gmail.com", "va****@gmail.com"},
		{"empty input", "", ""},
		{"whitespace only", "   ", ""},
		{"local of one rune kept whole", "a@b.c", "a@b.c"},
		{"local of two runes kept whole", "ab@b.c", "ab@b.c"},
		{"three rune local is the threshold", "abc@domain.com", "ab****@domain.com"},
		{"cyrillic local and domain", "абвгд@пример.рф", "аб****@пример.рф"},
		{"emoji local", "😀😀😀@ex.com", "😀😀****@ex.com"},
		{"surrounding whitespace trimmed", "   elise@example.com   ", "el****@example.com"},
		{"no at sign", "nonsense", "nonsense"},
		{"at sign first", "@example.com", "@example.com"},
		{"at sign last", "local@", "local@"},
		{"second at sign lands in the domain", "first@second@domain.com", "fi****@second@domain.com"},
		{"subdomains survive", "abcdef@sub.example.co.uk", "ab****@sub.example.co.uk"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, RedactEmail(tc.in))
		})
	}
}

func TestRedactKeepPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		keep int
		want string
	}{
		{"empty input", "", 3, ""},
		{"one rune under keep", "x", 3, "x"},
		{"exactly keep runes unchanged", "key", 3, "key"},
		{"one rune over keep", "key!", 3, "key****"},
		{"longer keep", "activate", 4, "acti****"},
		{"whitespace trimmed before counting", "  padded  ", 3, "pad****"},
		{"cyrillic counted by rune", "пользователь", 3, "пол****"},
		{"emoji counted by rune", "😀😁😂😃", 2, "😀😁****"},
		{"mixed scripts", "userユーザー", 4, "user****"},
		{"keep longer than value", "tiny", 10, "tiny"},
		{"boundary at ten runes", "0123456789", 10, "0123456789"},
		{"eleven runes redacted", "0123456789a", 10, "0123456789****"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, RedactKeepPrefix(tc.in, tc.keep))
		})
	}
}

func TestRedactToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty input", "", ""},
		{"shorter than the kept prefix", "abc123", "abc123"},
		{"activation key shape", "a3dd2eae7adf19b6d9bc9d4a1f25a9e47b3a15c0", "a3dd2e****"},
		{"sentinel value", "ALREADY_ACTIVATED", "ALREAD****"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, RedactToken(tc.in))
		})
	}
}
