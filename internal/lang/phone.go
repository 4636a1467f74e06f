package lang

import (
	"strings"
	"unicode"
)

// NormalizePhone reduces provider addresses ("whatsapp:+41 79 123 45 67",
// "0041791234567") to E.164-like form.
func NormalizePhone(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, ":"); i >= 0 {
		s = s[i+1:]
	}

	var b strings.Builder
	for i, r := range s {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}

	out := b.String()
	if strings.HasPrefix(out, "00") {
		out = "+" + out[2:]
	}
	return out
}
