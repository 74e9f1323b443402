package pyast

import (
	"strings"
)

// UnquoteString decodes the source text of a Python string literal.
// Only plain and raw str literals are accepted: bytes and f-strings are not
// static strings and report false.
func UnquoteString(lit string) (string, bool) {
	i := strings.IndexAny(lit, `'"`)
	if i < 0 {
		return "", false
	}
	prefix := strings.ToLower(lit[:i])
	raw := false
	for _, c := range prefix {
		switch c {
		case 'r':
			raw = true
		case 'u':
		default:
			return "", false
		}
	}

	body := lit[i:]
	quote := body[:1]
	if strings.HasPrefix(body, strings.Repeat(quote, 3)) && len(body) >= 6 {
		quote = strings.Repeat(quote, 3)
	}
	if len(body) < 2*len(quote) || !strings.HasSuffix(body, quote) {
		return "", false
	}
	body = body[len(quote) : len(body)-len(quote)]

	if raw {
		return body, true
	}
	return unescape(body), true
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case '\n':
			// line continuation
		case '\\':
			b.WriteByte('\\')
		case '\'':
			b.WriteByte('\'')
		case '"':
			b.WriteByte('"')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		default:
			// Unknown escapes keep their backslash, as in Python.
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
