package zone

import (
	"strconv"
	"strings"
)

// TXT and SPF character-strings are held by miekg/dns in master-file
// presentation form, where a backslash starts an escape. EscapeText and
// UnescapeText convert between that form and raw record text.

// EscapeText returns raw text in presentation form: backslash and double
// quote are escaped, and bytes outside printable ASCII become \DDD.
func EscapeText(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '"' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c < ' ' || c > '~':
			b.WriteByte('\\')
			if c < 100 {
				b.WriteByte('0')
			}
			if c < 10 {
				b.WriteByte('0')
			}
			b.WriteString(strconv.Itoa(int(c)))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// EscapeSegments applies EscapeText to each character-string.
func EscapeSegments(raw []string) []string {
	out := make([]string, len(raw))
	for i, s := range raw {
		out[i] = EscapeText(s)
	}
	return out
}

// UnescapeText reverses EscapeText. It also accepts the escapes produced by
// the miekg/dns zone parser.
func UnescapeText(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b = append(b, c)
			continue
		}
		if i+3 < len(s) && isDigit(s[i+1]) && isDigit(s[i+2]) && isDigit(s[i+3]) {
			n := int(s[i+1]-'0')*100 + int(s[i+2]-'0')*10 + int(s[i+3]-'0')
			if n <= 0xff {
				b = append(b, byte(n))
				i += 3
				continue
			}
		}
		b = append(b, s[i+1])
		i++
	}
	return string(b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
