package zone

import (
	"fmt"
	"unicode/utf8"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"
)

// Anchor validates name and returns it as a canonical, lower-case,
// fully-qualified domain name. Names with non-ASCII characters are
// converted to A-labels first. Labels are limited to 63 bytes and the
// whole name to 255 bytes on the wire.
func Anchor(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if containsNonASCII(name) {
		a, err := idna.Punycode.ToASCII(name)
		if err != nil {
			return "", fmt.Errorf("%w: %q: %v", ErrInvalidName, name, err)
		}
		name = a
	}
	if _, ok := dns.IsDomainName(name); !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return dns.CanonicalName(name), nil
}

func containsNonASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return true
		}
	}
	return false
}
