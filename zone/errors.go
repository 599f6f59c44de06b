package zone

import "errors"

// Lookup errors. The names mirror the errors a live resolver reports so
// that a Store can stand in for one.
var (
	ErrDNSNotFound = errors.New("dns: no such record")
	ErrDNSTimeout  = errors.New("dns: query timed out")
	ErrDNSServFail = errors.New("dns: server failure")
)

// Store errors.
var (
	ErrInvalidName  = errors.New("zone: invalid domain name")
	ErrTypeMismatch = errors.New("zone: record does not match type")
	ErrZoneFull     = errors.New("zone: record limit reached")
	ErrNilRecord    = errors.New("zone: nil record")
	ErrBadConfig    = errors.New("zone: invalid configuration")
)

// IsNotFound reports whether err indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDNSNotFound)
}

// IsTimeout reports whether err indicates a timed out lookup.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrDNSTimeout)
}

// IsTemporary reports whether err is a transient lookup failure.
func IsTemporary(err error) bool {
	return errors.Is(err, ErrDNSTimeout) || errors.Is(err, ErrDNSServFail)
}
