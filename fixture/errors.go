package fixture

import (
	"errors"
	"fmt"
	"strings"
)

// Fixture compilation errors. Every fatal error returned by the decoder
// wraps one of these.
var (
	ErrUnexpectedEvent = errors.New("fixture: unexpected event")
	ErrTooManyResults  = errors.New("fixture: too many results")
	ErrBadAddress      = errors.New("fixture: malformed address")
	ErrSegmentTooLong  = errors.New("fixture: text segment exceeds 255 bytes")
	ErrTextTooLong     = errors.New("fixture: text exceeds record capacity")
	ErrBadPriority     = errors.New("fixture: malformed MX priority")
	ErrUnknownSection  = errors.New("fixture: unknown top-level field")
	ErrStore           = errors.New("fixture: record store failure")
	ErrSource          = errors.New("fixture: event source failure")
)

// errSkipRecord reports a zone record that was consumed but not decoded.
// It never escapes the zone builder.
var errSkipRecord = errors.New("fixture: record skipped")

// Error is a fatal compilation error with the source position of the
// event that triggered it.
type Error struct {
	Line   int
	Column int
	Err    error
	Detail string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("fixture: ")
	if e.Line > 0 {
		fmt.Fprintf(&b, "%d:%d: ", e.Line, e.Column)
	}
	b.WriteString(strings.TrimPrefix(e.Err.Error(), "fixture: "))
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}
