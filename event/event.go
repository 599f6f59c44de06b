package event

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSourceClosed is returned by sources that are read after an error.
var ErrSourceClosed = errors.New("event: source closed")

// Kind identifies the type of a parse event.
type Kind uint8

const (
	NoEvent Kind = iota
	StreamStart
	StreamEnd
	DocumentStart
	DocumentEnd
	Alias
	Scalar
	SequenceStart
	SequenceEnd
	MappingStart
	MappingEnd
)

var kindNames = [...]string{
	NoEvent:       "none",
	StreamStart:   "stream-start",
	StreamEnd:     "stream-end",
	DocumentStart: "document-start",
	DocumentEnd:   "document-end",
	Alias:         "alias",
	Scalar:        "scalar",
	SequenceStart: "sequence-start",
	SequenceEnd:   "sequence-end",
	MappingStart:  "mapping-start",
	MappingEnd:    "mapping-end",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// KindSet is a set of event kinds.
type KindSet uint16

// NewKindSet returns the set containing kinds.
func NewKindSet(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s |= 1 << k
	}
	return s
}

// Has reports whether k is a member of the set.
func (s KindSet) Has(k Kind) bool {
	return s&(1<<k) != 0
}

// String joins the member names with "|", in kind order.
func (s KindSet) String() string {
	var names []string
	for k := StreamStart; k <= MappingEnd; k++ {
		if s.Has(k) {
			names = append(names, k.String())
		}
	}
	return strings.Join(names, "|")
}

// Event is one unit of a structured-document parse stream.
// Value is only meaningful for Scalar events. Line and Column are
// 1-based; zero means the position is unknown.
type Event struct {
	Kind   Kind
	Value  string
	Line   int
	Column int
}

// Len returns the length of the scalar value in bytes.
func (e Event) Len() int {
	return len(e.Value)
}

// Position formats the event location as "line:column", or "" when unknown.
func (e Event) Position() string {
	if e.Line == 0 {
		return ""
	}
	return fmt.Sprintf("%d:%d", e.Line, e.Column)
}

func (e Event) String() string {
	if e.Kind == Scalar {
		return fmt.Sprintf("%s %q", e.Kind, e.Value)
	}
	return e.Kind.String()
}

// Source produces parse events one at a time. After the stream-end
// event has been returned, Next returns io.EOF.
type Source interface {
	Next() (Event, error)
}
