package fixture

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/synqronlabs/spfsuite/event"
	"github.com/synqronlabs/spfsuite/zone"
)

// Event sets used by the builders. Each names the events a grammar
// rule accepts at that point.
var (
	setStreamStart     = event.NewKindSet(event.StreamStart)
	setDocumentStart   = event.NewKindSet(event.DocumentStart, event.StreamEnd)
	setDocumentEnd     = event.NewKindSet(event.DocumentEnd)
	setMappingStart    = event.NewKindSet(event.MappingStart)
	setMappingEnd      = event.NewKindSet(event.MappingEnd)
	setSequenceStart   = event.NewKindSet(event.SequenceStart)
	setSequenceEnd     = event.NewKindSet(event.SequenceEnd)
	setScalar          = event.NewKindSet(event.Scalar)
	setKey             = event.NewKindSet(event.Scalar, event.MappingEnd)
	setScalarOrSeq     = event.NewKindSet(event.Scalar, event.SequenceStart)
	setScalarOrSeqEnd  = event.NewKindSet(event.Scalar, event.SequenceEnd)
	setZoneEntry       = event.NewKindSet(event.MappingStart, event.Scalar, event.SequenceEnd)
	setValue           = event.NewKindSet(event.Scalar, event.SequenceStart, event.MappingStart)
	setNestedStructure = event.NewKindSet(event.Scalar, event.SequenceStart, event.SequenceEnd, event.MappingStart, event.MappingEnd)
)

// parser owns the event source for the duration of a compilation. All
// reads go through expect so that every step of the grammar declares the
// events it accepts.
type parser struct {
	src    event.Source
	logger *slog.Logger
	zone   zone.Config

	// last known source position, for events without one
	line, column int
}

// expect pulls one event and fails unless its kind is in set.
func (p *parser) expect(set event.KindSet) (event.Event, error) {
	ev, err := p.src.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return ev, fmt.Errorf("%w: %w", ErrSource, err)
	}
	if ev.Line > 0 {
		p.line, p.column = ev.Line, ev.Column
	}
	if !set.Has(ev.Kind) {
		return ev, p.errorf(ErrUnexpectedEvent, "got %s, expected %s", ev.Kind, set)
	}
	return ev, nil
}

// discard pulls one event of a kind in set and drops it.
func (p *parser) discard(set event.KindSet) error {
	_, err := p.expect(set)
	return err
}

// skipValue consumes one complete value: a scalar, or a sequence or
// mapping including everything nested inside it.
func (p *parser) skipValue() error {
	ev, err := p.expect(setValue)
	if err != nil {
		return err
	}
	depth := 0
	for {
		switch ev.Kind {
		case event.SequenceStart, event.MappingStart:
			depth++
		case event.SequenceEnd, event.MappingEnd:
			depth--
		}
		if depth == 0 {
			return nil
		}
		if ev, err = p.expect(setNestedStructure); err != nil {
			return err
		}
	}
}

// fold reads a text value given either as one scalar or as a sequence of
// scalar chunks, which are concatenated without separators.
func (p *parser) fold() (string, error) {
	ev, err := p.expect(setScalarOrSeq)
	if err != nil {
		return "", err
	}
	if ev.Kind == event.Scalar {
		return ev.Value, nil
	}

	var b strings.Builder
	for {
		ev, err = p.expect(setScalarOrSeqEnd)
		if err != nil {
			return "", err
		}
		if ev.Kind == event.SequenceEnd {
			return b.String(), nil
		}
		b.WriteString(ev.Value)
	}
}

func (p *parser) errorf(sentinel error, format string, args ...any) *Error {
	return &Error{
		Line:   p.line,
		Column: p.column,
		Err:    sentinel,
		Detail: fmt.Sprintf(format, args...),
	}
}

func (p *parser) pos() slog.Attr {
	return slog.String("pos", fmt.Sprintf("%d:%d", p.line, p.column))
}
