package event

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLSource produces events from a multi-document YAML stream.
// Each document is decoded into a yaml.Node and flattened; at most one
// document's events are buffered at a time.
type YAMLSource struct {
	dec     *yaml.Decoder
	pending []Event
	started bool
	done    bool
	err     error

	// events emitted for the current document, and how many of them
	// came from alias expansion
	emitted, aliased int
}

// NewYAMLSource returns a Source reading YAML documents from r.
func NewYAMLSource(r io.Reader) *YAMLSource {
	return &YAMLSource{dec: yaml.NewDecoder(r)}
}

// Next returns the next event.
func (s *YAMLSource) Next() (Event, error) {
	if s.err != nil {
		return Event{}, s.err
	}
	if !s.started {
		s.started = true
		return Event{Kind: StreamStart, Line: 1, Column: 1}, nil
	}
	if len(s.pending) == 0 {
		if s.done {
			return Event{}, io.EOF
		}
		if err := s.fill(); err != nil {
			s.err = ErrSourceClosed
			return Event{}, err
		}
	}
	ev := s.pending[0]
	s.pending = s.pending[1:]
	return ev, nil
}

func (s *YAMLSource) fill() error {
	var doc yaml.Node
	if err := s.dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			s.done = true
			s.pending = append(s.pending, Event{Kind: StreamEnd})
			return nil
		}
		return fmt.Errorf("event: yaml: %w", err)
	}

	s.emitted, s.aliased = 0, 0
	s.pending = append(s.pending, Event{Kind: DocumentStart, Line: doc.Line, Column: doc.Column})
	if len(doc.Content) == 0 {
		s.pending = append(s.pending, Event{Kind: Scalar, Line: doc.Line, Column: doc.Column})
	} else {
		for _, n := range doc.Content {
			if err := s.flatten(n, 0); err != nil {
				return err
			}
		}
	}
	s.pending = append(s.pending, Event{Kind: DocumentEnd})
	return nil
}

// maxAliasDepth bounds alias nesting.
const maxAliasDepth = 64

// Alias expansion is bounded the way yaml.v3 bounds it when decoding into
// Go values: once a document is large, the share of its events produced by
// aliases must stay below a ratio that shrinks as the document grows.
const (
	aliasRatioRangeLow  = 400000
	aliasRatioRangeHigh = 4000000
)

func allowedAliasRatio(emitted int) float64 {
	switch {
	case emitted <= aliasRatioRangeLow:
		return 0.99
	case emitted >= aliasRatioRangeHigh:
		return 0.10
	default:
		return 0.99 - 0.89*float64(emitted-aliasRatioRangeLow)/float64(aliasRatioRangeHigh-aliasRatioRangeLow)
	}
}

func (s *YAMLSource) emit(ev Event, aliases int) error {
	s.emitted++
	if aliases > 0 {
		s.aliased++
	}
	if s.aliased > 100 && s.emitted > 1000 &&
		float64(s.aliased)/float64(s.emitted) > allowedAliasRatio(s.emitted) {
		return fmt.Errorf("event: yaml: %d:%d: document contains excessive aliasing", ev.Line, ev.Column)
	}
	s.pending = append(s.pending, ev)
	return nil
}

func (s *YAMLSource) flatten(n *yaml.Node, aliases int) error {
	switch n.Kind {
	case yaml.ScalarNode:
		return s.emit(Event{Kind: Scalar, Value: n.Value, Line: n.Line, Column: n.Column}, aliases)
	case yaml.SequenceNode:
		return s.collection(n, SequenceStart, SequenceEnd, aliases)
	case yaml.MappingNode:
		return s.collection(n, MappingStart, MappingEnd, aliases)
	case yaml.AliasNode:
		if n.Alias == nil || aliases >= maxAliasDepth {
			return fmt.Errorf("event: yaml: %d:%d: unresolvable alias %q", n.Line, n.Column, n.Value)
		}
		return s.flatten(n.Alias, aliases+1)
	case yaml.DocumentNode:
		for _, c := range n.Content {
			if err := s.flatten(c, aliases); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("event: yaml: %d:%d: unexpected node kind %d", n.Line, n.Column, n.Kind)
	}
}

func (s *YAMLSource) collection(n *yaml.Node, start, end Kind, aliases int) error {
	if err := s.emit(Event{Kind: start, Line: n.Line, Column: n.Column}, aliases); err != nil {
		return err
	}
	for _, c := range n.Content {
		if err := s.flatten(c, aliases); err != nil {
			return err
		}
	}
	return s.emit(Event{Kind: end}, aliases)
}
