package event

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
)

// JSONSource produces events from a stream of JSON values. Each top-level
// value is reported as one document. Positions are not tracked.
type JSONSource struct {
	dec     *json.Decoder
	depth   int
	pending []Event
	started bool
	done    bool
	err     error
}

// NewJSONSource returns a Source reading JSON values from r.
func NewJSONSource(r io.Reader) *JSONSource {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &JSONSource{dec: dec}
}

// Next returns the next event.
func (s *JSONSource) Next() (Event, error) {
	if s.err != nil {
		return Event{}, s.err
	}
	if !s.started {
		s.started = true
		return Event{Kind: StreamStart}, nil
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

func (s *JSONSource) fill() error {
	tok, err := s.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			if s.depth != 0 {
				return fmt.Errorf("event: json: %w", io.ErrUnexpectedEOF)
			}
			s.done = true
			s.pending = append(s.pending, Event{Kind: StreamEnd})
			return nil
		}
		return fmt.Errorf("event: json: %w", err)
	}

	if s.depth == 0 {
		s.pending = append(s.pending, Event{Kind: DocumentStart})
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			s.depth++
			s.pending = append(s.pending, Event{Kind: MappingStart})
		case '}':
			s.depth--
			s.pending = append(s.pending, Event{Kind: MappingEnd})
		case '[':
			s.depth++
			s.pending = append(s.pending, Event{Kind: SequenceStart})
		case ']':
			s.depth--
			s.pending = append(s.pending, Event{Kind: SequenceEnd})
		}
	case string:
		s.pending = append(s.pending, Event{Kind: Scalar, Value: v})
	case json.Number:
		s.pending = append(s.pending, Event{Kind: Scalar, Value: string(v)})
	case float64:
		s.pending = append(s.pending, Event{Kind: Scalar, Value: strconv.FormatFloat(v, 'g', -1, 64)})
	case bool:
		s.pending = append(s.pending, Event{Kind: Scalar, Value: strconv.FormatBool(v)})
	case nil:
		s.pending = append(s.pending, Event{Kind: Scalar, Value: "null"})
	default:
		return fmt.Errorf("event: json: unexpected token %T", tok)
	}

	if s.depth == 0 {
		s.pending = append(s.pending, Event{Kind: DocumentEnd})
	}
	return nil
}
