package event

import "io"

// ListSource replays a fixed slice of events.
type ListSource struct {
	events []Event
	pos    int
}

// NewListSource returns a Source that yields events in order and then io.EOF.
func NewListSource(events ...Event) *ListSource {
	return &ListSource{events: events}
}

// Next returns the next event.
func (s *ListSource) Next() (Event, error) {
	if s.pos >= len(s.events) {
		return Event{}, io.EOF
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}

// Remaining returns the number of events not yet consumed.
func (s *ListSource) Remaining() int {
	return len(s.events) - s.pos
}

// Helpers for building event streams by hand.

func ScalarEvent(v string) Event { return Event{Kind: Scalar, Value: v} }
func MappingStartEvent() Event   { return Event{Kind: MappingStart} }
func MappingEndEvent() Event     { return Event{Kind: MappingEnd} }
func SequenceStartEvent() Event  { return Event{Kind: SequenceStart} }
func SequenceEndEvent() Event    { return Event{Kind: SequenceEnd} }
func DocumentStartEvent() Event  { return Event{Kind: DocumentStart} }
func DocumentEndEvent() Event    { return Event{Kind: DocumentEnd} }
func StreamStartEvent() Event    { return Event{Kind: StreamStart} }
func StreamEndEvent() Event      { return Event{Kind: StreamEnd} }

// Sequence wraps scalar values in sequence-start/sequence-end events.
func Sequence(values ...string) []Event {
	out := make([]Event, 0, len(values)+2)
	out = append(out, SequenceStartEvent())
	for _, v := range values {
		out = append(out, ScalarEvent(v))
	}
	return append(out, SequenceEndEvent())
}
