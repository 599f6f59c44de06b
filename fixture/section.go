package fixture

import (
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/synqronlabs/spfsuite/event"
	"github.com/synqronlabs/spfsuite/zone"
)

// Section is one fixture document: a group of tests and the zone data
// they are evaluated against. Tests are kept in document order.
type Section struct {
	ID          ulid.ULID
	Description string
	Comment     string
	Tests       []*Test
	Zone        *zone.Store

	// Line is the line of the document start, or zero when unknown.
	Line int
}

// RecordCount returns the number of zone records, zero without zone data.
func (s *Section) RecordCount() int {
	if s.Zone == nil {
		return 0
	}
	return s.Zone.Len()
}

// buildSection reads one document. It returns nil without an error at the
// end of the stream.
func (p *parser) buildSection() (*Section, error) {
	ev, err := p.expect(setDocumentStart)
	if err != nil {
		return nil, err
	}
	if ev.Kind == event.StreamEnd {
		return nil, nil
	}

	s := &Section{ID: ulid.Make(), Line: ev.Line}
	if err := p.discard(setMappingStart); err != nil {
		return nil, err
	}

	for {
		ev, err := p.expect(setKey)
		if err != nil {
			return nil, err
		}
		if ev.Kind == event.MappingEnd {
			break
		}

		switch ev.Value {
		case "description":
			s.Description, err = p.fold()
		case "comment":
			s.Comment, err = p.fold()
		case "tests":
			err = p.buildTests(s)
		case "zonedata":
			s.Zone, err = p.buildZone()
		default:
			return nil, p.errorf(ErrUnknownSection, "%q", ev.Value)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := p.discard(setDocumentEnd); err != nil {
		return nil, err
	}

	p.logger.Debug("section compiled",
		slog.String("section_id", s.ID.String()),
		slog.String("description", s.Description),
		slog.Int("tests", len(s.Tests)),
		slog.Int("records", s.RecordCount()))
	return s, nil
}

func (p *parser) buildTests(s *Section) error {
	if err := p.discard(setMappingStart); err != nil {
		return err
	}
	for {
		t, err := p.buildTest()
		if err != nil {
			return err
		}
		if t == nil {
			return nil
		}
		s.Tests = append(s.Tests, t)
	}
}
