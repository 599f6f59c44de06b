package fixture

import (
	"log/slog"
	"slices"

	"github.com/synqronlabs/spfsuite/event"
)

// Status is an expected SPF evaluation outcome.
type Status string

const (
	StatusNone      Status = "none"
	StatusNeutral   Status = "neutral"
	StatusPass      Status = "pass"
	StatusFail      Status = "fail"
	StatusSoftfail  Status = "softfail"
	StatusTemperror Status = "temperror"
	StatusPermerror Status = "permerror"
)

// Valid reports whether s is one of the defined outcomes.
func (s Status) Valid() bool {
	switch s {
	case StatusNone, StatusNeutral, StatusPass, StatusFail,
		StatusSoftfail, StatusTemperror, StatusPermerror:
		return true
	}
	return false
}

// maxResults is the number of outcomes a test may list: the expected
// result and an acceptable alternative.
const maxResults = 2

// Test is one fixture test case.
type Test struct {
	Name        string
	Description string
	Comment     string
	Spec        string
	Helo        string
	Host        string
	MailFrom    string
	Result      []Status
	Explanation string
}

// Accepts reports whether s is among the outcomes the test allows.
func (t *Test) Accepts(s Status) bool {
	return slices.Contains(t.Result, s)
}

// buildTest reads one entry of a tests mapping. It returns nil without an
// error when the mapping ends instead.
func (p *parser) buildTest() (*Test, error) {
	ev, err := p.expect(setKey)
	if err != nil {
		return nil, err
	}
	if ev.Kind == event.MappingEnd {
		return nil, nil
	}

	t := &Test{Name: ev.Value}
	if err := p.discard(setMappingStart); err != nil {
		return nil, err
	}

	for {
		ev, err := p.expect(setKey)
		if err != nil {
			return nil, err
		}
		if ev.Kind == event.MappingEnd {
			return t, nil
		}

		switch ev.Value {
		case "description":
			t.Description, err = p.fold()
		case "comment":
			t.Comment, err = p.fold()
		case "spec":
			t.Spec, err = p.fold()
		case "helo":
			t.Helo, err = p.fold()
		case "host":
			t.Host, err = p.fold()
		case "mailfrom":
			t.MailFrom, err = p.fold()
		case "result":
			t.Result, err = p.readResults(t.Name)
		case "explanation":
			t.Explanation, err = p.fold()
		default:
			p.logger.Warn("unknown test field",
				slog.String("test", t.Name),
				slog.String("field", ev.Value),
				p.pos())
			err = p.skipValue()
		}
		if err != nil {
			return nil, err
		}
	}
}

// readResults reads a single outcome or a sequence of at most maxResults.
func (p *parser) readResults(name string) ([]Status, error) {
	ev, err := p.expect(setScalarOrSeq)
	if err != nil {
		return nil, err
	}
	if ev.Kind == event.Scalar {
		return []Status{p.status(name, ev.Value)}, nil
	}

	results := make([]Status, 0, maxResults)
	for {
		ev, err = p.expect(setScalarOrSeqEnd)
		if err != nil {
			return nil, err
		}
		if ev.Kind == event.SequenceEnd {
			return results, nil
		}
		if len(results) == maxResults {
			return nil, p.errorf(ErrTooManyResults, "test %q lists more than %d", name, maxResults)
		}
		results = append(results, p.status(name, ev.Value))
	}
}

func (p *parser) status(name, value string) Status {
	s := Status(value)
	if !s.Valid() {
		p.logger.Warn("unknown result",
			slog.String("test", name),
			slog.String("result", value),
			p.pos())
	}
	return s
}
