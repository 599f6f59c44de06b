package fixture

import (
	"fmt"

	"github.com/miekg/dns"
	"github.com/oklog/ulid/v2"
	"github.com/tinylib/msgp/msgp"
	"github.com/synqronlabs/spfsuite/zone"
)

var (
	_ msgp.Marshaler   = (*Section)(nil)
	_ msgp.Unmarshaler = (*Section)(nil)
	_ msgp.Marshaler   = (*Test)(nil)
	_ msgp.Unmarshaler = (*Test)(nil)
)

// MarshalSuite encodes sections as a MessagePack array.
func MarshalSuite(sections []*Section) ([]byte, error) {
	b := msgp.AppendArrayHeader(nil, uint32(len(sections)))
	for i, s := range sections {
		var err error
		if b, err = s.MarshalMsg(b); err != nil {
			return nil, msgp.WrapError(err, i)
		}
	}
	return b, nil
}

// UnmarshalSuite decodes sections written by MarshalSuite.
func UnmarshalSuite(b []byte) ([]*Section, error) {
	n, b, err := msgp.ReadArrayHeaderBytes(b)
	if err != nil {
		return nil, err
	}
	sections := make([]*Section, n)
	for i := range sections {
		sections[i] = new(Section)
		if b, err = sections[i].UnmarshalMsg(b); err != nil {
			return nil, msgp.WrapError(err, i)
		}
	}
	if len(b) != 0 {
		return nil, fmt.Errorf("fixture: %d trailing bytes after suite", len(b))
	}
	return sections, nil
}

// MarshalMsg implements msgp.Marshaler. Zone data is stored as
// master-file lines.
func (s *Section) MarshalMsg(b []byte) ([]byte, error) {
	b = msgp.AppendMapHeader(b, 6)
	b = msgp.AppendString(b, "id")
	b = msgp.AppendBytes(b, s.ID[:])
	b = msgp.AppendString(b, "description")
	b = msgp.AppendString(b, s.Description)
	b = msgp.AppendString(b, "comment")
	b = msgp.AppendString(b, s.Comment)
	b = msgp.AppendString(b, "line")
	b = msgp.AppendInt(b, s.Line)

	b = msgp.AppendString(b, "tests")
	b = msgp.AppendArrayHeader(b, uint32(len(s.Tests)))
	for i, t := range s.Tests {
		var err error
		if b, err = t.MarshalMsg(b); err != nil {
			return b, msgp.WrapError(err, "tests", i)
		}
	}

	b = msgp.AppendString(b, "zone")
	if s.Zone == nil {
		return msgp.AppendNil(b), nil
	}
	records := s.Zone.Records()
	timeouts := s.Zone.Timeouts()
	b = msgp.AppendMapHeader(b, 2)
	b = msgp.AppendString(b, "records")
	b = msgp.AppendArrayHeader(b, uint32(len(records)))
	for _, rr := range records {
		b = msgp.AppendString(b, rr.String())
	}
	b = msgp.AppendString(b, "timeouts")
	b = msgp.AppendArrayHeader(b, uint32(len(timeouts)))
	for _, name := range timeouts {
		b = msgp.AppendString(b, name)
	}
	return b, nil
}

// UnmarshalMsg implements msgp.Unmarshaler.
func (s *Section) UnmarshalMsg(b []byte) ([]byte, error) {
	n, b, err := msgp.ReadMapHeaderBytes(b)
	if err != nil {
		return b, err
	}
	for ; n > 0; n-- {
		var key []byte
		if key, b, err = msgp.ReadMapKeyZC(b); err != nil {
			return b, err
		}
		switch string(key) {
		case "id":
			var id []byte
			if id, b, err = msgp.ReadBytesBytes(b, nil); err != nil {
				return b, msgp.WrapError(err, "id")
			}
			if len(id) != len(s.ID) {
				return b, msgp.WrapError(fmt.Errorf("id has %d bytes", len(id)), "id")
			}
			s.ID = ulid.ULID(id)
		case "description":
			s.Description, b, err = msgp.ReadStringBytes(b)
		case "comment":
			s.Comment, b, err = msgp.ReadStringBytes(b)
		case "line":
			s.Line, b, err = msgp.ReadIntBytes(b)
		case "tests":
			b, err = s.unmarshalTests(b)
		case "zone":
			b, err = s.unmarshalZone(b)
		default:
			b, err = msgp.Skip(b)
		}
		if err != nil {
			return b, msgp.WrapError(err, string(key))
		}
	}
	return b, nil
}

func (s *Section) unmarshalTests(b []byte) ([]byte, error) {
	n, b, err := msgp.ReadArrayHeaderBytes(b)
	if err != nil {
		return b, err
	}
	s.Tests = nil
	for i := uint32(0); i < n; i++ {
		t := new(Test)
		if b, err = t.UnmarshalMsg(b); err != nil {
			return b, msgp.WrapError(err, i)
		}
		s.Tests = append(s.Tests, t)
	}
	return b, nil
}

func (s *Section) unmarshalZone(b []byte) ([]byte, error) {
	if msgp.IsNil(b) {
		s.Zone = nil
		return msgp.ReadNilBytes(b)
	}

	store, err := zone.Open(zone.Config{})
	if err != nil {
		return b, err
	}
	n, b, err := msgp.ReadMapHeaderBytes(b)
	if err != nil {
		return b, err
	}
	for ; n > 0; n-- {
		var key []byte
		if key, b, err = msgp.ReadMapKeyZC(b); err != nil {
			return b, err
		}
		var lines []string
		switch string(key) {
		case "records", "timeouts":
			if lines, b, err = readStrings(b); err != nil {
				return b, msgp.WrapError(err, string(key))
			}
		default:
			if b, err = msgp.Skip(b); err != nil {
				return b, err
			}
			continue
		}

		for _, line := range lines {
			if string(key) == "timeouts" {
				err = store.MarkTimeout(line)
			} else {
				err = insertLine(store, line)
			}
			if err != nil {
				return b, msgp.WrapError(err, string(key))
			}
		}
	}
	s.Zone = store
	return b, nil
}

func insertLine(store *zone.Store, line string) error {
	rr, err := dns.NewRR(line)
	if err != nil {
		return err
	}
	if rr == nil {
		return fmt.Errorf("empty record line")
	}
	hdr := rr.Header()
	return store.Insert(hdr.Name, hdr.Rrtype, hdr.Ttl, rr)
}

func readStrings(b []byte) ([]string, []byte, error) {
	n, b, err := msgp.ReadArrayHeaderBytes(b)
	if err != nil {
		return nil, b, err
	}
	out := make([]string, n)
	for i := range out {
		if out[i], b, err = msgp.ReadStringBytes(b); err != nil {
			return nil, b, msgp.WrapError(err, i)
		}
	}
	return out, b, nil
}

// MarshalMsg implements msgp.Marshaler.
func (t *Test) MarshalMsg(b []byte) ([]byte, error) {
	b = msgp.AppendMapHeader(b, 9)
	b = msgp.AppendString(b, "name")
	b = msgp.AppendString(b, t.Name)
	b = msgp.AppendString(b, "description")
	b = msgp.AppendString(b, t.Description)
	b = msgp.AppendString(b, "comment")
	b = msgp.AppendString(b, t.Comment)
	b = msgp.AppendString(b, "spec")
	b = msgp.AppendString(b, t.Spec)
	b = msgp.AppendString(b, "helo")
	b = msgp.AppendString(b, t.Helo)
	b = msgp.AppendString(b, "host")
	b = msgp.AppendString(b, t.Host)
	b = msgp.AppendString(b, "mailfrom")
	b = msgp.AppendString(b, t.MailFrom)
	b = msgp.AppendString(b, "result")
	b = msgp.AppendArrayHeader(b, uint32(len(t.Result)))
	for _, r := range t.Result {
		b = msgp.AppendString(b, string(r))
	}
	b = msgp.AppendString(b, "explanation")
	b = msgp.AppendString(b, t.Explanation)
	return b, nil
}

// UnmarshalMsg implements msgp.Unmarshaler.
func (t *Test) UnmarshalMsg(b []byte) ([]byte, error) {
	n, b, err := msgp.ReadMapHeaderBytes(b)
	if err != nil {
		return b, err
	}
	for ; n > 0; n-- {
		var key []byte
		if key, b, err = msgp.ReadMapKeyZC(b); err != nil {
			return b, err
		}
		switch string(key) {
		case "name":
			t.Name, b, err = msgp.ReadStringBytes(b)
		case "description":
			t.Description, b, err = msgp.ReadStringBytes(b)
		case "comment":
			t.Comment, b, err = msgp.ReadStringBytes(b)
		case "spec":
			t.Spec, b, err = msgp.ReadStringBytes(b)
		case "helo":
			t.Helo, b, err = msgp.ReadStringBytes(b)
		case "host":
			t.Host, b, err = msgp.ReadStringBytes(b)
		case "mailfrom":
			t.MailFrom, b, err = msgp.ReadStringBytes(b)
		case "result":
			var results []string
			if results, b, err = readStrings(b); err == nil {
				if len(results) > maxResults {
					err = fmt.Errorf("%w: %d", ErrTooManyResults, len(results))
					break
				}
				t.Result = nil
				for _, r := range results {
					t.Result = append(t.Result, Status(r))
				}
			}
		case "explanation":
			t.Explanation, b, err = msgp.ReadStringBytes(b)
		default:
			b, err = msgp.Skip(b)
		}
		if err != nil {
			return b, msgp.WrapError(err, string(key))
		}
	}
	return b, nil
}
