package fixture

import (
	"bytes"
	"log/slog"
	"net"
	"net/netip"
	"strconv"

	"github.com/miekg/dns"
	"github.com/synqronlabs/spfsuite/event"
	"github.com/synqronlabs/spfsuite/zone"
)

// RecordTTL is the time-to-live given to every fixture record.
const RecordTTL = 3600

const (
	// textCapacity is the largest text record the decoder accepts.
	textCapacity = 1024

	// segmentMax is the largest character-string in TXT wire format.
	segmentMax = 255
)

// decodeRecord decodes the value of a zone record entry whose type tag has
// already been read. When the entry cannot be represented it is consumed
// and errSkipRecord is returned; the stream is then positioned at the end
// of the entry either way.
func (p *parser) decodeRecord(tag string) (uint16, dns.RR, error) {
	rrtype, ok := dns.StringToType[tag]
	if !ok {
		p.logger.Warn("unknown record type", slog.String("type", tag), p.pos())
		return 0, nil, p.skipRecord()
	}

	switch rrtype {
	case dns.TypeA:
		addr, err := p.address(func(a netip.Addr) bool { return a.Is4() })
		if err != nil {
			return 0, nil, err
		}
		return rrtype, &dns.A{A: net.IP(addr.AsSlice())}, nil

	case dns.TypeAAAA:
		addr, err := p.address(func(a netip.Addr) bool { return a.Is6() })
		if err != nil {
			return 0, nil, err
		}
		return rrtype, &dns.AAAA{AAAA: net.IP(addr.AsSlice())}, nil

	case dns.TypePTR:
		ev, err := p.expect(setScalar)
		if err != nil {
			return 0, nil, err
		}
		host, err := zone.Anchor(ev.Value)
		if err != nil {
			p.logger.Warn("skipping PTR record", slog.Any("error", err), p.pos())
			return 0, nil, errSkipRecord
		}
		return rrtype, &dns.PTR{Ptr: host}, nil

	case dns.TypeMX:
		return p.decodeMX()

	case dns.TypeTXT, dns.TypeSPF:
		segments, err := p.readText()
		if err != nil {
			return 0, nil, err
		}
		txt := zone.EscapeSegments(segments)
		if rrtype == dns.TypeSPF {
			return rrtype, &dns.SPF{Txt: txt}, nil
		}
		return rrtype, &dns.TXT{Txt: txt}, nil

	default:
		p.logger.Warn("unsupported record type", slog.String("type", tag), p.pos())
		return 0, nil, p.skipRecord()
	}
}

func (p *parser) skipRecord() error {
	if err := p.skipValue(); err != nil {
		return err
	}
	return errSkipRecord
}

// address reads one scalar as an IP address of the family accepted by ok.
func (p *parser) address(ok func(netip.Addr) bool) (netip.Addr, error) {
	ev, err := p.expect(setScalar)
	if err != nil {
		return netip.Addr{}, err
	}
	addr, err := netip.ParseAddr(ev.Value)
	if err != nil || addr.Zone() != "" || !ok(addr) {
		return netip.Addr{}, p.errorf(ErrBadAddress, "%q", ev.Value)
	}
	return addr, nil
}

// decodeMX reads a [priority, host] pair.
func (p *parser) decodeMX() (uint16, dns.RR, error) {
	if err := p.discard(setSequenceStart); err != nil {
		return 0, nil, err
	}

	ev, err := p.expect(setScalar)
	if err != nil {
		return 0, nil, err
	}
	pref, err := strconv.ParseUint(ev.Value, 10, 16)
	if err != nil {
		return 0, nil, p.errorf(ErrBadPriority, "%q", ev.Value)
	}

	ev, err = p.expect(setScalar)
	if err != nil {
		return 0, nil, err
	}
	if err := p.discard(setSequenceEnd); err != nil {
		return 0, nil, err
	}

	host, err := zone.Anchor(ev.Value)
	if err != nil {
		p.logger.Warn("skipping MX record", slog.Any("error", err), p.pos())
		return 0, nil, errSkipRecord
	}
	return dns.TypeMX, &dns.MX{Preference: uint16(pref), Mx: host}, nil
}

// textBuffer accumulates the character-strings of a text record in a
// space-padded buffer of fixed capacity.
type textBuffer struct {
	data   []byte
	length int
	bounds []int
}

func newTextBuffer() *textBuffer {
	return &textBuffer{data: bytes.Repeat([]byte{' '}, textCapacity)}
}

// write appends one character-string.
func (t *textBuffer) write(chunk string) error {
	if len(chunk) > segmentMax {
		return ErrSegmentTooLong
	}
	if len(chunk) > len(t.data)-t.length {
		return ErrTextTooLong
	}
	t.length += copy(t.data[t.length:], chunk)
	t.bounds = append(t.bounds, t.length)
	return nil
}

// Len returns the logical length of the text, excluding padding.
func (t *textBuffer) Len() int {
	return t.length
}

func (t *textBuffer) String() string {
	return string(t.data[:t.length])
}

// segments returns the character-strings in write order.
func (t *textBuffer) segments() []string {
	if len(t.bounds) == 0 {
		return []string{""}
	}
	out := make([]string, 0, len(t.bounds))
	start := 0
	for _, end := range t.bounds {
		out = append(out, string(t.data[start:end]))
		start = end
	}
	return out
}

// readText reads a text record value. A single scalar is split into
// 255-byte character-strings; a sequence supplies the character-strings
// directly and each must fit in 255 bytes.
func (p *parser) readText() ([]string, error) {
	buf := newTextBuffer()

	ev, err := p.expect(setScalarOrSeq)
	if err != nil {
		return nil, err
	}
	if ev.Kind == event.Scalar {
		if ev.Len() >= textCapacity {
			return nil, p.errorf(ErrTextTooLong, "%d bytes", ev.Len())
		}
		for s := ev.Value; len(s) > 0; {
			n := min(len(s), segmentMax)
			if err := buf.write(s[:n]); err != nil {
				return nil, p.errorf(err, "%d bytes", ev.Len())
			}
			s = s[n:]
		}
		return buf.segments(), nil
	}

	for {
		ev, err = p.expect(setScalarOrSeqEnd)
		if err != nil {
			return nil, err
		}
		if ev.Kind == event.SequenceEnd {
			return buf.segments(), nil
		}
		if err := buf.write(ev.Value); err != nil {
			return nil, p.errorf(err, "chunk of %d bytes at offset %d", ev.Len(), buf.Len())
		}
	}
}
