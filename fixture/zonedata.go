package fixture

import (
	"errors"
	"log/slog"

	"github.com/miekg/dns"
	"github.com/synqronlabs/spfsuite/event"
	"github.com/synqronlabs/spfsuite/zone"
)

// buildZone reads a mapping of owner names to record lists into a new Store.
//
//	example.com:
//	  - A: 192.0.2.1
//	  - MX: [10, mx.example.com]
//	  - TXT: ["v=spf1 ", "mx -all"]
//	slow.example.com:
//	  - TIMEOUT
func (p *parser) buildZone() (*zone.Store, error) {
	store, err := zone.Open(p.zone)
	if err != nil {
		return nil, p.errorf(ErrStore, "%v", err)
	}

	if err := p.discard(setMappingStart); err != nil {
		return nil, err
	}

	for {
		ev, err := p.expect(setKey)
		if err != nil {
			return nil, err
		}
		if ev.Kind == event.MappingEnd {
			return store, nil
		}
		if err := p.buildRecords(store, ev.Value); err != nil {
			return nil, err
		}
	}
}

// buildRecords reads the record list of one owner name. Records of a name
// that cannot be anchored are decoded but dropped.
func (p *parser) buildRecords(store *zone.Store, name string) error {
	owner, anchorErr := zone.Anchor(name)
	if anchorErr != nil {
		p.logger.Warn("dropping records of invalid name", slog.Any("error", anchorErr), p.pos())
	}

	if err := p.discard(setSequenceStart); err != nil {
		return err
	}

	for {
		ev, err := p.expect(setZoneEntry)
		if err != nil {
			return err
		}

		switch ev.Kind {
		case event.SequenceEnd:
			return nil

		case event.Scalar:
			if ev.Value == "TIMEOUT" && anchorErr == nil {
				if err := store.MarkTimeout(owner); err != nil {
					return p.errorf(ErrStore, "%v", err)
				}
				continue
			}
			p.logger.Warn("unknown zonedata value",
				slog.String("name", name),
				slog.String("value", ev.Value),
				p.pos())

		case event.MappingStart:
			tag, err := p.expect(setScalar)
			if err != nil {
				return err
			}
			rrtype, rr, err := p.decodeRecord(tag.Value)
			switch {
			case errors.Is(err, errSkipRecord):
			case err != nil:
				return err
			case anchorErr == nil:
				if err := store.Insert(owner, rrtype, RecordTTL, rr); err != nil {
					return p.errorf(ErrStore, "%s %s: %v", name, dns.TypeToString[rrtype], err)
				}
			}
			if err := p.discard(setMappingEnd); err != nil {
				return err
			}
		}
	}
}
