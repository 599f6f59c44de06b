// Package zone provides an in-memory DNS record store populated from test
// fixtures. A Store answers lookups the way a resolver would, so that a
// policy evaluator can be run against it without network access.
package zone

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/miekg/dns"
)

// Config contains configuration for a Store.
type Config struct {
	// MaxRecords limits the number of records a Store accepts.
	// Zero means unlimited.
	MaxRecords int
}

// Store holds resource records keyed by owner name.
// It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	config   Config
	records  map[string][]dns.RR
	order    []dns.RR
	timeouts map[string]struct{}
}

// Open creates an empty Store.
func Open(config Config) (*Store, error) {
	if config.MaxRecords < 0 {
		return nil, fmt.Errorf("%w: negative record limit %d", ErrBadConfig, config.MaxRecords)
	}
	return &Store{
		config:   config,
		records:  make(map[string][]dns.RR),
		timeouts: make(map[string]struct{}),
	}, nil
}

// Insert adds rr under name. The record header is overwritten with the
// anchored name, rrtype, class IN and ttl.
func (s *Store) Insert(name string, rrtype uint16, ttl uint32, rr dns.RR) error {
	if rr == nil {
		return ErrNilRecord
	}
	if typeOf(rr) != rrtype {
		return fmt.Errorf("%w: %T inserted as %s", ErrTypeMismatch, rr, dns.TypeToString[rrtype])
	}

	owner, err := Anchor(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.MaxRecords > 0 && len(s.order) >= s.config.MaxRecords {
		return fmt.Errorf("%w: %d records", ErrZoneFull, s.config.MaxRecords)
	}

	hdr := rr.Header()
	hdr.Name = owner
	hdr.Rrtype = rrtype
	hdr.Class = dns.ClassINET
	hdr.Ttl = ttl

	s.records[owner] = append(s.records[owner], rr)
	s.order = append(s.order, rr)
	return nil
}

// MarkTimeout makes every lookup of name fail with ErrDNSTimeout.
func (s *Store) MarkTimeout(name string) error {
	owner, err := Anchor(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.timeouts[owner] = struct{}{}
	s.mu.Unlock()
	return nil
}

// Len returns the number of records in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Records returns all records in insertion order.
func (s *Store) Records() []dns.RR {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]dns.RR, len(s.order))
	copy(out, s.order)
	return out
}

// Timeouts returns the names marked with MarkTimeout.
func (s *Store) Timeouts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.timeouts))
	for name := range s.timeouts {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// WriteTo writes the store in master-file format, one record per line
// in insertion order. Timed out names are written as comments.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, rr := range s.Records() {
		c, err := fmt.Fprintln(bw, rr.String())
		n += int64(c)
		if err != nil {
			return n, err
		}
	}
	for _, name := range s.Timeouts() {
		c, err := fmt.Fprintf(bw, "; %s TIMEOUT\n", name)
		n += int64(c)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// typeOf returns the record type implied by the concrete RR type.
func typeOf(rr dns.RR) uint16 {
	switch rr.(type) {
	case *dns.A:
		return dns.TypeA
	case *dns.AAAA:
		return dns.TypeAAAA
	case *dns.PTR:
		return dns.TypePTR
	case *dns.MX:
		return dns.TypeMX
	case *dns.TXT:
		return dns.TypeTXT
	case *dns.SPF:
		return dns.TypeSPF
	case *dns.CNAME:
		return dns.TypeCNAME
	case *dns.NS:
		return dns.TypeNS
	}
	return rr.Header().Rrtype
}
