package zone

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/miekg/dns"
)

// Result holds the records answering a lookup.
type Result[T any] struct {
	Records []T

	// TTL is the smallest time-to-live among the answering records.
	TTL uint32
}

// Lookup returns the records of rrtype owned by name.
func (s *Store) Lookup(ctx context.Context, name string, rrtype uint16) ([]dns.RR, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	owner, err := Anchor(name)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.timeouts[owner]; ok {
		return nil, fmt.Errorf("%w: %s %s", ErrDNSTimeout, dns.TypeToString[rrtype], owner)
	}

	var out []dns.RR
	for _, rr := range s.records[owner] {
		if rr.Header().Rrtype == rrtype {
			out = append(out, rr)
		}
	}
	if len(out) == 0 {
		return nil, ErrDNSNotFound
	}
	return out, nil
}

func minTTL(rrs []dns.RR) uint32 {
	var ttl uint32
	for i, rr := range rrs {
		if t := rr.Header().Ttl; i == 0 || t < ttl {
			ttl = t
		}
	}
	return ttl
}

// LookupTXT returns TXT records for name. The character strings of each
// record are unescaped and joined as a verifier would.
func (s *Store) LookupTXT(ctx context.Context, name string) (Result[string], error) {
	rrs, err := s.Lookup(ctx, name, dns.TypeTXT)
	if err != nil {
		return Result[string]{}, err
	}
	records := make([]string, 0, len(rrs))
	for _, rr := range rrs {
		var b strings.Builder
		for _, seg := range rr.(*dns.TXT).Txt {
			b.WriteString(UnescapeText(seg))
		}
		records = append(records, b.String())
	}
	return Result[string]{Records: records, TTL: minTTL(rrs)}, nil
}

// LookupIP returns A and AAAA records for name.
func (s *Store) LookupIP(ctx context.Context, name string) (Result[net.IP], error) {
	var (
		ips []net.IP
		all []dns.RR
	)

	a, err := s.Lookup(ctx, name, dns.TypeA)
	if err != nil && !IsNotFound(err) {
		return Result[net.IP]{}, err
	}
	for _, rr := range a {
		ips = append(ips, rr.(*dns.A).A)
	}
	all = append(all, a...)

	aaaa, err := s.Lookup(ctx, name, dns.TypeAAAA)
	if err != nil && !IsNotFound(err) {
		return Result[net.IP]{}, err
	}
	for _, rr := range aaaa {
		ips = append(ips, rr.(*dns.AAAA).AAAA)
	}
	all = append(all, aaaa...)

	if len(ips) == 0 {
		return Result[net.IP]{}, ErrDNSNotFound
	}
	return Result[net.IP]{Records: ips, TTL: minTTL(all)}, nil
}

// LookupMX returns MX records for name.
func (s *Store) LookupMX(ctx context.Context, name string) (Result[*net.MX], error) {
	rrs, err := s.Lookup(ctx, name, dns.TypeMX)
	if err != nil {
		return Result[*net.MX]{}, err
	}
	records := make([]*net.MX, 0, len(rrs))
	for _, rr := range rrs {
		mx := rr.(*dns.MX)
		records = append(records, &net.MX{Host: mx.Mx, Pref: mx.Preference})
	}
	return Result[*net.MX]{Records: records, TTL: minTTL(rrs)}, nil
}

// LookupAddr performs a reverse lookup, returning the PTR targets for ip.
func (s *Store) LookupAddr(ctx context.Context, ip net.IP) (Result[string], error) {
	if ip == nil {
		return Result[string]{}, fmt.Errorf("dns: nil IP address")
	}
	arpa, err := dns.ReverseAddr(ip.String())
	if err != nil {
		return Result[string]{}, fmt.Errorf("dns: invalid IP for reverse lookup: %w", err)
	}
	rrs, err := s.Lookup(ctx, arpa, dns.TypePTR)
	if err != nil {
		return Result[string]{}, err
	}
	names := make([]string, 0, len(rrs))
	for _, rr := range rrs {
		names = append(names, rr.(*dns.PTR).Ptr)
	}
	return Result[string]{Records: names, TTL: minTTL(rrs)}, nil
}
