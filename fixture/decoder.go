package fixture

import (
	"errors"
	"io"
	"log/slog"

	"github.com/synqronlabs/spfsuite/event"
	"github.com/synqronlabs/spfsuite/zone"
)

// Options configures fixture compilation.
type Options struct {
	// Logger receives warnings about skipped fixture content.
	// Defaults to slog.Default().
	Logger *slog.Logger

	// Zone configures the record store opened for each section's zone data.
	Zone zone.Config
}

// Decoder reads sections from an event source one document at a time.
type Decoder struct {
	p       parser
	started bool
	done    bool
	err     error
}

// NewDecoder returns a Decoder reading from src.
func NewDecoder(src event.Source, opts Options) *Decoder {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Decoder{p: parser{src: src, logger: opts.Logger, zone: opts.Zone}}
}

// Next returns the next section. It returns io.EOF once the stream has
// ended. Any other error is fatal and is returned again by later calls.
func (d *Decoder) Next() (*Section, error) {
	if d.err != nil {
		return nil, d.err
	}
	if d.done {
		return nil, io.EOF
	}
	if !d.started {
		d.started = true
		if err := d.p.discard(setStreamStart); err != nil {
			d.err = err
			return nil, err
		}
	}

	s, err := d.p.buildSection()
	if err != nil {
		d.err = err
		return nil, err
	}
	if s == nil {
		d.done = true
		return nil, io.EOF
	}
	return s, nil
}

// Compile reads every section in src. On error no sections are returned.
func Compile(src event.Source, opts Options) ([]*Section, error) {
	d := NewDecoder(src, opts)
	var sections []*Section
	for {
		s, err := d.Next()
		if errors.Is(err, io.EOF) {
			return sections, nil
		}
		if err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
}
