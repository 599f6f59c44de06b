// Package config holds the settings of the spfsuite command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/synqronlabs/spfsuite/event"
	"github.com/synqronlabs/spfsuite/zone"
)

// Config is the command configuration. The zero value is not valid; start
// from Default.
type Config struct {
	Log   Log   `yaml:"log" toml:"log"`
	Input Input `yaml:"input" toml:"input"`
	Zone  Zone  `yaml:"zone" toml:"zone"`
}

// Log configures the diagnostic logger.
type Log struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" toml:"level"`
	// Format is text or json.
	Format string `yaml:"format" toml:"format"`
}

// Input configures how fixture files are read.
type Input struct {
	// Format is auto, yaml or json. Auto picks by file extension.
	Format string `yaml:"format" toml:"format"`
}

// Zone configures the per-section record store.
type Zone struct {
	// MaxRecords limits the records of one section; zero means no limit.
	MaxRecords int `yaml:"max_records" toml:"max_records"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log:   Log{Level: "warn", Format: "text"},
		Input: Input{Format: event.FormatAuto},
	}
}

// ValidationErrors holds every problem found by Validate.
type ValidationErrors []error

func (v ValidationErrors) Error() string {
	var b strings.Builder
	b.WriteString("invalid configuration: ")
	for i, err := range v {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(err.Error())
	}
	return b.String()
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log format %q: must be text or json", c.Log.Format))
	}
	switch c.Input.Format {
	case event.FormatAuto, event.FormatYAML, event.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("input format %q: %w", c.Input.Format, event.ErrUnknownFormat))
	}
	if c.Zone.MaxRecords < 0 {
		errs = append(errs, fmt.Errorf("zone max_records %d: must not be negative", c.Zone.MaxRecords))
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ZoneConfig returns the record store settings.
func (c *Config) ZoneConfig() zone.Config {
	return zone.Config{MaxRecords: c.Zone.MaxRecords}
}

// Load reads the configuration file at path on top of Default. Files
// ending in .toml are TOML; anything else is YAML. Unknown keys are an
// error in both.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening config file: %w", err)
	}

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(cfg)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("log level %q: must be debug, info, warn or error", name)
	}
	return level, nil
}

// NewLogger builds the logger described by c.Log writing to w.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
