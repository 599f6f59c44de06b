package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/synqronlabs/spfsuite/event"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"
	cfg.Input.Format = "toml"
	cfg.Zone.MaxRecords = -1

	err := cfg.Validate()
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Validate() error = %v, want ValidationErrors", err)
	}
	if len(verrs) != 4 {
		t.Errorf("got %d problems, want 4: %v", len(verrs), err)
	}
	if !errors.Is(verrs[2], event.ErrUnknownFormat) {
		t.Errorf("input format problem = %v", verrs[2])
	}
	if !strings.HasPrefix(err.Error(), "invalid configuration: log level") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    Config
		wantErr bool
	}{
		{
			name:    "yaml",
			file:    "spfsuite.yaml",
			content: "log:\n  level: debug\nzone:\n  max_records: 50\n",
			want: Config{
				Log:   Log{Level: "debug", Format: "text"},
				Input: Input{Format: event.FormatAuto},
				Zone:  Zone{MaxRecords: 50},
			},
		},
		{
			name:    "toml",
			file:    "spfsuite.toml",
			content: "[log]\nformat = \"json\"\n\n[input]\nformat = \"json\"\n",
			want: Config{
				Log:   Log{Level: "warn", Format: "json"},
				Input: Input{Format: event.FormatJSON},
			},
		},
		{
			name: "empty yaml",
			file: "empty.yml",
			want: *Default(),
		},
		{
			name:    "unknown yaml key",
			file:    "bad.yaml",
			content: "log:\n  colour: red\n",
			wantErr: true,
		},
		{
			name:    "unknown toml key",
			file:    "bad.toml",
			content: "[zone]\nlimit = 3\n",
			wantErr: true,
		},
		{
			name:    "invalid value",
			file:    "bad-level.yaml",
			content: "log:\n  level: chatty\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.file, tt.content))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Load() = %+v, want error", cfg)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if *cfg != tt.want {
				t.Errorf("Load() = %+v, want %+v", *cfg, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.Log.Format = "json"
	cfg.Log.Level = "info"

	logger, err := cfg.NewLogger(&buf)
	if err != nil {
		t.Fatalf("NewLogger() error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("shown", slog.String("k", "v"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record written at info level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("output = %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(name)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v, want %v", name, got, err, want)
		}
	}
	if _, err := ParseLevel(""); err == nil {
		t.Error("ParseLevel(\"\") succeeded")
	}
}
