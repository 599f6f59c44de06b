package event

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Input formats understood by NewSource.
const (
	FormatAuto = "auto"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned for an unsupported input format name.
var ErrUnknownFormat = errors.New("event: unknown input format")

// FormatFromPath resolves FormatAuto using the file extension of path.
// Anything that is not ".json" is treated as YAML.
func FormatFromPath(format, path string) string {
	if format != "" && format != FormatAuto {
		return format
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// NewSource returns the Source for the named format.
func NewSource(r io.Reader, format string) (Source, error) {
	switch format {
	case FormatYAML, FormatAuto, "":
		return NewYAMLSource(r), nil
	case FormatJSON:
		return NewJSONSource(r), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
