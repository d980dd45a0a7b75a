package recording

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a recording file format.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
	FormatJSON
)

// ErrUnknownFormat is returned for unrecognized format names and extensions.
var ErrUnknownFormat = errors.New("recording: unknown format")

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseFormat returns the format with the given name or file extension.
func ParseFormat(name string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(name), ".") {
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Marshal encodes r in the given format.
func Marshal(r *Recording, f Format) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch f {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(r); err == nil {
			err = enc.Close()
		}
		data = buf.Bytes()
	case FormatTOML:
		data, err = toml.Marshal(r)
	case FormatJSON:
		data, err = json.MarshalIndent(r, "", "  ")
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("recording: encode %v: %w", f, err)
	}
	return data, nil
}

// Unmarshal decodes and validates a recording.
func Unmarshal(data []byte, f Format) (*Recording, error) {
	var (
		r   Recording
		err error
	)
	switch f {
	case FormatYAML:
		err = yaml.Unmarshal(data, &r)
	case FormatTOML:
		err = toml.Unmarshal(data, &r)
	case FormatJSON:
		err = json.Unmarshal(data, &r)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("recording: decode %v: %w", f, err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Save writes r to path in the format implied by its extension.
func Save(r *Recording, path string) error {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}
	data, err := Marshal(r, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Clean(path), data, 0o644); err != nil {
		return fmt.Errorf("recording: write file: %w", err)
	}
	return nil
}

// Load reads a recording from path in the format implied by its extension.
func Load(path string) (*Recording, error) {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("recording: read file: %w", err)
	}
	return Unmarshal(data, f)
}
