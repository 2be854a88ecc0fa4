// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Supported interchange formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for format names outside the supported set.
var ErrUnknownFormat = errors.New("unknown registry format")

type (
	// Format names an interchange encoding for registry import and export.
	Format string

	// document is the on-disk shape shared by all formats. TOML needs a table
	// at the root, so the list is always nested under "apps".
	document struct {
		Apps Registry `json:"apps" toml:"apps" yaml:"apps"`
	}
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatTOML, FormatYAML}
}

// ParseFormat validates a format name. Matching is case-insensitive and
// "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath picks a format from the file extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no file extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Export writes reg to w in the given format.
func Export(w io.Writer, reg Registry, format Format) error {
	doc := document{Apps: reg}
	if doc.Apps == nil {
		doc.Apps = Registry{}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatTOML:
		return toml.NewEncoder(w).Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Import reads a registry in the given format from r. Entries without a name
// are dropped: no link can select them.
func Import(r io.Reader, format Format) (Registry, error) {
	var doc document
	var err error

	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&doc)
	case FormatTOML:
		err = toml.NewDecoder(r).Decode(&doc)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&doc)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s registry: %w", format, err)
	}

	return slices.DeleteFunc(doc.Apps, func(e AppEntry) bool { return e.Name == "" }), nil
}
