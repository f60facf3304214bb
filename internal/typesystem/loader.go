package typesystem

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format names a type system descriptor encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	// FormatUIMA is a UIMA typeSystemDescription XML document.
	FormatUIMA Format = "uima"
)

// Descriptor is the on-disk shape of the yaml, json and toml formats.
type Descriptor struct {
	Types []TypeDescriptor `yaml:"types" json:"types" toml:"types"`
}

//go:embed dkpro.yaml
var dkproDescriptor []byte

// Builtin returns the type system used when no descriptor file is
// configured: the DKPro segmentation and part-of-speech types.
func Builtin() (*Snapshot, error) {
	return Parse(dkproDescriptor, FormatYAML)
}

// FormatFor guesses the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".xml":
		return FormatUIMA, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Load reads a descriptor file and builds a snapshot from it.
func Load(path string) (*Snapshot, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes data in the given format and builds a snapshot.
func Parse(data []byte, format Format) (*Snapshot, error) {
	var (
		d   Descriptor
		err error
	)
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &d)
	case FormatJSON:
		err = json.Unmarshal(data, &d)
	case FormatTOML:
		_, err = toml.NewDecoder(bytes.NewReader(data)).Decode(&d)
	case FormatUIMA:
		d.Types, err = parseUIMA(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s type system: %w", format, err)
	}
	return New(d.Types...)
}
