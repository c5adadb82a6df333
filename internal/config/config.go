// Package config loads generator settings from YAML or TOML files.
package config

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/eykd/dictid/idgen"
	"github.com/eykd/dictid/internal/alphabet"
	"github.com/eykd/dictid/internal/pool"
)

// DefaultFileName is looked up in the working directory when no config path
// is given.
const DefaultFileName = ".dictid.yaml"

// ErrUnknownFormat is returned for a file extension other than .yaml, .yml,
// or .toml.
var ErrUnknownFormat = errors.New("unknown config format")

// ErrUnknownPreset is returned for a preset name with no alphabet.
var ErrUnknownPreset = errors.New("unknown alphabet preset")

// ErrAlphabetConflict is returned when both alphabet and preset are set.
var ErrAlphabetConflict = errors.New("alphabet and preset are mutually exclusive")

// Format is a config file encoding.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// File mirrors the on-disk settings. Unset fields keep their defaults.
type File struct {
	// Alphabet is a string or a list of symbols and code points.
	Alphabet     any    `yaml:"alphabet" toml:"alphabet"`
	Preset       string `yaml:"preset" toml:"preset"`
	PoolCapacity *int   `yaml:"pool_capacity" toml:"pool_capacity"`
	Secure       bool   `yaml:"secure" toml:"secure"`
	Mapping      string `yaml:"mapping" toml:"mapping"`
	Strict       bool   `yaml:"strict" toml:"strict"`
	Length       int    `yaml:"length" toml:"length"`
	Count        int    `yaml:"count" toml:"count"`
}

// FormatFor picks a format from the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// Load reads and decodes the file at path.
func Load(path string) (*File, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	f, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return f, nil
}

// Find returns the default config path inside dir, or "" when none exists.
func Find(dir string) (string, error) {
	path := filepath.Join(dir, DefaultFileName)
	_, err := os.Stat(path)
	if err == nil {
		return path, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	return "", fmt.Errorf("checking %s: %w", path, err)
}

// Decode reads settings in the given format. Unknown keys are errors.
func Decode(r io.Reader, format Format) (*File, error) {
	var f File
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case FormatTOML:
		if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&f); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
	return &f, nil
}

// Generator converts the settings into an idgen.Config. Errors are
// *idgen.ConfigError so callers can treat them like construction errors.
func (f *File) Generator() (idgen.Config, error) {
	var cfg idgen.Config

	switch {
	case f.Alphabet != nil && f.Preset != "":
		return cfg, &idgen.ConfigError{Field: "alphabet", Err: ErrAlphabetConflict}
	case f.Alphabet != nil:
		cfg.Alphabet = f.Alphabet
	case f.Preset != "":
		symbols, ok := alphabet.Preset(f.Preset)
		if !ok {
			return cfg, &idgen.ConfigError{
				Field: "preset",
				Err:   fmt.Errorf("%q (known: %s): %w", f.Preset, strings.Join(alphabet.PresetNames(), ", "), ErrUnknownPreset),
			}
		}
		cfg.Alphabet = symbols
	}

	if f.PoolCapacity != nil {
		if *f.PoolCapacity < 1 {
			return cfg, &idgen.ConfigError{
				Field: "pool capacity",
				Err:   fmt.Errorf("%d: %w", *f.PoolCapacity, idgen.ErrInvalidPoolSize),
			}
		}
		cfg.PoolCapacity = *f.PoolCapacity
	}

	mapping, err := pool.ParseMapping(f.Mapping)
	if err != nil {
		return cfg, &idgen.ConfigError{Field: "mapping", Err: err}
	}
	cfg.Mapping = mapping

	if f.Secure {
		cfg.SecureSource = rand.Reader
		if f.Strict {
			capacity := cfg.PoolCapacity
			if capacity == 0 {
				capacity = idgen.DefaultPoolCapacity
			}
			cfg.ScratchBuffer = make([]byte, mapping.ScratchLen(capacity))
		}
	}
	cfg.Strict = f.Strict

	return cfg, nil
}
