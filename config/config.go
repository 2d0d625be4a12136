// Package config loads formatter settings from .asfmt.toml or .asfmt.yaml
// files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/asfmt/format"
)

var (
	ErrInvalidOption = errors.New("config: invalid option")
	ErrUnknownFormat = errors.New("config: unknown file format")
)

// FileNames lists the names Discover looks for, in order of preference.
var FileNames = []string{".asfmt.toml", ".asfmt.yaml", ".asfmt.yml"}

const (
	MaxIndentWidth   = 16
	MaxBlankLinesCap = 2
)

// Config mirrors format.Options with every field optional, so that a file
// only overrides what it mentions.
type Config struct {
	IndentWidth                  *int  `toml:"indent_width" yaml:"indent_width" json:"indent_width,omitempty"`
	UseTabs                      *bool `toml:"use_tabs" yaml:"use_tabs" json:"use_tabs,omitempty"`
	MaxBlankLines                *int  `toml:"max_blank_lines" yaml:"max_blank_lines" json:"max_blank_lines,omitempty"`
	BlankLineBetweenDeclarations *bool `toml:"blank_line_between_declarations" yaml:"blank_line_between_declarations" json:"blank_line_between_declarations,omitempty"`
	InsertFinalNewline           *bool `toml:"insert_final_newline" yaml:"insert_final_newline" json:"insert_final_newline,omitempty"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-" yaml:"-" json:"-"`
}

// Parse decodes data according to the extension of name.
func Parse(name string, data []byte) (*Config, error) {
	cfg := &Config{Path: name}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%w: %s: unknown key %q", ErrInvalidOption, name, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return cfg, nil
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(path, data)
}

// Discover walks up from dir looking for a configuration file and returns
// its path, or "" when there is none.
func Discover(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// ForDir loads the configuration that applies to files in dir. Without a
// configuration file it returns an empty Config.
func ForDir(dir string) (*Config, error) {
	path, err := Discover(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return &Config{}, nil
	}
	return Load(path)
}

func (c *Config) Validate() error {
	if c.IndentWidth != nil && (*c.IndentWidth < 1 || *c.IndentWidth > MaxIndentWidth) {
		return fmt.Errorf("%w: indent_width must be between 1 and %d, got %d", ErrInvalidOption, MaxIndentWidth, *c.IndentWidth)
	}
	if c.MaxBlankLines != nil && (*c.MaxBlankLines < 0 || *c.MaxBlankLines > MaxBlankLinesCap) {
		return fmt.Errorf("%w: max_blank_lines must be between 0 and %d, got %d", ErrInvalidOption, MaxBlankLinesCap, *c.MaxBlankLines)
	}
	return nil
}

// Merge returns c with every field set in other overriding c's.
func (c *Config) Merge(other *Config) *Config {
	out := *c
	if other == nil {
		return &out
	}
	if other.IndentWidth != nil {
		out.IndentWidth = other.IndentWidth
	}
	if other.UseTabs != nil {
		out.UseTabs = other.UseTabs
	}
	if other.MaxBlankLines != nil {
		out.MaxBlankLines = other.MaxBlankLines
	}
	if other.BlankLineBetweenDeclarations != nil {
		out.BlankLineBetweenDeclarations = other.BlankLineBetweenDeclarations
	}
	if other.InsertFinalNewline != nil {
		out.InsertFinalNewline = other.InsertFinalNewline
	}
	return &out
}

// Options applies c on top of format.DefaultOptions.
func (c *Config) Options() format.Options {
	opts := format.DefaultOptions()
	if c == nil {
		return opts
	}
	if c.IndentWidth != nil {
		opts.IndentWidth = *c.IndentWidth
	}
	if c.UseTabs != nil {
		opts.UseTabs = *c.UseTabs
	}
	if c.MaxBlankLines != nil {
		opts.MaxBlankLines = *c.MaxBlankLines
	}
	if c.BlankLineBetweenDeclarations != nil {
		opts.BlankLineBetweenDeclarations = *c.BlankLineBetweenDeclarations
	}
	if c.InsertFinalNewline != nil {
		opts.InsertFinalNewline = *c.InsertFinalNewline
	}
	return opts
}

// Encode writes c as TOML, with defaults filled in for unset fields.
func Encode(c *Config) ([]byte, error) {
	opts := c.Options()
	var buf bytes.Buffer
	err := toml.NewEncoder(&buf).Encode(struct {
		IndentWidth                  int  `toml:"indent_width"`
		UseTabs                      bool `toml:"use_tabs"`
		MaxBlankLines                int  `toml:"max_blank_lines"`
		BlankLineBetweenDeclarations bool `toml:"blank_line_between_declarations"`
		InsertFinalNewline           bool `toml:"insert_final_newline"`
	}{opts.IndentWidth, opts.UseTabs, opts.MaxBlankLines, opts.BlankLineBetweenDeclarations, opts.InsertFinalNewline})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
