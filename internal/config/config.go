// Package config loads the per-user configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sokinpui/brn.go/internal/history"
	"github.com/sokinpui/brn.go/internal/transform"
)

// ErrCodeInvalid marks a configuration file that cannot be read or parsed.
const ErrCodeInvalid = "config_invalid"

// ColorMode controls coloured output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates s as a ColorMode.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	}
	return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

// File mirrors config.yaml. Pointer fields distinguish "unset" from zero values.
type File struct {
	HistoryFile string `yaml:"history_file"`
	Pattern     string `yaml:"pattern"`
	Recursive   *bool  `yaml:"recursive"`
	DateFormat  string `yaml:"date_format"`
	Color       string `yaml:"color"`
	NoAnimation *bool  `yaml:"no_animation"`
}

// Config is the merged configuration with defaults applied.
type Config struct {
	HistoryFile string
	Pattern     string
	Recursive   bool
	DateFormat  string
	Color       ColorMode
	NoAnimation bool
}

// Error is a configuration failure with a stable code.
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: configuration file %q is invalid: %v", e.Code, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Default returns the built-in configuration.
func Default() Config {
	cfg := Config{
		Pattern:    "*",
		DateFormat: transform.DefaultDateFormat,
		Color:      ColorAuto,
	}
	if p, err := history.DefaultPath(); err == nil {
		cfg.HistoryFile = p
	} else {
		cfg.HistoryFile = history.DefaultFileName
	}
	return cfg
}

// DefaultPath returns $XDG_CONFIG_HOME/brn/config.yaml or its platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "brn", "config.yaml"), nil
}

// Load reads path and merges it over Default. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, &Error{Code: ErrCodeInvalid, Path: path, Err: err}
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return cfg, &Error{Code: ErrCodeInvalid, Path: path, Err: err}
	}
	if err := cfg.merge(f); err != nil {
		return cfg, &Error{Code: ErrCodeInvalid, Path: path, Err: err}
	}
	return cfg, nil
}

func (c *Config) merge(f File) error {
	if s := strings.TrimSpace(f.HistoryFile); s != "" {
		c.HistoryFile = expandHome(s)
	}
	if s := strings.TrimSpace(f.Pattern); s != "" {
		if _, err := filepath.Match(s, ""); err != nil {
			return fmt.Errorf("pattern %q: %w", s, err)
		}
		c.Pattern = s
	}
	if f.Recursive != nil {
		c.Recursive = *f.Recursive
	}
	if f.DateFormat != "" {
		c.DateFormat = f.DateFormat
	}
	if f.Color != "" {
		m, err := ParseColorMode(f.Color)
		if err != nil {
			return err
		}
		c.Color = m
	}
	if f.NoAnimation != nil {
		c.NoAnimation = *f.NoAnimation
	}
	return nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
