// Package config loads toxml settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/itchyny/go-yaml"
)

// File holds the settings a config file may set. Nil fields and empty
// strings are unset and leave the command-line default in place.
type File struct {
	Pretty      *int   `yaml:"pretty"`
	Workers     *int   `yaml:"workers"`
	Verify      *bool  `yaml:"verify"`
	Each        *bool  `yaml:"each"`
	LogLevel    string `yaml:"log_level"`
	InputFormat string `yaml:"input_format"`
	Color       string `yaml:"color"`
	Filter      string `yaml:"filter"`
}

// Load reads and validates the config file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates config data. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks numeric ranges. Names such as log levels are checked
// where they are used.
func (f *File) Validate() error {
	if f.Pretty != nil && *f.Pretty < 0 {
		return fmt.Errorf("pretty must not be negative, got %d", *f.Pretty)
	}
	if f.Workers != nil && *f.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", *f.Workers)
	}
	return nil
}
