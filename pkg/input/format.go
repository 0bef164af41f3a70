package input

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
)

// Format selects a decoder.
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name. The empty string means auto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown input format %q (want auto, json or yaml)", s)
	}
}

// Detect picks a decoder from the file extension, falling back to JSON
// when the first non-blank byte opens a JSON value and YAML otherwise.
func Detect(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 {
		switch trimmed[0] {
		case '{', '[', '"':
			return FormatJSON
		}
	}
	return FormatYAML
}
