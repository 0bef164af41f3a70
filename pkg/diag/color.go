package diag

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ColorMode selects when diagnostics are coloured.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a --color value. The empty string means auto.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	default:
		return "", fmt.Errorf("unknown color mode %q (want auto, always or never)", s)
	}
}

// ColorEnabled decides whether output written to f gets ANSI colours. In
// auto mode NO_COLOR and TERM=dumb disable colour, otherwise f must be a
// terminal.
func ColorEnabled(f *os.File, mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

const (
	styleReset  = "\x1b[0m"
	styleError  = "\x1b[1;31m"
	styleWarn   = "\x1b[1;33m"
	styleGutter = "\x1b[1;34m"
	styleBold   = "\x1b[1m"
)

type painter bool

func (p painter) paint(style, s string) string {
	if !p || s == "" {
		return s
	}
	return style + s + styleReset
}
