// Package diag renders errors that carry source locations.
//
// An error takes part by implementing Labels() []value.Label. Render walks
// the wrap chain, prints the outermost message as the headline and quotes
// every labeled location below it with a caret line under the span.
package diag

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/speakeasy-api/toxml/pkg/input"
	"github.com/speakeasy-api/toxml/value"
)

const (
	maxLineWidth = 64
	lineLead     = 48
)

// Labeled is implemented by errors that point at source locations.
type Labeled interface {
	Labels() []value.Label
}

// Sources resolves an anchor to its contents.
type Sources interface {
	Lookup(name string) (*input.Source, bool)
}

// Severity selects the headline word.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Render writes a report for err to w.
func Render(w io.Writer, err error, sources Sources, color bool) error {
	return RenderSeverity(w, SeverityError, err, sources, color)
}

// RenderSeverity is Render with an explicit severity.
func RenderSeverity(w io.Writer, sev Severity, err error, sources Sources, color bool) error {
	if err == nil {
		return nil
	}
	r := &renderer{sources: sources, p: painter(color)}
	r.headline(sev, err.Error())

	chain := unwrapChain(err)
	var labels []value.Label
	for _, e := range chain {
		if l, ok := e.(Labeled); ok {
			labels = appendNew(labels, l.Labels())
		}
	}
	r.gutter = gutterWidth(labels, sources)
	for _, l := range labels {
		r.label(l)
	}

	shown := err.Error()
	for _, e := range chain[1:] {
		msg := e.Error()
		if msg == "" || strings.Contains(shown, msg) {
			continue
		}
		r.note("caused by: " + msg)
		shown += "\n" + msg
	}

	_, werr := io.WriteString(w, r.b.String())
	return werr
}

type renderer struct {
	b       strings.Builder
	sources Sources
	p       painter
	gutter  int
}

func (r *renderer) headline(sev Severity, msg string) {
	word, style := "error", styleError
	if sev == SeverityWarning {
		word, style = "warning", styleWarn
	}
	r.b.WriteString(r.p.paint(style, word))
	r.b.WriteString(r.p.paint(styleBold, ": "+msg))
	r.b.WriteByte('\n')
}

func (r *renderer) pad(n int) string {
	return strings.Repeat(" ", n)
}

func (r *renderer) note(msg string) {
	r.b.WriteString(r.pad(r.gutter + 1))
	r.b.WriteString(r.p.paint(styleGutter, "="))
	r.b.WriteString(" ")
	r.b.WriteString(msg)
	r.b.WriteByte('\n')
}

func (r *renderer) label(l value.Label) {
	if l.Tag.IsUnknown() {
		r.note(l.Text)
		return
	}
	var src *input.Source
	if r.sources != nil {
		src, _ = r.sources.Lookup(l.Tag.Anchor)
	}
	if src == nil {
		r.arrow(l.Tag.String())
		r.note(l.Text)
		return
	}

	line, col := src.Position(l.Tag.Span.Start)
	r.arrow(src.Name + ":" + strconv.Itoa(line) + ":" + strconv.Itoa(col))

	text := src.Line(line)
	startInLine := l.Tag.Span.Start - src.LineStart(line)
	endInLine := min(startInLine+l.Tag.Span.Len(), len(text))
	shown, caretCol, caretWidth := window(text, startInLine, endInLine)

	num := strconv.Itoa(line)
	bar := r.p.paint(styleGutter, "|")
	r.b.WriteString(r.pad(r.gutter + 1))
	r.b.WriteString(bar)
	r.b.WriteByte('\n')
	r.b.WriteString(r.p.paint(styleGutter, num+r.pad(r.gutter-len(num))+" |"))
	r.b.WriteByte(' ')
	r.b.WriteString(shown)
	r.b.WriteByte('\n')
	r.b.WriteString(r.pad(r.gutter + 1))
	r.b.WriteString(bar)
	r.b.WriteByte(' ')
	r.b.WriteString(r.pad(caretCol))
	r.b.WriteString(r.p.paint(styleError, strings.Repeat("^", caretWidth)+" "+l.Text))
	r.b.WriteByte('\n')
}

func (r *renderer) arrow(loc string) {
	r.b.WriteString(r.pad(r.gutter + 1))
	r.b.WriteString(r.p.paint(styleGutter, "-->"))
	r.b.WriteByte(' ')
	r.b.WriteString(loc)
	r.b.WriteByte('\n')
}

// window cuts line to at most maxLineWidth bytes around [start, end) and
// returns the visible text with the caret column and width in display
// cells.
func window(line string, start, end int) (string, int, int) {
	start = min(max(start, 0), len(line))
	end = min(max(end, start), len(line))
	if start > lineLead {
		skip := len(trimLastInvalidRune(line[:start-lineLead]))
		line = line[skip:]
		start -= skip
		end -= skip
	}
	line = trimLastInvalidRune(line[:min(maxLineWidth, len(line))])
	start = min(start, len(line))
	end = min(end, len(line))
	col := runewidth.StringWidth(line[:start])
	width := max(runewidth.StringWidth(line[start:end]), 1)
	return line, col, width
}

func trimLastInvalidRune(s string) string {
	for i := len(s) - 1; i >= 0 && i > len(s)-utf8.UTFMax; i-- {
		if b := s[i]; b < utf8.RuneSelf {
			return s[:i+1]
		} else if utf8.RuneStart(b) {
			if r, _ := utf8.DecodeRuneInString(s[i:]); r == utf8.RuneError {
				return s[:i]
			}
			break
		}
	}
	return s
}

func unwrapChain(err error) []error {
	var chain []error
	for e := err; e != nil; e = errors.Unwrap(e) {
		chain = append(chain, e)
	}
	return chain
}

func appendNew(dst, labels []value.Label) []value.Label {
	for _, l := range labels {
		dup := false
		for _, d := range dst {
			if d == l {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, l)
		}
	}
	return dst
}

func gutterWidth(labels []value.Label, sources Sources) int {
	width := 1
	for _, l := range labels {
		if l.Tag.IsUnknown() || sources == nil {
			continue
		}
		if src, ok := sources.Lookup(l.Tag.Anchor); ok {
			line, _ := src.Position(l.Tag.Span.Start)
			width = max(width, len(strconv.Itoa(line)))
		}
	}
	return width
}
