package toxml

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/speakeasy-api/openapi/sequencedmap"
)

// Writer accumulates XML events into a document.
//
// In pretty mode a line break followed by width*depth spaces is written
// before every start and end tag, except before the first tag of the
// document and before an end tag that directly follows text, so that
// leaf elements stay on one line.
type Writer struct {
	buf       bytes.Buffer
	pretty    bool
	width     int
	lineBreak bool
	open      *elementStack
}

// NewWriter returns a writer indenting by *indent spaces per level, or a
// compact writer when indent is nil. Negative widths count as zero.
func NewWriter(indent *int) *Writer {
	w := &Writer{open: newElementStack()}
	if indent != nil {
		w.pretty = true
		w.width = max(*indent, 0)
	}
	return w
}

// Depth returns the number of currently open elements.
func (w *Writer) Depth() int {
	return w.open.len()
}

// Open writes the start tag of name with attrs in their map order. A nil
// attrs map writes no attributes. Nothing is written when an error is
// returned.
func (w *Writer) Open(name string, attrs *sequencedmap.Map[string, string]) error {
	if !isName(name) {
		return &MarkupError{Kind: InvalidElementName, Name: name}
	}
	if attrs != nil {
		for k, v := range attrs.All() {
			if !isName(k) {
				return &MarkupError{Kind: InvalidAttributeName, Name: k}
			}
			if r, bad := firstInvalidChar(v); bad {
				return &MarkupError{Kind: InvalidCharacter, Name: v, Rune: r}
			}
		}
	}

	w.breakLine()
	w.buf.WriteByte('<')
	w.buf.WriteString(name)
	if attrs != nil {
		for k, v := range attrs.All() {
			w.buf.WriteByte(' ')
			w.buf.WriteString(k)
			w.buf.WriteString(`="`)
			escapeAttr(&w.buf, v)
			w.buf.WriteByte('"')
		}
	}
	w.buf.WriteByte('>')

	w.open.push(name)
	w.lineBreak = true
	return nil
}

// Text writes s as character data of the innermost open element.
func (w *Writer) Text(s string) error {
	if r, bad := firstInvalidChar(s); bad {
		return &MarkupError{Kind: InvalidCharacter, Name: s, Rune: r}
	}
	escapeText(&w.buf, s)
	w.lineBreak = false
	return nil
}

// Close writes the end tag of name, which must be the innermost open element.
func (w *Writer) Close(name string) error {
	if top, ok := w.open.top(); !ok || top != name {
		return &MarkupError{Kind: MismatchedClose, Name: name}
	}
	w.open.pop()

	w.breakLine()
	w.buf.WriteString("</")
	w.buf.WriteString(name)
	w.buf.WriteByte('>')
	w.lineBreak = true
	return nil
}

// Finish returns the document text. It fails when elements are still open
// or the accumulated bytes are not valid UTF-8.
func (w *Writer) Finish() (string, error) {
	if name, ok := w.open.top(); ok {
		return "", &MarkupError{Kind: UnclosedElement, Name: name}
	}
	b := w.buf.Bytes()
	if !utf8.Valid(b) {
		return "", &EncodingError{Offset: invalidUTF8Offset(b)}
	}
	return string(b), nil
}

func (w *Writer) breakLine() {
	if !w.pretty || !w.lineBreak {
		return
	}
	w.buf.WriteByte('\n')
	w.buf.WriteString(strings.Repeat(" ", w.width*w.open.len()))
}

func invalidUTF8Offset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(b)
}

// escapeText escapes character data. A carriage return is written as a
// character reference because parsers fold literal CRs into newlines.
func escapeText(buf *bytes.Buffer, s string) {
	last := 0
	for i := 0; i < len(s); i++ {
		var esc string
		switch s[i] {
		case '&':
			esc = "&amp;"
		case '<':
			esc = "&lt;"
		case '>':
			esc = "&gt;"
		case '\r':
			esc = "&#13;"
		default:
			continue
		}
		buf.WriteString(s[last:i])
		buf.WriteString(esc)
		last = i + 1
	}
	buf.WriteString(s[last:])
}

// escapeAttr escapes a double-quoted attribute value. Tabs and line breaks
// are written as character references so attribute-value normalization
// does not turn them into spaces.
func escapeAttr(buf *bytes.Buffer, s string) {
	last := 0
	for i := 0; i < len(s); i++ {
		var esc string
		switch s[i] {
		case '&':
			esc = "&amp;"
		case '<':
			esc = "&lt;"
		case '>':
			esc = "&gt;"
		case '"':
			esc = "&quot;"
		case '\t':
			esc = "&#9;"
		case '\n':
			esc = "&#10;"
		case '\r':
			esc = "&#13;"
		default:
			continue
		}
		buf.WriteString(s[last:i])
		buf.WriteString(esc)
		last = i + 1
	}
	buf.WriteString(s[last:])
}
