package input

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"

	"github.com/speakeasy-api/toxml/value"
)

var (
	errUnexpectedEnd   = errors.New("unexpected end of input")
	errObjectKey       = errors.New("object key must be a string")
	errUnbalancedDelim = errors.New("unbalanced brackets")
)

// jsonDecoder walks the token stream of a JSON text. Object key order is
// kept because objects are assembled token by token.
//
// The token stream skips commas and colons wherever they appear, so the
// decoder checks separators itself against the raw bytes and only hands
// value and bracket tokens to the stream.
type jsonDecoder struct {
	src *Source
	dec *j.Decoder
	// cursor is the offset just past the last separator checked here.
	cursor int
}

func decodeJSON(src *Source) ([]value.Value, error) {
	dec := j.NewDecoder(bytes.NewReader(src.Data))
	dec.UseNumber()
	d := &jsonDecoder{src: src, dec: dec}

	var docs []value.Value
	for {
		if d.next() >= len(src.Data) {
			return docs, nil
		}
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		docs = append(docs, v)
	}
}

// next returns the offset of the next non-blank byte.
func (d *jsonDecoder) next() int {
	off := max(int(d.dec.InputOffset()), d.cursor)
	for off < len(d.src.Data) {
		switch d.src.Data[off] {
		case ' ', '\t', '\r', '\n':
			off++
			continue
		}
		break
	}
	return off
}

// peek returns the next non-blank byte and its offset.
func (d *jsonDecoder) peek() (int, byte, error) {
	at := d.next()
	if at >= len(d.src.Data) {
		return at, 0, d.fail(at, errUnexpectedEnd)
	}
	return at, d.src.Data[at], nil
}

// separator consumes exactly one want byte.
func (d *jsonDecoder) separator(want byte) error {
	at, c, err := d.peek()
	if err != nil {
		return err
	}
	if c != want {
		return d.fail(at, fmt.Errorf("expected %q, found %q", want, c))
	}
	d.cursor = at + 1
	return nil
}

func (d *jsonDecoder) tag(start int) value.Tag {
	return value.NewTag(d.src.Name, start, int(d.dec.InputOffset()))
}

func (d *jsonDecoder) fail(at int, err error) error {
	var se *j.SyntaxError
	if errors.As(err, &se) && se.Offset > 0 {
		at = int(se.Offset)
	}
	at = min(at, len(d.src.Data))
	return &SyntaxError{Format: FormatJSON, Tag: value.NewTag(d.src.Name, at, min(at+1, len(d.src.Data))), Err: err}
}

func (d *jsonDecoder) token() (int, j.Token, error) {
	start, c, err := d.peek()
	if err != nil {
		return start, nil, err
	}
	if c == ',' || c == ':' {
		return start, nil, d.fail(start, fmt.Errorf("unexpected %q", c))
	}
	tok, err := d.dec.Token()
	if err == io.EOF {
		return start, nil, d.fail(start, errUnexpectedEnd)
	}
	if err != nil {
		return start, nil, d.fail(start, err)
	}
	return start, tok, nil
}

func (d *jsonDecoder) value() (value.Value, error) {
	start, tok, err := d.token()
	if err != nil {
		return value.Value{}, err
	}

	switch t := tok.(type) {
	case j.Delim:
		switch t {
		case '{':
			return d.object(start)
		case '[':
			return d.array(start)
		default:
			return value.Value{}, d.fail(start, fmt.Errorf("unexpected %q", rune(t)))
		}
	case string:
		return value.String(t, d.tag(start)), nil
	case bool:
		return value.Bool(t, d.tag(start)), nil
	case j.Number:
		return number(strings.Clone(string(t)), d.tag(start))
	case nil:
		return value.Nothing(d.tag(start)), nil
	default:
		return value.Value{}, d.fail(start, fmt.Errorf("unexpected token %v", tok))
	}
}

// more reports whether another member follows in a collection closed by
// end, consuming the comma between members. first is true before the
// first member.
func (d *jsonDecoder) more(end byte, first bool) (bool, error) {
	at, c, err := d.peek()
	if err != nil {
		return false, err
	}
	switch {
	case c == end:
		return false, nil
	case first:
		return true, nil
	case c == ',':
		d.cursor = at + 1
		return true, nil
	default:
		return false, d.fail(at, fmt.Errorf("expected ',' or %q, found %q", end, c))
	}
}

func (d *jsonDecoder) object(start int) (value.Value, error) {
	row := value.NewRow()
	for first := true; ; first = false {
		ok, err := d.more('}', first)
		if err != nil {
			return value.Value{}, err
		}
		if !ok {
			break
		}
		keyAt, tok, err := d.token()
		if err != nil {
			return value.Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return value.Value{}, d.fail(keyAt, errObjectKey)
		}
		if err := d.separator(':'); err != nil {
			return value.Value{}, err
		}
		v, err := d.value()
		if err != nil {
			return value.Value{}, err
		}
		row.Set(key, v)
	}
	if err := d.close('}'); err != nil {
		return value.Value{}, err
	}
	return value.NewRowValue(row, d.tag(start)), nil
}

func (d *jsonDecoder) array(start int) (value.Value, error) {
	var items []value.Value
	for first := true; ; first = false {
		ok, err := d.more(']', first)
		if err != nil {
			return value.Value{}, err
		}
		if !ok {
			break
		}
		v, err := d.value()
		if err != nil {
			return value.Value{}, err
		}
		items = append(items, v)
	}
	if err := d.close(']'); err != nil {
		return value.Value{}, err
	}
	return value.NewTableValue(items, d.tag(start)), nil
}

func (d *jsonDecoder) close(want j.Delim) error {
	at, tok, err := d.token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(j.Delim); !ok || delim != want {
		return d.fail(at, errUnbalancedDelim)
	}
	return nil
}

// number keeps integers exact and turns everything else into a decimal.
func number(s string, tag value.Tag) (value.Value, error) {
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return value.Int(i, tag), nil
		}
		if i, ok := new(big.Int).SetString(s, 10); ok {
			return value.BigInt(i, tag), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return value.Value{}, &SyntaxError{Format: FormatJSON, Tag: tag, Err: fmt.Errorf("invalid number %q", s)}
	}
	return value.Decimal(f, tag), nil
}
