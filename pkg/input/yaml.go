package input

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/speakeasy-api/toxml/value"
)

const (
	// maxAliasDepth bounds alias expansion so self-referencing documents
	// fail instead of recursing forever.
	maxAliasDepth = 64

	// A source may expand to at most expansionPerByte nodes per byte, and
	// never fewer than minExpansion, so aliases cannot grow the records
	// faster than the input.
	expansionPerByte = 64
	minExpansion     = 10000
)

var errExcessiveAliasing = errors.New("document contains excessive aliasing")

var (
	yamlErrorLine = regexp.MustCompile(`line (\d+)`)
	// Integers too large for int64 resolve as floats.
	plainInteger = regexp.MustCompile(`^[-+]?[0-9]+$`)
)

type yamlDecoder struct {
	src *Source
	// nodes counts the values built so far, alias expansions included.
	nodes  int
	budget int
}

func decodeYAML(src *Source) ([]value.Value, error) {
	d := &yamlDecoder{src: src, budget: max(len(src.Data)*expansionPerByte, minExpansion)}
	dec := yaml.NewDecoder(bytes.NewReader(src.Data))

	var docs []value.Value
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if err == io.EOF {
			return docs, nil
		}
		if err != nil {
			return nil, d.syntaxError(err)
		}
		if len(doc.Content) == 0 {
			continue
		}
		v, err := d.node(doc.Content[0], 0)
		if err != nil {
			return nil, err
		}
		docs = append(docs, v)
	}
}

func (d *yamlDecoder) syntaxError(err error) error {
	at := 0
	if m := yamlErrorLine.FindStringSubmatch(err.Error()); m != nil {
		if line, convErr := strconv.Atoi(m[1]); convErr == nil {
			at = d.src.LineStart(line)
		}
	}
	end := at
	for end < len(d.src.Data) && d.src.Data[end] != '\n' {
		end++
	}
	return &SyntaxError{Format: FormatYAML, Tag: value.NewTag(d.src.Name, at, end), Err: err}
}

func (d *yamlDecoder) tag(n *yaml.Node) value.Tag {
	start, end := d.span(n)
	return value.NewTag(d.src.Name, start, end)
}

// span approximates the byte range of n: from its first character to the
// end of its last descendant.
func (d *yamlDecoder) span(n *yaml.Node) (int, int) {
	start := d.src.Offset(n.Line, n.Column)
	switch n.Kind {
	case yaml.ScalarNode:
		width := len(n.Value)
		if n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
			width += 2
		}
		return start, min(start+width, len(d.src.Data))
	case yaml.AliasNode:
		return start, min(start+1+len(n.Value), len(d.src.Data))
	}
	end := start + 1
	if len(n.Content) > 0 {
		_, end = d.span(n.Content[len(n.Content)-1])
	}
	if n.Style&yaml.FlowStyle != 0 {
		end = d.closeFlow(end)
	}
	return start, min(max(end, start), len(d.src.Data))
}

// closeFlow extends end past the closing bracket of a flow collection.
func (d *yamlDecoder) closeFlow(end int) int {
	for i := end; i < len(d.src.Data); i++ {
		switch d.src.Data[i] {
		case ']', '}':
			return i + 1
		case ' ', '\t', '\r', '\n', '"', '\'':
			continue
		}
		break
	}
	return end
}

func (d *yamlDecoder) node(n *yaml.Node, depth int) (value.Value, error) {
	if d.nodes++; d.nodes > d.budget {
		return value.Value{}, &SyntaxError{Format: FormatYAML, Tag: d.tag(n), Err: errExcessiveAliasing}
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Nothing(d.tag(n)), nil
		}
		return d.node(n.Content[0], depth)
	case yaml.AliasNode:
		if depth >= maxAliasDepth || n.Alias == nil {
			return value.Value{}, &SyntaxError{Format: FormatYAML, Tag: d.tag(n), Err: errors.New("alias nesting too deep")}
		}
		v, err := d.node(n.Alias, depth+1)
		if err != nil {
			return value.Value{}, err
		}
		return v.WithTag(d.tag(n)), nil
	case yaml.SequenceNode:
		items := make([]value.Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := d.node(c, depth)
			if err != nil {
				return value.Value{}, err
			}
			items = append(items, v)
		}
		return value.NewTableValue(items, d.tag(n)), nil
	case yaml.MappingNode:
		return d.mapping(n, depth)
	default:
		return d.scalar(n)
	}
}

// mapping builds a row from n. Explicit keys must be unique and take
// precedence over merged ones.
func (d *yamlDecoder) mapping(n *yaml.Node, depth int) (value.Value, error) {
	row := value.NewRow()
	seen := make(map[string]struct{}, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.ShortTag() == "!!merge" {
			if err := d.merge(row, v, depth); err != nil {
				return value.Value{}, err
			}
			continue
		}
		if k.Kind != yaml.ScalarNode {
			return value.Value{}, &SyntaxError{Format: FormatYAML, Tag: d.tag(k), Err: errors.New("mapping key must be a scalar")}
		}
		if _, dup := seen[k.Value]; dup {
			return value.Value{}, &SyntaxError{Format: FormatYAML, Tag: d.tag(k), Err: fmt.Errorf("mapping key %q already defined", k.Value)}
		}
		seen[k.Value] = struct{}{}
		child, err := d.node(v, depth)
		if err != nil {
			return value.Value{}, err
		}
		row.Set(k.Value, child)
	}
	return value.NewRowValue(row, d.tag(n)), nil
}

// merge copies the entries of a merged mapping, or of each mapping in a
// merged sequence, without overriding keys already present.
func (d *yamlDecoder) merge(row *value.Row, n *yaml.Node, depth int) error {
	src := []*yaml.Node{n}
	if n.Kind == yaml.SequenceNode {
		src = n.Content
	}
	for _, m := range src {
		v, err := d.node(m, depth)
		if err != nil {
			return err
		}
		merged, ok := v.AsRow()
		if !ok {
			return &SyntaxError{Format: FormatYAML, Tag: d.tag(m), Err: errors.New("merge value must be a mapping")}
		}
		for key, entry := range merged.All() {
			if !row.Has(key) {
				row.Set(key, entry)
			}
		}
	}
	return nil
}

func (d *yamlDecoder) scalar(n *yaml.Node) (value.Value, error) {
	tag := d.tag(n)
	bad := func(err error) (value.Value, error) {
		return value.Value{}, &SyntaxError{Format: FormatYAML, Tag: tag, Err: err}
	}

	switch n.ShortTag() {
	case "!!null":
		return value.Nothing(tag), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return bad(err)
		}
		return value.Bool(b, tag), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return value.Int(i, tag), nil
		}
		if bi, ok := new(big.Int).SetString(strings.ReplaceAll(n.Value, "_", ""), 0); ok {
			return value.BigInt(bi, tag), nil
		}
		return bad(fmt.Errorf("invalid integer %q", n.Value))
	case "!!float":
		if n.Style == 0 && plainInteger.MatchString(n.Value) {
			if bi, ok := new(big.Int).SetString(strings.TrimPrefix(n.Value, "+"), 10); ok {
				return value.BigInt(bi, tag), nil
			}
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return bad(err)
		}
		return value.Decimal(f, tag), nil
	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return bad(err)
		}
		return value.Date(t, tag), nil
	case "!!binary":
		b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
		if err != nil {
			return bad(fmt.Errorf("invalid binary: %w", err))
		}
		return value.Binary(b, tag), nil
	default:
		return value.String(n.Value, tag), nil
	}
}
