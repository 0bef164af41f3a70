package toxml

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jacoelho/xsd/pkg/xmltext"
	"github.com/speakeasy-api/toxml/value"
)

func TestMarshal(t *testing.T) {
	tests := []struct {
		name   string
		root   value.Value
		indent *int
		want   string
	}{
		{
			name: "text_child",
			root: elem("a", noAttrs(), str("x")),
			want: "<a>x</a>",
		},
		{
			name: "attributes_without_children",
			root: elem("a", rowOf(noTag, "id", value.Int(1, noTag))),
			want: `<a id="1"></a>`,
		},
		{
			name: "int_child_uses_display_string",
			root: elem("a", noAttrs(), value.Int(5, noTag)),
			want: "<a>5</a>",
		},
		{
			name: "attribute_order_is_kept",
			root: elem("a", rowOf(noTag, "z", str("1"), "b", value.Bool(true, noTag), "m", value.Decimal(2.5, noTag))),
			want: `<a z="1" b="true" m="2.5"></a>`,
		},
		{
			name: "nested_elements_and_text",
			root: elem("a", noAttrs(),
				elem("b", noAttrs(), str("x")),
				str("tail"),
				elem("c", rowOf(noTag, "k", str("v"))),
			),
			want: `<a><b>x</b>tail<c k="v"></c></a>`,
		},
		{
			name: "table_at_root_concatenates",
			root: table(elem("a", noAttrs(), str("1")), elem("b", noAttrs(), str("2"))),
			want: "<a>1</a><b>2</b>",
		},
		{
			name: "nested_table_child_is_transparent",
			root: elem("a", noAttrs(), table(str("x"), elem("b", noAttrs()))),
			want: "<a>x<b></b></a>",
		},
		{
			name: "escaped_text",
			root: elem("a", noAttrs(), str("<&>")),
			want: "<a>&lt;&amp;&gt;</a>",
		},
		{
			name: "row_with_several_elements",
			root: rowOf(noTag,
				"a", descriptor(noAttrs(), str("1")),
				"b", descriptor(noAttrs(), str("2")),
			),
			want: "<a>1</a><b>2</b>",
		},
		{
			name: "primitive_root_is_text",
			root: str("just text"),
			want: "just text",
		},
		{
			name: "empty_row_root",
			root: rowOf(noTag),
			want: "",
		},
		{
			name:   "pretty_nested",
			root:   elem("a", noAttrs(), elem("b", noAttrs(), str("x")), elem("c", noAttrs())),
			indent: Indent(2),
			want:   "<a>\n  <b>x</b>\n  <c>\n  </c>\n</a>",
		},
		{
			name:   "pretty_empty_root",
			root:   elem("a", rowOf(noTag, "id", str("1"))),
			indent: Indent(2),
			want:   "<a id=\"1\">\n</a>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.root, tt.indent)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Marshal() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMarshalIsDeterministic(t *testing.T) {
	when := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	root := elem("event", rowOf(noTag, "at", value.Date(when, noTag)),
		elem("took", noAttrs(), value.Duration(1500*time.Millisecond, noTag)),
		elem("size", noAttrs(), value.Filesize(2048, noTag)),
	)
	first, err := Marshal(root, Indent(4))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for range 5 {
		again, err := Marshal(root, Indent(4))
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if again != first {
			t.Fatalf("Marshal() not deterministic:\n%s\nvs\n%s", first, again)
		}
	}
}

func TestMarshalStructureError(t *testing.T) {
	outer := value.NewTag("input.json", 0, 40)
	inner := value.NewTag("input.json", 10, 20)

	tests := []struct {
		name     string
		root     value.Value
		key      string
		tag      value.Tag
		childTag value.Tag
	}{
		{
			name:     "entry_is_primitive",
			root:     rowOf(outer, "a", str("x").WithTag(inner)),
			key:      "a",
			tag:      outer,
			childTag: inner,
		},
		{
			name:     "descriptor_missing_attributes",
			root:     rowOf(outer, "a", rowOf(inner, ChildrenKey, table())),
			key:      "a",
			tag:      outer,
			childTag: inner,
		},
		{
			name: "descriptor_with_extra_column",
			root: rowOf(outer, "a", rowOf(inner,
				AttributesKey, noAttrs(),
				ChildrenKey, table(),
				"extra", str("1"),
			)),
			key:      "a",
			tag:      outer,
			childTag: inner,
		},
		{
			name: "nested_row_reports_nearest_enclosing_row",
			root: elem("a", noAttrs(), rowOf(inner, "b", str("bad"))),
			key:  "b",
			tag:  inner,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.root, nil)
			if got != "" {
				t.Errorf("Marshal() output = %q, want none", got)
			}
			var se *StructureError
			if !errors.As(err, &se) {
				t.Fatalf("Marshal() error = %v, want *StructureError", err)
			}
			if se.Key != tt.key {
				t.Errorf("Key = %q, want %q", se.Key, tt.key)
			}
			if se.Tag != tt.tag {
				t.Errorf("Tag = %v, want %v", se.Tag, tt.tag)
			}
			if tt.childTag != noTag && se.ChildTag != tt.childTag {
				t.Errorf("ChildTag = %v, want %v", se.ChildTag, tt.childTag)
			}
			if !strings.HasPrefix(se.Error(), msgStructure) {
				t.Errorf("Error() = %q, want prefix %q", se.Error(), msgStructure)
			}
		})
	}
}

func TestMarshalMarkupErrorCarriesTag(t *testing.T) {
	at := value.NewTag("input.yaml", 3, 9)
	root := rowOf(noTag, "bad name", descriptor(noAttrs()).WithTag(at))
	_, err := Marshal(root, nil)
	var me *MarkupError
	if !errors.As(err, &me) {
		t.Fatalf("Marshal() error = %v, want *MarkupError", err)
	}
	if me.Kind != InvalidElementName || me.Tag != at {
		t.Errorf("MarkupError = %+v, want invalid element name at %v", me, at)
	}

	textAt := value.NewTag("input.yaml", 12, 14)
	root = elem("a", noAttrs(), value.String("bell\x07", textAt))
	_, err = Marshal(root, nil)
	if !errors.As(err, &me) {
		t.Fatalf("Marshal() error = %v, want *MarkupError", err)
	}
	if me.Kind != InvalidCharacter || me.Rune != 0x07 || me.Tag != textAt {
		t.Errorf("MarkupError = %+v, want U+0007 at %v", me, textAt)
	}
}

// event is a flattened XML event used to compare a tree with parser output.
type event struct {
	Kind  string
	Name  string
	Attrs []string
	Text  string
}

func treeEvents(v value.Value) []event {
	var out []event
	var walk func(v value.Value)
	walk = func(v value.Value) {
		switch v.Kind {
		case value.KindRow:
			for name, d := range v.Row.All() {
				var attrs []string
				if m, ok := AttributesOf(d); ok {
					for k, a := range m.All() {
						attrs = append(attrs, k+"="+a)
					}
				}
				out = append(out, event{Kind: "start", Name: name, Attrs: attrs})
				children, _ := ChildrenOf(d)
				for _, c := range children {
					walk(c)
				}
				out = append(out, event{Kind: "end", Name: name})
			}
		case value.KindTable:
			for _, item := range v.Table {
				walk(item)
			}
		default:
			s := v.DisplayString()
			if s == "" {
				return
			}
			if n := len(out); n > 0 && out[n-1].Kind == "text" {
				out[n-1].Text += s
				return
			}
			out = append(out, event{Kind: "text", Text: s})
		}
	}
	walk(v)
	return out
}

func parsedEvents(t *testing.T, doc string) []event {
	t.Helper()
	dec := xmltext.NewDecoder(strings.NewReader(doc), xmltext.ResolveEntities(true), xmltext.CoalesceCharData(true))
	var out []event
	var tok xmltext.Token
	for {
		err := dec.ReadTokenInto(&tok)
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("parsing %q: %v", doc, err)
		}
		switch tok.Kind {
		case xmltext.KindStartElement:
			var attrs []string
			for _, a := range tok.Attrs {
				attrs = append(attrs, string(a.Name)+"="+string(a.Value))
			}
			out = append(out, event{Kind: "start", Name: string(tok.Name), Attrs: attrs})
		case xmltext.KindEndElement:
			out = append(out, event{Kind: "end", Name: string(tok.Name)})
		case xmltext.KindCharData, xmltext.KindCDATA:
			out = append(out, event{Kind: "text", Text: string(tok.Text)})
		}
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	roots := []value.Value{
		elem("a", noAttrs(), str("x")),
		elem("doc", rowOf(noTag, "lang", str("en"), "note", str("tab\there\nnew \"quoted\" & <angled>")),
			elem("title", noAttrs(), str("Fish & Chips <menu>")),
			elem("body", noAttrs(),
				str("line one\r\nline two"),
				elem("br", noAttrs()),
				value.Int(42, noTag),
			),
		),
		elem("données", rowOf(noTag, "clé", str("välue")), str("日本語のテキスト")),
	}
	for _, root := range roots {
		doc, err := Marshal(root, nil)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if err := CheckWellFormed(doc); err != nil {
			t.Fatalf("CheckWellFormed(%q) = %v", doc, err)
		}
		if diff := cmp.Diff(treeEvents(root), parsedEvents(t, doc)); diff != "" {
			t.Errorf("round trip of %q mismatch (-tree +parsed):\n%s", doc, diff)
		}
	}
}
