package toxml

import (
	"errors"
	"testing"

	"github.com/speakeasy-api/openapi/sequencedmap"
)

func attrMap(kv ...string) *sequencedmap.Map[string, string] {
	m := sequencedmap.New[string, string]()
	for i := 0; i+1 < len(kv); i += 2 {
		m.Set(kv[i], kv[i+1])
	}
	return m
}

func mustFinish(t *testing.T, w *Writer) string {
	t.Helper()
	out, err := w.Finish()
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	return out
}

func TestWriterCompact(t *testing.T) {
	w := NewWriter(nil)
	steps := []error{
		w.Open("a", attrMap("id", "1", "kind", "x")),
		w.Open("b", nil),
		w.Text("hi"),
		w.Close("b"),
		w.Open("c", nil),
		w.Close("c"),
		w.Close("a"),
	}
	for i, err := range steps {
		if err != nil {
			t.Fatalf("step %d error = %v", i, err)
		}
	}
	want := `<a id="1" kind="x"><b>hi</b><c></c></a>`
	if got := mustFinish(t, w); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestWriterIndent(t *testing.T) {
	tests := []struct {
		name  string
		width int
		run   func(w *Writer)
		want  string
	}{
		{
			name:  "leaf_stays_inline",
			width: 2,
			run: func(w *Writer) {
				_ = w.Open("a", nil)
				_ = w.Text("x")
				_ = w.Close("a")
			},
			want: "<a>x</a>",
		},
		{
			name:  "empty_element",
			width: 2,
			run: func(w *Writer) {
				_ = w.Open("a", attrMap("id", "1"))
				_ = w.Close("a")
			},
			want: "<a id=\"1\">\n</a>",
		},
		{
			name:  "nested",
			width: 2,
			run: func(w *Writer) {
				_ = w.Open("a", nil)
				_ = w.Open("b", nil)
				_ = w.Text("x")
				_ = w.Close("b")
				_ = w.Open("c", nil)
				_ = w.Open("d", nil)
				_ = w.Text("y")
				_ = w.Close("d")
				_ = w.Close("c")
				_ = w.Close("a")
			},
			want: "<a>\n  <b>x</b>\n  <c>\n    <d>y</d>\n  </c>\n</a>",
		},
		{
			name:  "siblings_at_root",
			width: 4,
			run: func(w *Writer) {
				_ = w.Open("a", nil)
				_ = w.Close("a")
				_ = w.Open("b", nil)
				_ = w.Text("1")
				_ = w.Close("b")
			},
			want: "<a>\n</a>\n<b>1</b>",
		},
		{
			name:  "zero_width_breaks_lines",
			width: 0,
			run: func(w *Writer) {
				_ = w.Open("a", nil)
				_ = w.Open("b", nil)
				_ = w.Close("b")
				_ = w.Close("a")
			},
			want: "<a>\n<b>\n</b>\n</a>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter(Indent(tt.width))
			tt.run(w)
			if got := mustFinish(t, w); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriterEscaping(t *testing.T) {
	w := NewWriter(nil)
	if err := w.Open("a", attrMap("q", `say "hi" & <go>`, "ws", "a\tb\nc")); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := w.Text(`1 < 2 && "3" > 'x'` + "\r\n"); err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	if err := w.Close("a"); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	want := `<a q="say &quot;hi&quot; &amp; &lt;go&gt;" ws="a&#9;b&#10;c">1 &lt; 2 &amp;&amp; "3" &gt; 'x'&#13;` + "\n</a>"
	if got := mustFinish(t, w); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestWriterRejectsBadMarkup(t *testing.T) {
	tests := []struct {
		name string
		run  func(w *Writer) error
		kind MarkupErrorKind
	}{
		{"empty_name", func(w *Writer) error { return w.Open("", nil) }, InvalidElementName},
		{"name_with_space", func(w *Writer) error { return w.Open("a b", nil) }, InvalidElementName},
		{"name_starting_with_digit", func(w *Writer) error { return w.Open("1a", nil) }, InvalidElementName},
		{"name_with_angle", func(w *Writer) error { return w.Open("a<b", nil) }, InvalidElementName},
		{"bad_attribute_name", func(w *Writer) error { return w.Open("a", attrMap("x y", "1")) }, InvalidAttributeName},
		{"control_char_in_attr", func(w *Writer) error { return w.Open("a", attrMap("x", "\x01")) }, InvalidCharacter},
		{"nul_in_text", func(w *Writer) error { return w.Text("a\x00b") }, InvalidCharacter},
		{"close_without_open", func(w *Writer) error { return w.Close("a") }, MismatchedClose},
		{"close_wrong_name", func(w *Writer) error {
			_ = w.Open("a", nil)
			return w.Close("b")
		}, MismatchedClose},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter(nil)
			err := tt.run(w)
			var me *MarkupError
			if !errors.As(err, &me) {
				t.Fatalf("error = %v, want *MarkupError", err)
			}
			if me.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", me.Kind, tt.kind)
			}
		})
	}
}

func TestWriterRejectedOpenWritesNothing(t *testing.T) {
	w := NewWriter(nil)
	if err := w.Open("a", attrMap("ok", "1", "bad name", "2")); err == nil {
		t.Fatal("Open() accepted an invalid attribute name")
	}
	if w.Depth() != 0 {
		t.Errorf("Depth() = %d after rejected Open, want 0", w.Depth())
	}
	if got := mustFinish(t, w); got != "" {
		t.Errorf("output = %q, want empty", got)
	}
}

func TestWriterAcceptsUnicodeNames(t *testing.T) {
	w := NewWriter(nil)
	for _, name := range []string{"données", "名前", "_x", "ns:el", "a-b.c1"} {
		if err := w.Open(name, nil); err != nil {
			t.Fatalf("Open(%q) error = %v", name, err)
		}
		if err := w.Close(name); err != nil {
			t.Fatalf("Close(%q) error = %v", name, err)
		}
	}
}

func TestWriterFinishErrors(t *testing.T) {
	w := NewWriter(nil)
	_ = w.Open("a", nil)
	_, err := w.Finish()
	var me *MarkupError
	if !errors.As(err, &me) || me.Kind != UnclosedElement || me.Name != "a" {
		t.Fatalf("Finish() error = %v, want unclosed element a", err)
	}

	w = NewWriter(nil)
	_ = w.Open("a", nil)
	_ = w.Text("ok\xffbad")
	_ = w.Close("a")
	_, err = w.Finish()
	var encErr *EncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("Finish() error = %v, want *EncodingError", err)
	}
	if encErr.Offset != len("<a>ok") {
		t.Errorf("Offset = %d, want %d", encErr.Offset, len("<a>ok"))
	}
}
