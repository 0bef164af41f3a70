package value

import "strconv"

// Span is a half-open byte range [Start, End) within a source.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// Tag records where a value came from. It is only ever used to point
// diagnostics at a source location.
type Tag struct {
	// Anchor names the source: a file name, "<stdin>" or "<cli>".
	Anchor string
	Span   Span
}

// UnknownTag is attached to values that have no source, such as values
// built in code.
var UnknownTag = Tag{}

// NewTag returns a tag for the byte range [start, end) of anchor.
func NewTag(anchor string, start, end int) Tag {
	return Tag{Anchor: anchor, Span: Span{Start: start, End: end}}
}

// IsUnknown reports whether the tag carries no location.
func (t Tag) IsUnknown() bool {
	return t == UnknownTag
}

func (t Tag) String() string {
	if t.IsUnknown() {
		return "<unknown>"
	}
	return t.Anchor + "[" + strconv.Itoa(t.Span.Start) + ":" + strconv.Itoa(t.Span.End) + "]"
}

// Label attaches a short message to a tagged location.
type Label struct {
	Tag  Tag
	Text string
}
