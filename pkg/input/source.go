package input

import (
	"fmt"
	"io"
	"sort"
	"unicode/utf8"
)

// Source is one named input text. Offsets are byte offsets into Data.
type Source struct {
	Name string
	Data []byte

	lineStarts []int
}

// NewSource indexes data for line lookups.
func NewSource(name string, data []byte) *Source {
	starts := []int{0}
	for i, b := range data {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Source{Name: name, Data: data, lineStarts: starts}
}

// LineCount returns the number of lines, counting a trailing partial line.
func (s *Source) LineCount() int {
	return len(s.lineStarts)
}

// Position returns the 1-based line and byte column of offset. Offsets
// past the end are clamped.
func (s *Source) Position(offset int) (line, col int) {
	offset = min(max(offset, 0), len(s.Data))
	i := sort.Search(len(s.lineStarts), func(i int) bool { return s.lineStarts[i] > offset }) - 1
	return i + 1, offset - s.lineStarts[i] + 1
}

// Line returns the text of the 1-based line n without its line ending.
func (s *Source) Line(n int) string {
	if n < 1 || n > len(s.lineStarts) {
		return ""
	}
	start := s.lineStarts[n-1]
	end := len(s.Data)
	if n < len(s.lineStarts) {
		end = s.lineStarts[n] - 1
	}
	if end > start && s.Data[end-1] == '\r' {
		end--
	}
	return string(s.Data[start:end])
}

// LineStart returns the byte offset at which the 1-based line n begins.
func (s *Source) LineStart(n int) int {
	if n < 1 {
		return 0
	}
	if n > len(s.lineStarts) {
		return len(s.Data)
	}
	return s.lineStarts[n-1]
}

// Offset converts a 1-based line and 1-based character column into a byte
// offset.
func (s *Source) Offset(line, col int) int {
	if line > len(s.lineStarts) {
		return len(s.Data)
	}
	off := s.LineStart(line)
	for c := 1; c < col && off < len(s.Data) && s.Data[off] != '\n'; c++ {
		_, size := utf8.DecodeRune(s.Data[off:])
		off += size
	}
	return off
}

// Sources maps source names to their contents so diagnostics can quote
// them.
type Sources struct {
	byName map[string]*Source
	order  []string
}

func NewSources() *Sources {
	return &Sources{byName: map[string]*Source{}}
}

// Add registers data under name, replacing an earlier source of that name.
func (s *Sources) Add(name string, data []byte) *Source {
	src := NewSource(name, data)
	if _, ok := s.byName[name]; !ok {
		s.order = append(s.order, name)
	}
	s.byName[name] = src
	return src
}

// Read registers the contents of r under name.
func (s *Sources) Read(name string, r io.Reader) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return s.Add(name, data), nil
}

// Lookup returns the source registered under name.
func (s *Sources) Lookup(name string) (*Source, bool) {
	if s == nil {
		return nil, false
	}
	src, ok := s.byName[name]
	return src, ok
}

// Names returns the registered names in registration order.
func (s *Sources) Names() []string {
	return append([]string(nil), s.order...)
}
