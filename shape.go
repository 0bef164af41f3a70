package toxml

import (
	"github.com/speakeasy-api/openapi/sequencedmap"
	"github.com/speakeasy-api/toxml/value"
)

// Column names of an element descriptor.
const (
	AttributesKey = "attributes"
	ChildrenKey   = "children"
)

// IsElementDescriptor reports whether v is a row whose columns are exactly
// "attributes" and "children".
func IsElementDescriptor(v value.Value) bool {
	row, ok := v.AsRow()
	if !ok {
		return false
	}
	return row.Len() == 2 && row.Has(AttributesKey) && row.Has(ChildrenKey)
}

// AttributesOf returns the "attributes" row of v as an ordered name to
// display string map. It reports false when v is not a row or its
// "attributes" entry is missing or not a row.
func AttributesOf(v value.Value) (*sequencedmap.Map[string, string], bool) {
	row, ok := v.AsRow()
	if !ok {
		return nil, false
	}
	entry, ok := row.Get(AttributesKey)
	if !ok {
		return nil, false
	}
	attrRow, ok := entry.AsRow()
	if !ok {
		return nil, false
	}
	attrs := sequencedmap.New[string, string]()
	for name, attr := range attrRow.All() {
		attrs.Set(name, attr.DisplayString())
	}
	return attrs, true
}

// ChildrenOf returns the "children" table of v.
func ChildrenOf(v value.Value) ([]value.Value, bool) {
	row, ok := v.AsRow()
	if !ok {
		return nil, false
	}
	entry, ok := row.Get(ChildrenKey)
	if !ok {
		return nil, false
	}
	return entry.AsTable()
}
