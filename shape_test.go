package toxml

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/speakeasy-api/toxml/value"
)

func TestIsElementDescriptor(t *testing.T) {
	tests := []struct {
		name string
		v    value.Value
		want bool
	}{
		{"exact_pair", descriptor(noAttrs()), true},
		{"reversed_order", rowOf(noTag, ChildrenKey, table(), AttributesKey, noAttrs()), true},
		{"non_row_attributes_still_shaped", rowOf(noTag, AttributesKey, str("x"), ChildrenKey, str("y")), true},
		{"missing_attributes", rowOf(noTag, ChildrenKey, table()), false},
		{"missing_children", rowOf(noTag, AttributesKey, noAttrs()), false},
		{"extra_key", rowOf(noTag, AttributesKey, noAttrs(), ChildrenKey, table(), "text", str("x")), false},
		{"empty_row", rowOf(noTag), false},
		{"scalar", str("attributes"), false},
		{"table", table(str("attributes"), str("children")), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsElementDescriptor(tt.v); got != tt.want {
				t.Errorf("IsElementDescriptor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAttributesOf(t *testing.T) {
	attrs := rowOf(noTag,
		"zeta", value.Int(1, noTag),
		"alpha", value.Bool(true, noTag),
		"mid", value.Decimal(2.5, noTag),
	)
	got, ok := AttributesOf(descriptor(attrs))
	if !ok {
		t.Fatal("AttributesOf() reported no attributes")
	}

	var pairs [][2]string
	for k, v := range got.All() {
		pairs = append(pairs, [2]string{k, v})
	}
	want := [][2]string{{"zeta", "1"}, {"alpha", "true"}, {"mid", "2.5"}}
	if diff := cmp.Diff(want, pairs); diff != "" {
		t.Errorf("AttributesOf() mismatch (-want +got):\n%s", diff)
	}
}

func TestAttributesOfAbsent(t *testing.T) {
	tests := map[string]value.Value{
		"scalar":          str("x"),
		"no_attributes":   rowOf(noTag, ChildrenKey, table()),
		"attributes_text": rowOf(noTag, AttributesKey, str("id=1"), ChildrenKey, table()),
	}
	for name, v := range tests {
		t.Run(name, func(t *testing.T) {
			if got, ok := AttributesOf(v); ok || got != nil {
				t.Errorf("AttributesOf() = %v, %v; want nil, false", got, ok)
			}
		})
	}
}

func TestChildrenOf(t *testing.T) {
	children, ok := ChildrenOf(descriptor(noAttrs(), str("a"), str("b")))
	if !ok || len(children) != 2 {
		t.Fatalf("ChildrenOf() = %d children, %v; want 2, true", len(children), ok)
	}
	if children[0].DisplayString() != "a" || children[1].DisplayString() != "b" {
		t.Errorf("ChildrenOf() order = %q, %q", children[0].DisplayString(), children[1].DisplayString())
	}

	if _, ok := ChildrenOf(rowOf(noTag, AttributesKey, noAttrs(), ChildrenKey, str("x"))); ok {
		t.Error("ChildrenOf() accepted a non-table children entry")
	}
	if _, ok := ChildrenOf(str("x")); ok {
		t.Error("ChildrenOf() accepted a scalar")
	}
}
