package toxml

import (
	"github.com/speakeasy-api/toxml/value"
)

var noTag = value.UnknownTag

func str(s string) value.Value { return value.String(s, noTag) }

// rowOf builds a row from alternating keys and values.
func rowOf(tag value.Tag, kv ...any) value.Value {
	r := value.NewRow()
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(kv[i].(string), kv[i+1].(value.Value))
	}
	return value.NewRowValue(r, tag)
}

func table(items ...value.Value) value.Value {
	return value.NewTableValue(items, noTag)
}

// elem builds {name: {"attributes": attrs, "children": children}}.
func elem(name string, attrs value.Value, children ...value.Value) value.Value {
	return rowOf(noTag, name, descriptor(attrs, children...))
}

func descriptor(attrs value.Value, children ...value.Value) value.Value {
	return rowOf(noTag, AttributesKey, attrs, ChildrenKey, table(children...))
}

func noAttrs() value.Value { return rowOf(noTag) }
