package value

// Kind classifies values flowing through the pipeline.
type Kind uint8

const (
	KindPrimitive Kind = iota
	KindRow
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindRow:
		return "row"
	case KindTable:
		return "table"
	default:
		return "unknown"
	}
}

// Value is a tagged pipeline value: a scalar, an ordered row or a table.
// Only the field matching Kind is meaningful.
type Value struct {
	Kind      Kind
	Primitive Primitive
	Row       *Row
	Table     []Value
	Tag       Tag
}

// Constructors and accessors.
func NewRowValue(r *Row, tag Tag) Value {
	if r == nil {
		r = NewRow()
	}
	return Value{Kind: KindRow, Row: r, Tag: tag}
}

func NewTableValue(items []Value, tag Tag) Value {
	return Value{Kind: KindTable, Table: items, Tag: tag}
}

func NewPrimitiveValue(p Primitive, tag Tag) Value {
	return Value{Kind: KindPrimitive, Primitive: p, Tag: tag}
}

func (v Value) AsRow() (*Row, bool) {
	if v.Kind == KindRow && v.Row != nil {
		return v.Row, true
	}
	return nil, false
}

func (v Value) AsTable() ([]Value, bool) {
	if v.Kind == KindTable {
		return v.Table, true
	}
	return nil, false
}

func (v Value) AsPrimitive() (Primitive, bool) {
	if v.Kind == KindPrimitive {
		return v.Primitive, true
	}
	return Primitive{}, false
}

// WithTag returns a copy of v carrying tag.
func (v Value) WithTag(tag Tag) Value {
	v.Tag = tag
	return v
}
