package value

import (
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"sort"
	"time"
)

// Plain converts v into the plain Go form used by generic JSON tooling:
// nil, bool, int, *big.Int, float64, string, []any and map[string]any.
// Scalars without a JSON counterpart become their display string, except
// dates which use RFC 3339.
func (v Value) Plain() any {
	switch v.Kind {
	case KindRow:
		m := make(map[string]any, v.Row.Len())
		for k, item := range v.Row.All() {
			m[k] = item.Plain()
		}
		return m
	case KindTable:
		out := make([]any, len(v.Table))
		for i, item := range v.Table {
			out[i] = item.Plain()
		}
		return out
	}

	p := v.Primitive
	switch p.Kind {
	case PrimNothing:
		return nil
	case PrimString, PrimPath:
		return p.str
	case PrimInt:
		if p.num == nil {
			return 0
		}
		if p.num.IsInt64() {
			if i := p.num.Int64(); math.MinInt <= i && i <= math.MaxInt {
				return int(i)
			}
		}
		return new(big.Int).Set(p.num)
	case PrimDecimal:
		return p.dec
	case PrimBoolean:
		return p.bln
	case PrimDate:
		return p.date.Format(time.RFC3339Nano)
	case PrimFilesize:
		if p.size <= math.MaxInt {
			return int(p.size)
		}
		return new(big.Int).SetUint64(p.size)
	case PrimBinary:
		return hex.EncodeToString(p.bin)
	default:
		return p.String()
	}
}

// FromPlain builds a value from its plain Go form, attaching tag to every
// node. Map keys have no inherent order, so rows built from maps list
// their columns sorted.
func FromPlain(v any, tag Tag) Value {
	switch v := v.(type) {
	case nil:
		return Nothing(tag)
	case bool:
		return Bool(v, tag)
	case int:
		return Int(int64(v), tag)
	case int64:
		return Int(v, tag)
	case *big.Int:
		return BigInt(v, tag)
	case float64:
		return Decimal(v, tag)
	case string:
		return String(v, tag)
	case []byte:
		return Binary(v, tag)
	case time.Time:
		return Date(v, tag)
	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = FromPlain(item, tag)
		}
		return NewTableValue(items, tag)
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		row := NewRow()
		for _, k := range keys {
			row.Set(k, FromPlain(v[k], tag))
		}
		return NewRowValue(row, tag)
	default:
		return String(fmt.Sprint(v), tag)
	}
}
