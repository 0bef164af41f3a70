package value

import (
	"iter"

	"github.com/speakeasy-api/openapi/sequencedmap"
)

// Row is an ordered mapping of column name to value. Keys are unique and
// iteration follows insertion order.
type Row struct {
	entries *sequencedmap.Map[string, Value]
}

// NewRow returns an empty row.
func NewRow() *Row {
	return &Row{entries: sequencedmap.New[string, Value]()}
}

// Set stores v under key. Setting an existing key replaces its value in
// place without moving it.
func (r *Row) Set(key string, v Value) {
	if r.entries == nil {
		r.entries = sequencedmap.New[string, Value]()
	}
	r.entries.Set(key, v)
}

// Get returns the value stored under key.
func (r *Row) Get(key string) (Value, bool) {
	if r == nil || r.entries == nil {
		return Value{}, false
	}
	return r.entries.Get(key)
}

// Has reports whether key is present.
func (r *Row) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Len returns the number of entries. A nil row is empty.
func (r *Row) Len() int {
	if r == nil || r.entries == nil {
		return 0
	}
	return r.entries.Len()
}

// All iterates entries in insertion order.
func (r *Row) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if r == nil || r.entries == nil {
			return
		}
		for k, v := range r.entries.All() {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Keys returns the column names in insertion order.
func (r *Row) Keys() []string {
	keys := make([]string, 0, r.Len())
	for k := range r.All() {
		keys = append(keys, k)
	}
	return keys
}
