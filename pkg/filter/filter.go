// Package filter runs jq programs over pipeline records.
//
// Records are handed to jq in their plain Go form and every output is
// turned back into a record tagged like the input it came from. jq objects
// have no key order, so rows produced by a program list their columns
// sorted by name.
package filter

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/speakeasy-api/toxml/value"
)

// QueryAnchor names the query text in diagnostics.
const QueryAnchor = "<filter>"

// Program is a compiled jq query.
type Program struct {
	query     string
	canonical string
	code      *gojq.Code
	values    []any
}

// Compile parses and compiles query. vars binds jq variables; names may
// be given with or without the leading '$'.
func Compile(query string, vars map[string]any) (*Program, error) {
	q, err := gojq.Parse(query)
	if err != nil {
		return nil, parseError(query, err)
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	values := make([]any, len(names))
	for i, name := range names {
		values[i] = vars[name]
		if !strings.HasPrefix(name, "$") {
			names[i] = "$" + name
		}
	}

	code, err := gojq.Compile(q, gojq.WithVariables(names))
	if err != nil {
		return nil, &Error{Query: query, Tag: value.NewTag(QueryAnchor, 0, len(query)), Err: fmt.Errorf("compiling query: %w", err)}
	}
	return &Program{query: query, canonical: q.String(), code: code, values: values}, nil
}

// String returns the query reformatted from its syntax tree.
func (p *Program) String() string {
	return p.canonical
}

// Run applies the program to every record in order and returns all
// outputs. The first jq error stops the run.
func (p *Program) Run(ctx context.Context, records []value.Value) ([]value.Value, error) {
	var out []value.Value
	for _, rec := range records {
		iter := p.code.RunWithContext(ctx, rec.Plain(), p.values...)
		for {
			v, ok := iter.Next()
			if !ok {
				break
			}
			if err, isErr := v.(error); isErr {
				if halt, isHalt := err.(*gojq.HaltError); isHalt && halt.Value() == nil {
					break
				}
				return nil, &Error{Query: p.query, Tag: rec.Tag, Err: err}
			}
			out = append(out, value.FromPlain(v, rec.Tag))
		}
	}
	return out, nil
}

// Apply compiles query and runs it over records.
func Apply(ctx context.Context, query string, records []value.Value) ([]value.Value, error) {
	p, err := Compile(query, nil)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, records)
}

func parseError(query string, err error) error {
	tag := value.NewTag(QueryAnchor, 0, len(query))
	if pe, ok := err.(*gojq.ParseError); ok {
		end := min(pe.Offset, len(query))
		start := max(end-len(pe.Token), 0)
		if start == end && end > 0 {
			start = end - 1
		}
		tag = value.NewTag(QueryAnchor, start, end)
	}
	return &Error{Query: query, Tag: tag, Err: fmt.Errorf("parsing query: %w", err)}
}
