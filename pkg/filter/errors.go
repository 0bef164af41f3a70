package filter

import "github.com/speakeasy-api/toxml/value"

// Error reports a query that failed to compile, or a record the query
// failed on. Tag points at the query text or at the record.
type Error struct {
	Query string
	Tag   value.Tag
	Err   error
}

func (e *Error) Error() string {
	return "jq: " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Labels() []value.Label {
	if e.Tag.Anchor == QueryAnchor {
		return []value.Label{{Tag: e.Tag, Text: "in this query"}}
	}
	return []value.Label{{Tag: e.Tag, Text: "while filtering this value"}}
}
