// Package input decodes JSON and YAML documents into pipeline records.
//
// Every decoded value carries a tag pointing back at its byte range in the
// source, so conversion errors can quote the offending input.
package input

import (
	"github.com/speakeasy-api/toxml/value"
)

// Decode decodes every document of src into records. A document whose top
// level is an array contributes one record per element.
func Decode(src *Source, format Format) ([]value.Value, error) {
	if format == FormatAuto || format == "" {
		format = Detect(src.Name, src.Data)
	}
	var (
		docs []value.Value
		err  error
	)
	switch format {
	case FormatJSON:
		docs, err = decodeJSON(src)
	default:
		docs, err = decodeYAML(src)
	}
	if err != nil {
		return nil, err
	}
	return Spread(docs), nil
}

// Spread replaces every top-level table by its items.
func Spread(docs []value.Value) []value.Value {
	records := make([]value.Value, 0, len(docs))
	for _, doc := range docs {
		if items, ok := doc.AsTable(); ok {
			records = append(records, items...)
			continue
		}
		records = append(records, doc)
	}
	return records
}
