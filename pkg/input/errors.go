package input

import (
	"fmt"

	"github.com/speakeasy-api/toxml/value"
)

// SyntaxError reports input that could not be decoded.
type SyntaxError struct {
	Format Format
	// Tag points at the offending position of the source.
	Tag value.Tag
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid %s in %s: %v", e.Format, e.Tag.Anchor, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func (e *SyntaxError) Labels() []value.Label {
	return []value.Label{{Tag: e.Tag, Text: "cannot be decoded"}}
}
