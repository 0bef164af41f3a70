package toxml

import (
	"fmt"

	"github.com/speakeasy-api/toxml/value"
)

const (
	msgStructure      = "Expected a row with 'children' and 'attributes' columns"
	labelStructure    = "missing 'children' and 'attributes' columns"
	msgConversion     = "Expected a table with XML-compatible structure from pipeline"
	labelConversion   = "requires XML-compatible input"
	labelOriginatesAt = "originates from here"
	msgEncoding       = "Could not convert a string to utf-8"
)

// StructureError reports a row entry whose value is not an element
// descriptor. Tag locates the enclosing row, ChildTag the offending entry.
type StructureError struct {
	Key      string
	Tag      value.Tag
	ChildTag value.Tag
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("%s (element %q)", msgStructure, e.Key)
}

// Labels points at the enclosing row.
func (e *StructureError) Labels() []value.Label {
	return []value.Label{{Tag: e.Tag, Text: labelStructure}}
}

// EncodingError reports output bytes that are not valid UTF-8.
type EncodingError struct {
	// Offset is the byte offset of the first invalid sequence.
	Offset int
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%s (invalid byte at offset %d)", msgEncoding, e.Offset)
}

// MarkupErrorKind classifies writer guard failures.
type MarkupErrorKind uint8

const (
	InvalidElementName MarkupErrorKind = iota
	InvalidAttributeName
	InvalidCharacter
	MismatchedClose
	UnclosedElement
)

func (k MarkupErrorKind) String() string {
	switch k {
	case InvalidElementName:
		return "invalid element name"
	case InvalidAttributeName:
		return "invalid attribute name"
	case InvalidCharacter:
		return "character not allowed in XML"
	case MismatchedClose:
		return "mismatched closing tag"
	case UnclosedElement:
		return "unclosed element"
	default:
		return "markup error"
	}
}

// MarkupError reports an event the writer refused because emitting it
// would break well-formedness.
type MarkupError struct {
	Kind MarkupErrorKind
	// Name is the offending name, or the text containing a bad character.
	Name string
	// Rune is the rejected character for InvalidCharacter.
	Rune rune
	Tag  value.Tag
}

func (e *MarkupError) Error() string {
	if e.Kind == InvalidCharacter {
		return fmt.Sprintf("%s: %U", e.Kind, e.Rune)
	}
	return fmt.Sprintf("%s: %q", e.Kind, e.Name)
}

func (e *MarkupError) Labels() []value.Label {
	return []value.Label{{Tag: e.Tag, Text: e.Kind.String()}}
}

// ConversionError is the per-root error result of Convert. It points at
// both the call site and the root value, and wraps the underlying failure.
type ConversionError struct {
	CallSite value.Tag
	Origin   value.Tag
	Err      error
}

func (e *ConversionError) Error() string {
	return msgConversion
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

func (e *ConversionError) Labels() []value.Label {
	return []value.Label{
		{Tag: e.CallSite, Text: labelConversion},
		{Tag: e.Origin, Text: labelOriginatesAt},
	}
}
