package toxml

import (
	"errors"

	"github.com/speakeasy-api/toxml/value"
)

// Serialize writes root to w depth first.
//
// Every entry of a row must be an element descriptor; the entry key
// becomes the element name. Tables contribute their items in order with no
// enclosing element. Any other value is written as text.
func Serialize(root value.Value, w *Writer) error {
	switch root.Kind {
	case value.KindRow:
		for key, child := range root.Row.All() {
			if !IsElementDescriptor(child) {
				return &StructureError{Key: key, Tag: root.Tag, ChildTag: child.Tag}
			}
			attrs, _ := AttributesOf(child)
			if err := w.Open(key, attrs); err != nil {
				return tagMarkupError(err, child.Tag)
			}
			if children, ok := ChildrenOf(child); ok {
				for _, c := range children {
					if err := Serialize(c, w); err != nil {
						return err
					}
				}
			}
			if err := w.Close(key); err != nil {
				return tagMarkupError(err, child.Tag)
			}
		}
		return nil

	case value.KindTable:
		for _, item := range root.Table {
			if err := Serialize(item, w); err != nil {
				return err
			}
		}
		return nil

	default:
		if err := w.Text(root.DisplayString()); err != nil {
			return tagMarkupError(err, root.Tag)
		}
		return nil
	}
}

// Marshal serializes root into a standalone document, indenting by *indent
// spaces per level when indent is non-nil.
func Marshal(root value.Value, indent *int) (string, error) {
	w := NewWriter(indent)
	if err := Serialize(root, w); err != nil {
		return "", err
	}
	return w.Finish()
}

func tagMarkupError(err error, tag value.Tag) error {
	var me *MarkupError
	if errors.As(err, &me) && me.Tag.IsUnknown() {
		me.Tag = tag
	}
	return err
}
