// Package toxml converts pipeline values into XML text.
//
// A value converts when every row it contains maps element names to
// element descriptors: rows holding exactly an "attributes" row and a
// "children" table. For example the record
//
//	{"note": {"attributes": {"id": 1}, "children": ["hi"]}}
//
// becomes
//
//	<note id="1">hi</note>
//
// Tables are flattened into sibling elements and any other value becomes
// the text content of the enclosing element.
package toxml
