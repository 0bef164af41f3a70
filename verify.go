package toxml

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jacoelho/xsd/pkg/xmltext"
)

var errNoRootElement = errors.New("document has no root element")

// CheckWellFormed parses doc with a conformant XML reader and reports the
// first well-formedness violation, including multiple or missing root
// elements.
func CheckWellFormed(doc string) error {
	dec := xmltext.NewDecoder(strings.NewReader(doc), xmltext.ResolveEntities(true))
	var sawRoot bool
	var tok xmltext.Token
	for {
		err := dec.ReadTokenInto(&tok)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("malformed output: %w", err)
		}
		if tok.Kind == xmltext.KindStartElement {
			sawRoot = true
		}
	}
	if !sawRoot {
		return errNoRootElement
	}
	return nil
}
