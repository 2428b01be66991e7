// Package mapper maps between markup trees and document values.
//
// ToDocument folds an *ast.Document into a document.Value: repeated sibling
// elements collapse into arrays, text-only elements collapse into scalars
// and reserved keys carry text, CDATA and comments. ToTree is its structural
// inverse.
package mapper

import (
	"fmt"

	"github.com/KimNorgaard/go-xmljson/internal/document"
)

// Options controls both mapping directions.
type Options struct {
	// Arrays lists element names that always map to an array, even for a
	// single occurrence.
	Arrays []string
	// PreserveAttributes keeps attributes and the XML declaration when
	// mapping to a document. Attributes present in a document are always
	// mapped back to markup.
	PreserveAttributes bool
	// PreserveComments keeps comments in both directions.
	PreserveComments bool
	// ParseValues coerces text and attribute values into numbers and
	// booleans.
	ParseValues bool
}

// describe names the shape of v for error messages.
func describe(v document.Value) string {
	switch n := v.(type) {
	case *document.Object:
		return "an object"
	case document.Array:
		return "an array"
	case document.Scalar:
		return "a " + n.Kind.String()
	default:
		return fmt.Sprintf("%T", v)
	}
}
