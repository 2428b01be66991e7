// Package codec reads and writes document values in their textual syntaxes.
package codec

import (
	"fmt"
	"strings"

	"github.com/KimNorgaard/go-xmljson/internal/document"
)

// maxDepth bounds the nesting of decoded documents.
const maxDepth = 1000

// Options controls how a value is written.
type Options struct {
	Pretty bool
	Indent int
}

// Codec provides syntax-aware marshaling of document values.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v document.Value, opts Options) ([]byte, error)

	// Unmarshal decodes data into a document value. Errors are
	// *errors.DocumentError.
	Unmarshal(data []byte) (document.Value, error)

	// Validate checks that data is syntactically valid without building a
	// document value.
	Validate(data []byte) error
}

var codecs = map[string]Codec{
	"json": JSON{},
	"yaml": YAML{},
}

// Lookup returns the codec registered for a syntax name.
func Lookup(syntax string) (Codec, error) {
	c, ok := codecs[syntax]
	if !ok {
		return nil, fmt.Errorf("unknown document syntax %q", syntax)
	}
	return c, nil
}

// setMember stores a decoded member on obj, routing sigil-prefixed keys to
// the attribute list. The attributes-group key is no exception; the explicit
// strategy looks for it among the attributes.
func setMember(obj *document.Object, key string, v document.Value) {
	if name, ok := strings.CutPrefix(key, document.AttrPrefix); ok {
		obj.SetAttr(name, v)
		return
	}
	obj.Set(key, v)
}

// members returns the serialized key/value pairs of obj: attributes first,
// with the sigil applied, then fields.
func members(obj *document.Object) []document.Field {
	out := make([]document.Field, 0, obj.Len())
	for _, a := range obj.Attrs {
		out = append(out, document.Field{Name: document.AttrPrefix + a.Name, Value: a.Value})
	}
	return append(out, obj.Fields...)
}
