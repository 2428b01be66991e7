package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	xjerrors "github.com/KimNorgaard/go-xmljson/errors"
	"github.com/KimNorgaard/go-xmljson/internal/document"
)

// JSON is the JSON document syntax. Decoding keeps member order and number
// literals; encoding matches the layout of a two-argument JSON.stringify.
type JSON struct{}

// ContentType implements Codec.
func (JSON) ContentType() string { return "application/json" }

// Unmarshal implements Codec.
func (JSON) Unmarshal(data []byte) (document.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	d := &jsonDecoder{dec: dec}

	v, err := d.readValue()
	if err != nil {
		return nil, jsonError(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &xjerrors.DocumentError{Message: fmt.Sprintf("invalid JSON: unexpected data after top-level value at offset %d", dec.InputOffset())}
	}
	return v, nil
}

// Validate implements Codec.
func (JSON) Validate(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return &xjerrors.DocumentError{Message: "validation failed: invalid JSON", Err: err}
	}
	return nil
}

func jsonError(err error) error {
	var derr *xjerrors.DocumentError
	if errors.As(err, &derr) {
		return derr
	}
	return &xjerrors.DocumentError{Message: "invalid JSON", Err: err}
}

type jsonDecoder struct {
	dec   *json.Decoder
	depth int
}

func (d *jsonDecoder) readValue() (document.Value, error) {
	tok, err := d.dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, io.ErrUnexpectedEOF
	}
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return d.readObject()
		case '[':
			return d.readArray()
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t)
	case string:
		return document.Str(t), nil
	case json.Number:
		return document.Num(t.String()), nil
	case bool:
		return document.Boolean(t), nil
	case nil:
		return document.NullValue(), nil
	default:
		return nil, fmt.Errorf("unexpected token %v", t)
	}
}

func (d *jsonDecoder) enter() error {
	d.depth++
	if d.depth > maxDepth {
		return &xjerrors.DocumentError{Message: fmt.Sprintf("maximum nesting depth of %d exceeded", maxDepth)}
	}
	return nil
}

func (d *jsonDecoder) readObject() (document.Value, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()

	obj := &document.Object{}
	for d.dec.More() {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is not a string: %v", tok)
		}
		v, err := d.readValue()
		if err != nil {
			return nil, err
		}
		setMember(obj, key, v)
	}
	if _, err := d.dec.Token(); err != nil { // consume '}'
		return nil, err
	}
	return obj, nil
}

func (d *jsonDecoder) readArray() (document.Value, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()

	arr := document.Array{}
	for d.dec.More() {
		v, err := d.readValue()
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
	if _, err := d.dec.Token(); err != nil { // consume ']'
		return nil, err
	}
	return arr, nil
}

// Marshal implements Codec. Output is indented only when Pretty is set and
// Indent is positive.
func (JSON) Marshal(v document.Value, opts Options) ([]byte, error) {
	w := &jsonWriter{}
	if opts.Pretty && opts.Indent > 0 {
		w.indent = strings.Repeat(" ", opts.Indent)
	}
	if err := w.writeValue(v); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

type jsonWriter struct {
	buf    bytes.Buffer
	indent string
	depth  int
}

func (w *jsonWriter) writeIndent() {
	for i := 0; i < w.depth; i++ {
		w.buf.WriteString(w.indent)
	}
}

func (w *jsonWriter) writeValue(v document.Value) error {
	switch n := v.(type) {
	case *document.Object:
		return w.writeObject(n)
	case document.Array:
		return w.writeArray(n)
	case document.Scalar:
		if n.Kind == document.String {
			w.buf.WriteString(quote(n.Text))
		} else {
			w.buf.WriteString(n.Text)
		}
		return nil
	default:
		return fmt.Errorf("xmljson: unsupported value type for JSON: %T", v)
	}
}

func (w *jsonWriter) writeObject(obj *document.Object) error {
	fields := members(obj)
	if len(fields) == 0 {
		w.buf.WriteString("{}")
		return nil
	}
	w.buf.WriteByte('{')
	w.depth++
	for i, f := range fields {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		w.newline()
		w.buf.WriteString(quote(f.Name))
		w.buf.WriteByte(':')
		if w.indent != "" {
			w.buf.WriteByte(' ')
		}
		if err := w.writeValue(f.Value); err != nil {
			return err
		}
	}
	w.depth--
	w.newline()
	w.buf.WriteByte('}')
	return nil
}

func (w *jsonWriter) writeArray(arr document.Array) error {
	if len(arr) == 0 {
		w.buf.WriteString("[]")
		return nil
	}
	w.buf.WriteByte('[')
	w.depth++
	for i, elem := range arr {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		w.newline()
		if err := w.writeValue(elem); err != nil {
			return err
		}
	}
	w.depth--
	w.newline()
	w.buf.WriteByte(']')
	return nil
}

func (w *jsonWriter) newline() {
	if w.indent == "" {
		return
	}
	w.buf.WriteByte('\n')
	w.writeIndent()
}

// quote returns s as a JSON string literal without HTML escaping.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) // encoding a string cannot fail
	return strings.TrimSuffix(buf.String(), "\n")
}
