// Package document defines the generic structured document value shared by
// both conversion directions.
//
// A Value is one of Scalar, *Object or Array. Attributes are carried on
// Object.Attrs rather than encoded into keys; the sigil-prefixed key form
// only exists in serialized document text (see internal/codec).
package document

// Reserved keys and prefixes of the serialized document form.
const (
	AttrPrefix     = "@"
	TextKey        = "#text"
	CDataKey       = "#cdata"
	CommentKey     = "#comment"
	AttrGroupKey   = "@attributes"
	DeclarationKey = "?xml"
)

// AttrGroupName is the attribute name under which the explicit strategy
// stores an object's attribute group. Serialized, it reads AttrGroupKey.
const AttrGroupName = "attributes"

// Value is a node of a document tree.
type Value interface {
	value()
}

// Field is a named value. It is used for both object members and attributes.
type Field struct {
	Name  string
	Value Value
}

// Object is an ordered mapping. Attrs holds markup attributes; Fields holds
// every other member, reserved keys included.
type Object struct {
	Attrs  []Field
	Fields []Field
}

func (*Object) value() {}

// Get returns the value of the named field.
func (o *Object) Get(name string) (Value, bool) {
	if i := indexOf(o.Fields, name); i >= 0 {
		return o.Fields[i].Value, true
	}
	return nil, false
}

// Set replaces the named field in place or appends it.
func (o *Object) Set(name string, v Value) {
	if i := indexOf(o.Fields, name); i >= 0 {
		o.Fields[i].Value = v
		return
	}
	o.Fields = append(o.Fields, Field{Name: name, Value: v})
}

// Delete removes the named field and reports whether it was present.
func (o *Object) Delete(name string) bool {
	i := indexOf(o.Fields, name)
	if i < 0 {
		return false
	}
	o.Fields = append(o.Fields[:i:i], o.Fields[i+1:]...)
	return true
}

// Attr returns the value of the named attribute.
func (o *Object) Attr(name string) (Value, bool) {
	if i := indexOf(o.Attrs, name); i >= 0 {
		return o.Attrs[i].Value, true
	}
	return nil, false
}

// SetAttr replaces the named attribute in place or appends it.
func (o *Object) SetAttr(name string, v Value) {
	if i := indexOf(o.Attrs, name); i >= 0 {
		o.Attrs[i].Value = v
		return
	}
	o.Attrs = append(o.Attrs, Field{Name: name, Value: v})
}

// Len returns the number of attributes and fields.
func (o *Object) Len() int { return len(o.Attrs) + len(o.Fields) }

func indexOf(fields []Field, name string) int {
	for i, f := range fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Array is an ordered sequence of values.
type Array []Value

func (Array) value() {}
