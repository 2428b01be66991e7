// Package strategy converts document values between the compact attribute
// layout, where attributes sit beside child fields, and the explicit layout,
// where each object's attributes are grouped under one reserved key.
//
// Both functions are pure: they build new values and never modify their
// input.
package strategy

import "github.com/KimNorgaard/go-xmljson/internal/document"

// ToExplicit moves every object's attributes into a single attribute group,
// serialized first as "@attributes". Objects without attributes gain no
// group.
func ToExplicit(v document.Value) document.Value {
	switch n := v.(type) {
	case *document.Object:
		out := &document.Object{}
		if len(n.Attrs) > 0 {
			group := &document.Object{}
			for _, a := range n.Attrs {
				group.Set(a.Name, a.Value)
			}
			out.SetAttr(document.AttrGroupName, group)
		}
		for _, f := range n.Fields {
			out.Set(f.Name, ToExplicit(f.Value))
		}
		return out
	case document.Array:
		out := make(document.Array, len(n))
		for i, item := range n {
			out[i] = ToExplicit(item)
		}
		return out
	default:
		return v
	}
}

// FromExplicit lifts the entries of every attribute group holding an object
// back into the owning object's attributes. A group that is not an object
// is an ordinary attribute and is kept.
func FromExplicit(v document.Value) document.Value {
	switch n := v.(type) {
	case *document.Object:
		out := &document.Object{}
		for _, a := range n.Attrs {
			if group, ok := a.Value.(*document.Object); ok && a.Name == document.AttrGroupName {
				for _, g := range group.Attrs {
					out.SetAttr(g.Name, g.Value)
				}
				for _, g := range group.Fields {
					out.SetAttr(g.Name, g.Value)
				}
				continue
			}
			out.SetAttr(a.Name, a.Value)
		}
		for _, f := range n.Fields {
			out.Set(f.Name, FromExplicit(f.Value))
		}
		return out
	case document.Array:
		out := make(document.Array, len(n))
		for i, item := range n {
			out[i] = FromExplicit(item)
		}
		return out
	default:
		return v
	}
}
