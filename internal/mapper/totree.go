package mapper

import (
	"fmt"
	"strings"

	xjerrors "github.com/KimNorgaard/go-xmljson/errors"
	"github.com/KimNorgaard/go-xmljson/internal/ast"
	"github.com/KimNorgaard/go-xmljson/internal/document"
	"github.com/KimNorgaard/go-xmljson/internal/lexer"
)

var errNoRoot = &xjerrors.DocumentError{Message: "markup requires exactly one root element"}

type docMapper struct {
	opts Options
}

// ToTree maps a document value to a markup document. The value must be an
// object with exactly one element key besides the declaration and comment
// keys. Errors are *errors.DocumentError.
func ToTree(v document.Value, opts Options) (*ast.Document, error) {
	top, ok := v.(*document.Object)
	if !ok {
		return nil, &xjerrors.DocumentError{Message: fmt.Sprintf("markup requires exactly one root element, got %s", describe(v))}
	}
	if len(top.Attrs) > 0 {
		return nil, &xjerrors.DocumentError{
			Path:    "/" + document.AttrPrefix + top.Attrs[0].Name,
			Message: "attributes are not allowed outside the root element",
		}
	}

	m := &docMapper{opts: opts}
	doc := &ast.Document{}
	var root *ast.Element
	for _, f := range top.Fields {
		path := "/" + f.Name
		switch f.Name {
		case document.DeclarationKey:
			decl, err := m.declaration(f.Value, path)
			if err != nil {
				return nil, err
			}
			doc.Declaration = decl
		case document.CommentKey:
			if !opts.PreserveComments {
				continue
			}
			nodes, err := m.leaves(f.Value, path, func(s string) ast.Node { return &ast.Comment{Value: s} })
			if err != nil {
				return nil, err
			}
			doc.Nodes = append(doc.Nodes, nodes...)
		case document.TextKey, document.CDataKey:
			return nil, &xjerrors.DocumentError{Path: path, Message: "text is not allowed outside the root element"}
		default:
			els, err := m.elements(f.Name, f.Value, path)
			if err != nil {
				return nil, err
			}
			if root != nil || len(els) != 1 {
				return nil, errNoRoot
			}
			root = els[0]
			doc.Nodes = append(doc.Nodes, root)
		}
	}
	if root == nil {
		return nil, errNoRoot
	}
	return doc, nil
}

// elements maps the value under key name to one element, or to one sibling
// element per item when the value is an array.
func (m *docMapper) elements(name string, v document.Value, path string) ([]*ast.Element, error) {
	if !lexer.IsName(name) {
		return nil, &xjerrors.DocumentError{Path: path, Message: fmt.Sprintf("invalid element name %q", name)}
	}

	arr, ok := v.(document.Array)
	if !ok {
		el, err := m.element(name, v, path)
		if err != nil {
			return nil, err
		}
		return []*ast.Element{el}, nil
	}

	els := make([]*ast.Element, 0, len(arr))
	for i, item := range arr {
		itemPath := fmt.Sprintf("%s/%d", path, i)
		if _, nested := item.(document.Array); nested {
			return nil, &xjerrors.DocumentError{Path: itemPath, Message: "nested arrays cannot be represented as markup"}
		}
		el, err := m.element(name, item, itemPath)
		if err != nil {
			return nil, err
		}
		els = append(els, el)
	}
	return els, nil
}

func (m *docMapper) element(name string, v document.Value, path string) (*ast.Element, error) {
	el := &ast.Element{Name: name}

	switch n := v.(type) {
	case document.Scalar:
		if s := text(n); s != "" {
			el.Children = append(el.Children, &ast.Text{Value: s})
		}
	case *document.Object:
		attrs, err := m.attrs(n.Attrs, path)
		if err != nil {
			return nil, err
		}
		el.Attrs = attrs

		for _, f := range n.Fields {
			fieldPath := path + "/" + f.Name
			var nodes []ast.Node
			switch f.Name {
			case document.TextKey:
				nodes, err = m.leaves(f.Value, fieldPath, func(s string) ast.Node {
					if s == "" {
						return nil
					}
					return &ast.Text{Value: s}
				})
			case document.CDataKey:
				nodes, err = m.leaves(f.Value, fieldPath, func(s string) ast.Node { return &ast.CData{Value: s} })
			case document.CommentKey:
				if !m.opts.PreserveComments {
					continue
				}
				nodes, err = m.leaves(f.Value, fieldPath, func(s string) ast.Node { return &ast.Comment{Value: s} })
			default:
				var els []*ast.Element
				els, err = m.elements(f.Name, f.Value, fieldPath)
				for _, child := range els {
					nodes = append(nodes, child)
				}
			}
			if err != nil {
				return nil, err
			}
			el.Children = append(el.Children, nodes...)
		}
	default:
		return nil, &xjerrors.DocumentError{Path: path, Message: fmt.Sprintf("unsupported value %s", describe(v))}
	}
	return el, nil
}

func (m *docMapper) attrs(fields []document.Field, path string) ([]ast.Attr, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	attrs := make([]ast.Attr, 0, len(fields))
	for _, f := range fields {
		attrPath := path + "/" + document.AttrPrefix + f.Name
		if !lexer.IsName(f.Name) {
			return nil, &xjerrors.DocumentError{Path: attrPath, Message: fmt.Sprintf("invalid attribute name %q", f.Name)}
		}
		s, ok := f.Value.(document.Scalar)
		if !ok {
			return nil, &xjerrors.DocumentError{Path: attrPath, Message: fmt.Sprintf("attribute value must be a scalar, got %s", describe(f.Value))}
		}
		attrs = append(attrs, ast.Attr{Name: f.Name, Value: text(s)})
	}
	return attrs, nil
}

// leaves maps a reserved-key value, a scalar or an array of scalars, to
// nodes built by mk. A nil node from mk is skipped.
func (m *docMapper) leaves(v document.Value, path string, mk func(string) ast.Node) ([]ast.Node, error) {
	var items []document.Value
	if arr, ok := v.(document.Array); ok {
		items = arr
	} else {
		items = []document.Value{v}
	}

	var nodes []ast.Node
	for _, item := range items {
		s, ok := item.(document.Scalar)
		if !ok {
			return nil, &xjerrors.DocumentError{Path: path, Message: fmt.Sprintf("expected a scalar or an array of scalars, got %s", describe(item))}
		}
		if n := mk(text(s)); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

func (m *docMapper) declaration(v document.Value, path string) (*ast.Declaration, error) {
	obj, ok := v.(*document.Object)
	if !ok || len(obj.Fields) > 0 {
		return nil, &xjerrors.DocumentError{Path: path, Message: "declaration must be an object of attributes"}
	}
	attrs, err := m.attrs(obj.Attrs, path)
	if err != nil {
		return nil, err
	}
	for i, a := range attrs {
		// Markup is produced as UTF-8 text whatever the source declared.
		if a.Name == "encoding" && !isUTF8(a.Value) {
			attrs[i].Value = "UTF-8"
		}
	}
	if _, ok := obj.Attr("version"); !ok {
		attrs = append([]ast.Attr{{Name: "version", Value: "1.0"}}, attrs...)
	}
	return &ast.Declaration{Attrs: attrs}, nil
}

func isUTF8(label string) bool {
	return strings.EqualFold(label, "UTF-8") || strings.EqualFold(label, "UTF8")
}

// text renders a scalar as markup text. Null renders as the empty string.
func text(s document.Scalar) string {
	if s.Kind == document.Null {
		return ""
	}
	return s.Text
}
