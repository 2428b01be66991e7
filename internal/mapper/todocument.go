package mapper

import (
	"strings"

	"github.com/KimNorgaard/go-xmljson/internal/ast"
	"github.com/KimNorgaard/go-xmljson/internal/document"
)

type treeMapper struct {
	opts   Options
	arrays map[string]struct{}
}

// ToDocument maps a parsed markup document to a document value. The result
// is always an object keyed by the top-level constructs: the declaration
// (when attributes are preserved), preserved comments and the root element.
func ToDocument(doc *ast.Document, opts Options) document.Value {
	m := &treeMapper{opts: opts, arrays: make(map[string]struct{}, len(opts.Arrays))}
	for _, name := range opts.Arrays {
		m.arrays[name] = struct{}{}
	}

	out := &document.Object{}
	if doc.Declaration != nil && opts.PreserveAttributes {
		decl := &document.Object{}
		for _, a := range doc.Declaration.Attrs {
			decl.SetAttr(a.Name, document.Str(a.Value))
		}
		out.Set(document.DeclarationKey, decl)
	}
	for _, n := range doc.Nodes {
		m.addNode(out, n)
	}
	return out
}

// addNode maps a non-text child node into obj.
func (m *treeMapper) addNode(obj *document.Object, n ast.Node) {
	switch n := n.(type) {
	case *ast.Element:
		m.put(obj, n.Name, m.element(n))
	case *ast.CData:
		m.put(obj, document.CDataKey, document.Str(n.Value))
	case *ast.Comment:
		if m.opts.PreserveComments {
			m.put(obj, document.CommentKey, document.Str(n.Value))
		}
	}
}

// put stores v under key, merging repeated keys into an array at the
// position of the first occurrence.
func (m *treeMapper) put(obj *document.Object, key string, v document.Value) {
	existing, ok := obj.Get(key)
	switch {
	case !ok:
		if _, forced := m.arrays[key]; forced {
			obj.Set(key, document.Array{v})
			return
		}
		obj.Set(key, v)
	default:
		// Element values are never arrays, so an array here is a merge group.
		if arr, isArr := existing.(document.Array); isArr {
			obj.Set(key, append(arr, v))
			return
		}
		obj.Set(key, document.Array{existing, v})
	}
}

func (m *treeMapper) element(el *ast.Element) document.Value {
	obj := &document.Object{}
	if m.opts.PreserveAttributes {
		for _, a := range el.Attrs {
			obj.SetAttr(a.Name, m.scalar(a.Value))
		}
	}

	var texts []string
	for _, c := range el.Children {
		if t, ok := c.(*ast.Text); ok {
			texts = append(texts, t.Value)
			continue
		}
		m.addNode(obj, c)
	}

	if obj.Len() == 0 {
		if len(texts) == 0 {
			return document.Str("")
		}
		return m.scalar(strings.Join(texts, " "))
	}
	if len(texts) > 0 {
		obj.Set(document.TextKey, m.scalar(strings.Join(texts, " ")))
	}
	return obj
}

func (m *treeMapper) scalar(s string) document.Scalar {
	if m.opts.ParseValues {
		return document.ParseScalar(s)
	}
	return document.Str(s)
}
