package ast

import (
	"bytes"
	"strings"
)

// Node is the base interface for all markup tree nodes.
type Node interface {
	// Pos returns the line and column where the node starts in the source.
	// Nodes built from a structured document report 0, 0.
	Pos() (line, column int)
	// String returns a compact markup rendering of the node.
	String() string
	node()
}

// Position records where a node starts in the source.
type Position struct {
	Line   int
	Column int
}

// Pos returns the recorded line and column.
func (p Position) Pos() (int, int) { return p.Line, p.Column }

// Attr is a single attribute. Values are kept as written, after entity
// decoding.
type Attr struct {
	Name  string
	Value string
}

// Document is the root of a parsed markup document.
type Document struct {
	// Declaration is the XML declaration, if the source had one.
	Declaration *Declaration
	// Nodes holds the top-level nodes in source order: comments and exactly
	// one *Element.
	Nodes []Node
}

func (d *Document) node() {}

// Pos reports the start of the source.
func (d *Document) Pos() (int, int) { return 1, 1 }

// Root returns the document element, or nil if there is none.
func (d *Document) Root() *Element {
	for _, n := range d.Nodes {
		if el, ok := n.(*Element); ok {
			return el
		}
	}
	return nil
}

// String returns a compact markup rendering of the document.
func (d *Document) String() string {
	var out bytes.Buffer
	if d.Declaration != nil {
		out.WriteString(d.Declaration.String())
	}
	for _, n := range d.Nodes {
		out.WriteString(n.String())
	}
	return out.String()
}

// Declaration is the <?xml ...?> prolog with its pseudo-attributes.
type Declaration struct {
	Position
	Attrs []Attr
}

func (dl *Declaration) node() {}
func (dl *Declaration) String() string {
	var out bytes.Buffer
	out.WriteString("<?xml")
	writeAttrs(&out, dl.Attrs)
	out.WriteString("?>")
	return out.String()
}

// Element is a markup element with its attributes and children.
type Element struct {
	Position
	Name     string
	Attrs    []Attr
	Children []Node
}

func (e *Element) node() {}
func (e *Element) String() string {
	var out bytes.Buffer
	out.WriteString("<" + e.Name)
	writeAttrs(&out, e.Attrs)
	out.WriteString(">")
	for _, c := range e.Children {
		out.WriteString(c.String())
	}
	out.WriteString("</" + e.Name + ">")
	return out.String()
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Text is a run of character data, already trimmed.
type Text struct {
	Position
	Value string
}

func (t *Text) node()          {}
func (t *Text) String() string { return EscapeText(t.Value) }

// Comment is a markup comment.
type Comment struct {
	Position
	Value string
}

func (c *Comment) node()          {}
func (c *Comment) String() string { return "<!--" + c.Value + "-->" }

// CData is a CDATA section, kept verbatim.
type CData struct {
	Position
	Value string
}

func (c *CData) node()          {}
func (c *CData) String() string { return "<![CDATA[" + c.Value + "]]>" }

func writeAttrs(out *bytes.Buffer, attrs []Attr) {
	for _, a := range attrs {
		out.WriteString(" " + a.Name + `="` + EscapeAttr(a.Value) + `"`)
	}
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\t", "&#9;", "\n", "&#10;", "\r", "&#13;",
	)
)

// EscapeText escapes s for use as element content.
func EscapeText(s string) string { return textEscaper.Replace(s) }

// EscapeAttr escapes s for use inside a double-quoted attribute value.
func EscapeAttr(s string) string { return attrEscaper.Replace(s) }
