package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/KimNorgaard/go-xmljson/internal/ast"
)

// Formatter writes a markup tree to an output stream.
type Formatter struct {
	w       io.Writer
	indent  string
	newline string
	depth   int
}

// New returns a new formatter that writes to w. When pretty is set every
// element with element or comment children is laid out across lines, each
// nesting level indented by indent spaces, and the output ends with a
// newline. Otherwise no whitespace is inserted.
func New(w io.Writer, pretty bool, indent int) *Formatter {
	f := &Formatter{w: w}
	if pretty {
		f.newline = "\n"
		if indent > 0 {
			f.indent = strings.Repeat(" ", indent)
		}
	}
	return f
}

// Format writes the markup representation of node to the writer.
func (f *Formatter) Format(node ast.Node) error {
	return f.writeNode(node)
}

func (f *Formatter) write(s string) error {
	_, err := io.WriteString(f.w, s)
	return err
}

func (f *Formatter) writeIndent() error {
	if f.indent == "" {
		return nil
	}
	for i := 0; i < f.depth; i++ {
		if err := f.write(f.indent); err != nil {
			return err
		}
	}
	return nil
}

func (f *Formatter) writeNode(node ast.Node) error {
	switch n := node.(type) {
	case *ast.Document:
		if n.Declaration != nil {
			if err := f.writeNode(n.Declaration); err != nil {
				return err
			}
			if err := f.write(f.newline); err != nil {
				return err
			}
		}
		for _, c := range n.Nodes {
			if err := f.writeNode(c); err != nil {
				return err
			}
			if err := f.write(f.newline); err != nil {
				return err
			}
		}
		return nil

	case *ast.Declaration:
		if err := f.write("<?xml"); err != nil {
			return err
		}
		if err := f.writeAttrs(n.Attrs); err != nil {
			return err
		}
		return f.write("?>")

	case *ast.Element:
		return f.writeElement(n)

	case *ast.Text:
		return f.write(ast.EscapeText(n.Value))

	case *ast.CData:
		return f.write("<![CDATA[" + strings.ReplaceAll(n.Value, "]]>", "]]]]><![CDATA[>") + "]]>")

	case *ast.Comment:
		return f.write("<!--" + sanitizeComment(n.Value) + "-->")

	default:
		return fmt.Errorf("xmljson: unsupported node type for formatting: %T", n)
	}
}

func (f *Formatter) writeElement(el *ast.Element) error {
	if err := f.write("<" + el.Name); err != nil {
		return err
	}
	if err := f.writeAttrs(el.Attrs); err != nil {
		return err
	}
	if err := f.write(">"); err != nil {
		return err
	}

	if inline(el) {
		for _, c := range el.Children {
			if err := f.writeNode(c); err != nil {
				return err
			}
		}
		return f.write("</" + el.Name + ">")
	}

	f.depth++
	for _, c := range el.Children {
		if err := f.write(f.newline); err != nil {
			return err
		}
		if err := f.writeIndent(); err != nil {
			return err
		}
		if err := f.writeNode(c); err != nil {
			return err
		}
	}
	f.depth--
	if err := f.write(f.newline); err != nil {
		return err
	}
	if err := f.writeIndent(); err != nil {
		return err
	}
	return f.write("</" + el.Name + ">")
}

func (f *Formatter) writeAttrs(attrs []ast.Attr) error {
	for _, a := range attrs {
		if err := f.write(" " + a.Name + `="` + ast.EscapeAttr(a.Value) + `"`); err != nil {
			return err
		}
	}
	return nil
}

// inline reports whether el holds only character data and so stays on one
// line.
func inline(el *ast.Element) bool {
	for _, c := range el.Children {
		switch c.(type) {
		case *ast.Text, *ast.CData:
		default:
			return false
		}
	}
	return true
}

// sanitizeComment keeps comment text well-formed: no "--" and no trailing
// "-".
func sanitizeComment(s string) string {
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "- -")
	}
	if strings.HasSuffix(s, "-") {
		s += " "
	}
	return s
}
