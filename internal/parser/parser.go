package parser

import (
	"fmt"
	"strings"

	xjerrors "github.com/KimNorgaard/go-xmljson/errors"
	"github.com/KimNorgaard/go-xmljson/internal/ast"
	"github.com/KimNorgaard/go-xmljson/internal/lexer"
	"github.com/KimNorgaard/go-xmljson/internal/token"
)

// MaxDepth is the deepest element nesting the parser accepts.
const MaxDepth = 1000

// Parser builds a markup tree from a token stream.
type Parser struct {
	l        *lexer.Lexer
	curToken token.Token

	doc         *ast.Document
	stack       []*ast.Element
	seenContent bool
}

// New creates a new parser.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.nextToken()
	return p
}

// ParseString parses a complete markup document held in a string.
func ParseString(text string) (*ast.Document, error) {
	return New(lexer.New(strings.NewReader(text))).Parse()
}

// Parse parses the document. It stops at the first error, which is always a
// *errors.ParseError.
func (p *Parser) Parse() (*ast.Document, error) {
	p.doc = &ast.Document{}
	for ; ; p.nextToken() {
		if p.curTokenIs(token.EOF) {
			return p.finish()
		}
		if err := p.parseToken(); err != nil {
			return nil, err
		}
	}
}

func (p *Parser) nextToken() {
	p.curToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

func (p *Parser) parseToken() error {
	tok := p.curToken
	if tok.Type == token.TEXT && strings.TrimSpace(tok.Literal) == "" {
		// Whitespace-only text never produces a node, but it still rules
		// out a declaration after it.
		p.seenContent = true
		return nil
	}
	defer func() { p.seenContent = true }()

	switch tok.Type {
	case token.ILLEGAL:
		return p.errorf(tok.Line, tok.Column, "%s", tok.Literal)
	case token.DECL:
		return p.parseDeclaration()
	case token.PI:
		return nil
	case token.DOCTYPE:
		if p.doc.Root() != nil {
			return p.errorf(tok.Line, tok.Column, "DOCTYPE must precede the root element")
		}
		return nil
	case token.COMMENT:
		p.appendNode(&ast.Comment{Position: position(tok), Value: tok.Literal})
		return nil
	case token.TEXT:
		if len(p.stack) == 0 {
			return p.errorf(tok.Line, tok.Column, "text is not allowed outside the root element")
		}
		p.appendNode(&ast.Text{Position: position(tok), Value: strings.TrimSpace(tok.Literal)})
		return nil
	case token.CDATA:
		if len(p.stack) == 0 {
			return p.errorf(tok.Line, tok.Column, "CDATA section is not allowed outside the root element")
		}
		p.appendNode(&ast.CData{Position: position(tok), Value: tok.Literal})
		return nil
	case token.START_TAG, token.EMPTY_TAG:
		return p.parseStartTag()
	case token.END_TAG:
		return p.parseEndTag()
	default:
		return p.errorf(tok.Line, tok.Column, "unexpected token %s", tok.Type)
	}
}

func (p *Parser) parseDeclaration() error {
	tok := p.curToken
	if p.seenContent || p.doc.Declaration != nil {
		return p.errorf(tok.Line, tok.Column, "XML declaration is only allowed at the start of the document")
	}
	attrs, err := p.parseAttrs("<?xml?>")
	if err != nil {
		return err
	}
	p.doc.Declaration = &ast.Declaration{Position: position(tok), Attrs: attrs}
	return nil
}

func (p *Parser) parseStartTag() error {
	tok := p.curToken
	if len(p.stack) == 0 && p.doc.Root() != nil {
		return p.errorf(tok.Line, tok.Column, "multiple root elements: <%s> follows the document element", tok.Literal)
	}
	if len(p.stack) >= MaxDepth {
		return p.errorf(tok.Line, tok.Column, "maximum nesting depth of %d exceeded", MaxDepth)
	}

	attrs, err := p.parseAttrs("<" + tok.Literal + ">")
	if err != nil {
		return err
	}
	el := &ast.Element{Position: position(tok), Name: tok.Literal, Attrs: attrs}
	p.appendNode(el)
	if tok.Type == token.START_TAG {
		p.stack = append(p.stack, el)
	}
	return nil
}

func (p *Parser) parseEndTag() error {
	tok := p.curToken
	if len(p.stack) == 0 {
		return p.errorf(tok.Line, tok.Column, "unexpected closing tag </%s>", tok.Literal)
	}
	open := p.stack[len(p.stack)-1]
	if open.Name != tok.Literal {
		return p.errorf(tok.Line, tok.Column, "mismatched closing tag </%s>, expected </%s>", tok.Literal, open.Name)
	}
	p.stack = p.stack[:len(p.stack)-1]
	return nil
}

func (p *Parser) parseAttrs(owner string) ([]ast.Attr, error) {
	if len(p.curToken.Attrs) == 0 {
		return nil, nil
	}
	attrs := make([]ast.Attr, 0, len(p.curToken.Attrs))
	seen := make(map[string]bool, len(p.curToken.Attrs))
	for _, a := range p.curToken.Attrs {
		if seen[a.Name] {
			return nil, p.errorf(a.Line, a.Column, "duplicate attribute %q in %s", a.Name, owner)
		}
		seen[a.Name] = true
		attrs = append(attrs, ast.Attr{Name: a.Name, Value: a.Value})
	}
	return attrs, nil
}

func (p *Parser) appendNode(n ast.Node) {
	if len(p.stack) == 0 {
		p.doc.Nodes = append(p.doc.Nodes, n)
		return
	}
	parent := p.stack[len(p.stack)-1]
	parent.Children = append(parent.Children, n)
}

func (p *Parser) finish() (*ast.Document, error) {
	if len(p.stack) > 0 {
		open := p.stack[len(p.stack)-1]
		return nil, p.errorf(open.Line, open.Column, "unclosed element <%s>", open.Name)
	}
	if p.doc.Root() == nil {
		return nil, p.errorf(p.curToken.Line, p.curToken.Column, "no root element")
	}
	return p.doc, nil
}

func (p *Parser) errorf(line, column int, format string, args ...any) error {
	return &xjerrors.ParseError{
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Column:  column,
	}
}

func position(tok token.Token) ast.Position {
	return ast.Position{Line: tok.Line, Column: tok.Column}
}
