package lexer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/KimNorgaard/go-xmljson/internal/token"
)

// Lexer holds the state for tokenizing markup source.
type Lexer struct {
	r      *bufio.Reader
	buf    bytes.Buffer
	ch     rune
	size   int
	line   int
	column int
}

// New creates and returns a new Lexer. A leading byte order mark is skipped.
func New(r io.Reader) *Lexer {
	l := &Lexer{
		r:      bufio.NewReader(r),
		line:   1,
		column: 1,
	}
	l.readRune()
	if l.ch == '\uFEFF' {
		l.readRune()
	}
	return l
}

// NextToken scans the input and returns the next token. Once an ILLEGAL or
// EOF token has been returned the lexer must not be used further.
func (l *Lexer) NextToken() token.Token {
	tok := token.Token{Line: l.line, Column: l.column}
	switch {
	case l.ch == -1:
		tok.Type = token.EOF
		return tok
	case l.ch == '<':
		return l.readMarkup(tok)
	default:
		return l.readText(tok)
	}
}

func (l *Lexer) readRune() {
	r, size, err := l.r.ReadRune()
	if err != nil {
		l.ch = -1
		l.size = 0
		return
	}
	l.ch = r
	l.size = size
}

func (l *Lexer) advance() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	l.readRune()
	l.column++
}

func (l *Lexer) skip(n int) {
	for range n {
		l.advance()
	}
}

func (l *Lexer) skipWhitespace() bool {
	skipped := false
	for isSpace(l.ch) {
		l.advance()
		skipped = true
	}
	return skipped
}

// lookingAt reports whether the input at the current rune starts with s.
// s must be ASCII.
func (l *Lexer) lookingAt(s string) bool {
	if l.ch != rune(s[0]) {
		return false
	}
	if len(s) == 1 {
		return true
	}
	b, _ := l.r.Peek(len(s) - 1)
	return string(b) == s[1:]
}

func (l *Lexer) peekRune() rune {
	// Prioritize the returned slice, as Peek can return both bytes and an error
	b, _ := l.r.Peek(utf8.UTFMax)
	if len(b) == 0 {
		return 0
	}
	r, _ := utf8.DecodeRune(b)
	return r
}

// illegal returns an ILLEGAL token positioned at the current rune.
func (l *Lexer) illegal(format string, args ...any) token.Token {
	return token.Token{
		Type:    token.ILLEGAL,
		Literal: fmt.Sprintf(format, args...),
		Line:    l.line,
		Column:  l.column,
	}
}

// illegalAt returns an ILLEGAL token positioned at the start of tok.
func illegalAt(tok token.Token, format string, args ...any) token.Token {
	tok.Type = token.ILLEGAL
	tok.Literal = fmt.Sprintf(format, args...)
	tok.Attrs = nil
	return tok
}

// checkChar returns a non-empty message when the current rune may not
// appear in a document.
func (l *Lexer) checkChar() string {
	// A decoded U+FFFD is three bytes wide; a one-byte RuneError is a bad
	// encoding.
	if l.ch == utf8.RuneError && l.size == 1 {
		return "invalid utf-8"
	}
	if !isChar(l.ch) {
		return fmt.Sprintf("invalid character U+%04X", l.ch)
	}
	return ""
}

// consume writes the current rune to the buffer with line endings
// normalized to '\n' and advances.
func (l *Lexer) consume() {
	if l.ch == '\r' {
		if l.peekRune() == '\n' {
			l.advance()
		}
		l.buf.WriteByte('\n')
		l.advance()
		return
	}
	l.buf.WriteRune(l.ch)
	l.advance()
}

func (l *Lexer) readMarkup(tok token.Token) token.Token {
	switch {
	case l.lookingAt("<!--"):
		return l.readComment(tok)
	case l.lookingAt("<![CDATA["):
		return l.readCData(tok)
	case l.lookingAt("<!DOCTYPE"):
		return l.readDoctype(tok)
	case l.lookingAt("<!"):
		return l.illegal("invalid markup declaration")
	case l.lookingAt("<?"):
		return l.readProcInst(tok)
	case l.lookingAt("</"):
		return l.readEndTag(tok)
	default:
		return l.readStartTag(tok)
	}
}

func (l *Lexer) readText(tok token.Token) token.Token {
	l.buf.Reset()
	for l.ch != '<' && l.ch != -1 {
		if l.ch == '&' {
			if msg := l.readReference(); msg != "" {
				return l.illegal("%s", msg)
			}
			continue
		}
		if l.lookingAt("]]>") {
			return l.illegal("']]>' is not allowed in text")
		}
		if msg := l.checkChar(); msg != "" {
			return l.illegal("%s", msg)
		}
		l.consume()
	}
	tok.Type = token.TEXT
	tok.Literal = l.buf.String()
	return tok
}

func (l *Lexer) readComment(tok token.Token) token.Token {
	l.skip(4) // consume '<!--'
	l.buf.Reset()
	for {
		if l.ch == -1 {
			return illegalAt(tok, "unterminated comment")
		}
		if l.lookingAt("--") {
			if l.lookingAt("-->") {
				l.skip(3)
				tok.Type = token.COMMENT
				tok.Literal = l.buf.String()
				return tok
			}
			return l.illegal("'--' is not allowed inside a comment")
		}
		if msg := l.checkChar(); msg != "" {
			return l.illegal("%s in comment", msg)
		}
		l.consume()
	}
}

func (l *Lexer) readCData(tok token.Token) token.Token {
	l.skip(9) // consume '<![CDATA['
	l.buf.Reset()
	for {
		if l.ch == -1 {
			return illegalAt(tok, "unterminated CDATA section")
		}
		if l.lookingAt("]]>") {
			l.skip(3)
			tok.Type = token.CDATA
			tok.Literal = l.buf.String()
			return tok
		}
		if msg := l.checkChar(); msg != "" {
			return l.illegal("%s in CDATA section", msg)
		}
		l.consume()
	}
}

// readDoctype skips a document type declaration, including an internal
// subset. Nothing inside it is interpreted.
func (l *Lexer) readDoctype(tok token.Token) token.Token {
	l.skip(9) // consume '<!DOCTYPE'
	var quote rune
	inSubset := false
	for {
		switch {
		case l.ch == -1:
			return illegalAt(tok, "unterminated DOCTYPE declaration")
		case quote != 0:
			if l.ch == quote {
				quote = 0
			}
		case l.ch == '"' || l.ch == '\'':
			quote = l.ch
		case l.ch == '[':
			inSubset = true
		case l.ch == ']':
			inSubset = false
		case l.ch == '>' && !inSubset:
			l.advance()
			tok.Type = token.DOCTYPE
			return tok
		}
		l.advance()
	}
}

func (l *Lexer) readProcInst(tok token.Token) token.Token {
	l.skip(2) // consume '<?'
	target := l.readName()
	if target == "" {
		return l.illegal("missing processing instruction target")
	}
	tok.Literal = target
	if token.LookupTarget(target) == token.DECL {
		return l.readDeclaration(tok)
	}
	for {
		if l.ch == -1 {
			return illegalAt(tok, "unterminated processing instruction <?%s", target)
		}
		if l.lookingAt("?>") {
			l.skip(2)
			tok.Type = token.PI
			return tok
		}
		if msg := l.checkChar(); msg != "" {
			return l.illegal("%s in processing instruction", msg)
		}
		l.advance()
	}
}

func (l *Lexer) readDeclaration(tok token.Token) token.Token {
	for {
		hadSpace := l.skipWhitespace()
		if l.lookingAt("?>") {
			l.skip(2)
			tok.Type = token.DECL
			return tok
		}
		if l.ch == -1 {
			return illegalAt(tok, "unterminated XML declaration")
		}
		if !hadSpace {
			return l.illegal("expected whitespace in XML declaration")
		}
		attr, errTok, ok := l.readAttr()
		if !ok {
			return errTok
		}
		tok.Attrs = append(tok.Attrs, attr)
	}
}

func (l *Lexer) readEndTag(tok token.Token) token.Token {
	l.skip(2) // consume '</'
	name := l.readName()
	if name == "" {
		return l.illegal("invalid end tag")
	}
	l.skipWhitespace()
	if l.ch != '>' {
		return l.illegal("expected '>' to close end tag </%s", name)
	}
	l.advance()
	tok.Type = token.END_TAG
	tok.Literal = name
	return tok
}

func (l *Lexer) readStartTag(tok token.Token) token.Token {
	l.advance() // consume '<'
	name := l.readName()
	if name == "" {
		return l.illegal("invalid element name")
	}
	tok.Literal = name
	for {
		hadSpace := l.skipWhitespace()
		switch {
		case l.ch == '>':
			l.advance()
			tok.Type = token.START_TAG
			return tok
		case l.lookingAt("/>"):
			l.skip(2)
			tok.Type = token.EMPTY_TAG
			return tok
		case l.ch == -1:
			return illegalAt(tok, "unterminated start tag <%s", name)
		case !hadSpace:
			return l.illegal("expected whitespace before attribute in <%s>", name)
		}
		attr, errTok, ok := l.readAttr()
		if !ok {
			return errTok
		}
		tok.Attrs = append(tok.Attrs, attr)
	}
}

func (l *Lexer) readAttr() (token.Attr, token.Token, bool) {
	attr := token.Attr{Line: l.line, Column: l.column}
	attr.Name = l.readName()
	if attr.Name == "" {
		if msg := l.checkChar(); msg != "" {
			return attr, l.illegal("%s in tag", msg), false
		}
		return attr, l.illegal("unexpected %q in tag", l.ch), false
	}
	l.skipWhitespace()
	if l.ch != '=' {
		return attr, l.illegal("attribute %q has no value", attr.Name), false
	}
	l.advance()
	l.skipWhitespace()
	quote := l.ch
	if quote != '"' && quote != '\'' {
		return attr, l.illegal("value of attribute %q must be quoted", attr.Name), false
	}
	l.advance()
	l.buf.Reset()
	for l.ch != quote {
		switch {
		case l.ch == -1:
			return attr, l.illegal("unterminated value for attribute %q", attr.Name), false
		case l.ch == '<':
			return attr, l.illegal("'<' is not allowed in value of attribute %q", attr.Name), false
		case l.ch == '&':
			if msg := l.readReference(); msg != "" {
				return attr, l.illegal("%s", msg), false
			}
		case isSpace(l.ch):
			// Attribute value normalization turns literal whitespace into spaces.
			if l.ch == '\r' && l.peekRune() == '\n' {
				l.advance()
			}
			l.buf.WriteByte(' ')
			l.advance()
		default:
			if msg := l.checkChar(); msg != "" {
				return attr, l.illegal("%s in value of attribute %q", msg, attr.Name), false
			}
			l.buf.WriteRune(l.ch)
			l.advance()
		}
	}
	l.advance() // consume closing quote
	attr.Value = l.buf.String()
	return attr, token.Token{}, true
}

func (l *Lexer) readName() string {
	if !isNameStartChar(l.ch) {
		return ""
	}
	var sb strings.Builder
	for isNameChar(l.ch) {
		sb.WriteRune(l.ch)
		l.advance()
	}
	return sb.String()
}

// readReference decodes an entity or character reference starting at '&'
// into the buffer. It returns an error message on failure.
func (l *Lexer) readReference() string {
	l.advance() // consume '&'
	var sb strings.Builder
	for l.ch != ';' {
		if l.ch == -1 || l.ch == '<' || l.ch == '&' || isSpace(l.ch) {
			return "unterminated entity reference"
		}
		sb.WriteRune(l.ch)
		l.advance()
	}
	l.advance() // consume ';'
	ref := sb.String()

	if num, ok := strings.CutPrefix(ref, "#"); ok {
		base := 10
		if hex, ok := strings.CutPrefix(num, "x"); ok {
			num, base = hex, 16
		}
		v, err := strconv.ParseUint(num, base, 32)
		if err != nil || !isChar(rune(v)) {
			return fmt.Sprintf("invalid character reference &%s;", ref)
		}
		l.buf.WriteRune(rune(v))
		return ""
	}

	r, ok := entities[ref]
	if !ok {
		return fmt.Sprintf("undefined entity &%s;", ref)
	}
	l.buf.WriteRune(r)
	return ""
}

var entities = map[string]rune{
	"lt":   '<',
	"gt":   '>',
	"amp":  '&',
	"quot": '"',
	"apos": '\'',
}

// IsName reports whether s is a valid XML name.
func IsName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !isNameStartChar(r) {
			return false
		}
		if !isNameChar(r) {
			return false
		}
	}
	return true
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isChar(ch rune) bool {
	switch {
	case ch == 0x9 || ch == 0xA || ch == 0xD:
		return true
	case 0x20 <= ch && ch <= 0xD7FF:
		return true
	case 0xE000 <= ch && ch <= 0xFFFD:
		return true
	case 0x10000 <= ch && ch <= 0x10FFFF:
		return true
	}
	return false
}

func isNameStartChar(ch rune) bool {
	switch {
	case ch == ':' || ch == '_' || ('A' <= ch && ch <= 'Z') || ('a' <= ch && ch <= 'z'):
		return true
	case 0xC0 <= ch && ch <= 0xD6, 0xD8 <= ch && ch <= 0xF6, 0xF8 <= ch && ch <= 0x2FF,
		0x370 <= ch && ch <= 0x37D, 0x37F <= ch && ch <= 0x1FFF, 0x200C <= ch && ch <= 0x200D,
		0x2070 <= ch && ch <= 0x218F, 0x2C00 <= ch && ch <= 0x2FEF, 0x3001 <= ch && ch <= 0xD7FF,
		0xF900 <= ch && ch <= 0xFDCF, 0xFDF0 <= ch && ch <= 0xFFFD, 0x10000 <= ch && ch <= 0xEFFFF:
		return true
	}
	return false
}

func isNameChar(ch rune) bool {
	return isNameStartChar(ch) ||
		ch == '-' || ch == '.' || ('0' <= ch && ch <= '9') || ch == 0xB7 ||
		(0x0300 <= ch && ch <= 0x036F) || (0x203F <= ch && ch <= 0x2040)
}
