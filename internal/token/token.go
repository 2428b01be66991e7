package token

// Type is the type of a token.
type Type string

// Attr is a name/value pair read from a start tag or declaration.
type Attr struct {
	Name   string
	Value  string
	Line   int
	Column int
}

// Token represents a lexical token. Markup constructs are emitted whole:
// a START_TAG token carries the tag name in Literal and its attributes in
// Attrs.
type Token struct {
	Type    Type
	Literal string
	Attrs   []Attr
	Line    int
	Column  int
}

const (
	// Special tokens
	ILLEGAL Type = "ILLEGAL" // Literal holds the error message
	EOF     Type = "EOF"

	// Tags
	START_TAG Type = "START_TAG" // <name a="1">
	EMPTY_TAG Type = "EMPTY_TAG" // <name a="1"/>
	END_TAG   Type = "END_TAG"   // </name>

	// Character content
	TEXT  Type = "TEXT"  // entity-decoded, untrimmed
	CDATA Type = "CDATA" // <![CDATA[...]]>, verbatim

	// Markup that does not produce elements
	COMMENT Type = "COMMENT" // <!--...-->
	DECL    Type = "DECL"    // <?xml version="1.0"?>
	PI      Type = "PI"      // <?target data?>
	DOCTYPE Type = "DOCTYPE" // <!DOCTYPE ...>
)

var targets = map[string]Type{
	"xml": DECL,
}

// LookupTarget checks the reserved processing instruction targets.
// If target names the XML declaration, it returns DECL. Otherwise, it
// returns PI.
func LookupTarget(target string) Type {
	if tok, ok := targets[target]; ok {
		return tok
	}
	return PI
}
