package xmljson

import (
	"fmt"

	xjerrors "github.com/KimNorgaard/go-xmljson/errors"
	"github.com/KimNorgaard/go-xmljson/internal/codec"
	"github.com/KimNorgaard/go-xmljson/internal/lexer"
)

// Strategy selects how attributes are laid out in documents.
type Strategy string

const (
	// StrategyCompact places attributes beside child fields as "@name" keys.
	StrategyCompact Strategy = "compact"
	// StrategyExplicit groups each element's attributes under "@attributes".
	StrategyExplicit Strategy = "explicit"
)

// Syntax is the textual syntax of documents.
type Syntax string

const (
	SyntaxJSON Syntax = "json"
	SyntaxYAML Syntax = "yaml"
)

// Config controls a Converter. Every field is significant; New does not
// fill in defaults.
type Config struct {
	// Pretty enables line breaks and indentation in the output.
	Pretty bool
	// Indent is the number of spaces per nesting level when Pretty is set.
	// It must not be negative.
	Indent int
	Strategy Strategy
	// Arrays lists element names that always map to arrays.
	Arrays []string
	// PreserveAttributes keeps attributes and the XML declaration when
	// converting markup to documents.
	PreserveAttributes bool
	// PreserveComments keeps comments in both directions.
	PreserveComments bool
	// Validate checks input well-formedness with an independent decoder
	// before converting.
	Validate bool
	Syntax   Syntax
}

// DefaultConfig returns the configuration used by the command line tool
// when no flags are given.
func DefaultConfig() Config {
	return Config{
		Indent:             2,
		Strategy:           StrategyCompact,
		PreserveAttributes: true,
		Syntax:             SyntaxJSON,
	}
}

func (c Config) validate() error {
	if c.Indent < 0 {
		return &xjerrors.ConfigurationError{Field: "Indent", Message: fmt.Sprintf("must not be negative, got %d", c.Indent)}
	}
	switch c.Strategy {
	case StrategyCompact, StrategyExplicit:
	default:
		return &xjerrors.ConfigurationError{
			Field:   "Strategy",
			Message: fmt.Sprintf("must be %q or %q, got %q", StrategyCompact, StrategyExplicit, c.Strategy),
		}
	}
	if _, err := codec.Lookup(string(c.Syntax)); err != nil {
		return &xjerrors.ConfigurationError{
			Field:   "Syntax",
			Message: fmt.Sprintf("must be %q or %q, got %q", SyntaxJSON, SyntaxYAML, c.Syntax),
		}
	}
	for _, name := range c.Arrays {
		if !lexer.IsName(name) {
			return &xjerrors.ConfigurationError{Field: "Arrays", Message: fmt.Sprintf("contains invalid element name %q", name)}
		}
	}
	return nil
}
