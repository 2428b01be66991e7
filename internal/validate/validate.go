// Package validate checks input well-formedness with decoders independent
// of the conversion pipeline.
package validate

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	xjerrors "github.com/KimNorgaard/go-xmljson/errors"
	"github.com/KimNorgaard/go-xmljson/internal/codec"
)

const prefix = "validation failed: "

// Markup checks that text is a well-formed markup document with a single
// root element. text must already be UTF-8; a declared encoding is not
// applied again. Errors are *errors.ParseError.
func Markup(text string) error {
	decoder := xml.NewDecoder(strings.NewReader(text))
	decoder.Strict = true
	decoder.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	depth := 0
	sawRoot := false
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return markupError(decoder, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 && sawRoot {
				return markupError(decoder, fmt.Errorf("unexpected element <%s> after document end", t.Name.Local))
			}
			sawRoot = true
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && !isIgnorableOutsideRoot(string(t)) {
				return markupError(decoder, errors.New("unexpected character data outside root element"))
			}
		}
	}

	if !sawRoot {
		return &xjerrors.ParseError{Message: prefix + "no root element", Line: 1, Column: 1}
	}
	return nil
}

func markupError(decoder *xml.Decoder, err error) error {
	line, column := decoder.InputPos()
	msg := err.Error()
	var serr *xml.SyntaxError
	if errors.As(err, &serr) {
		msg = serr.Msg
		line = serr.Line
	}
	return &xjerrors.ParseError{Message: prefix + msg, Line: line, Column: column}
}

func isIgnorableOutsideRoot(data string) bool {
	for _, r := range data {
		if r == '\uFEFF' {
			continue
		}
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// Document checks that text is valid in the given document syntax. Errors
// are *errors.DocumentError.
func Document(syntax, text string) error {
	c, err := codec.Lookup(syntax)
	if err != nil {
		return &xjerrors.DocumentError{Message: prefix + err.Error()}
	}
	return c.Validate([]byte(text))
}
