/*
Package xmljson converts between XML markup and structured documents (JSON or
YAML) in both directions.

A Converter is built from a Config and converts whole texts. Every
conversion returns a Result instead of an error so callers can report
failures uniformly:

	c, err := xmljson.New(xmljson.Config{
		Indent:             2,
		Strategy:           xmljson.StrategyCompact,
		PreserveAttributes: true,
		Syntax:             xmljson.SyntaxJSON,
	})
	if err != nil {
		// handle configuration error
	}

	res := c.ConvertMarkupToDocument(`<root id="123"><name>test</name></root>`)
	if !res.Success {
		// res.Message() describes the failure
	}
	// res.Output is {"root":{"@id":123,"name":"test"}}

# Markup to document

Each element becomes a field named after its tag. Sibling elements sharing a
tag collapse into an array, and elements listed in Config.Arrays are always
arrays. Attributes become fields prefixed with "@", text sits under "#text"
when an element also has attributes or children, and an element holding only
text collapses to that text. Text and attribute values that look like JSON
numbers or booleans are converted to them. CDATA sections map to "#cdata"
and, when Config.PreserveComments is set, comments map to "#comment".

With StrategyExplicit an element's attributes are grouped under a single
"@attributes" key instead.

# Document to markup

The inverse mapping needs exactly one root field. Arrays become repeated
sibling elements, "@" fields become attributes and the reserved keys become
text, CDATA and comments. Elements are never self-closed.

Inputs that cannot be converted produce a failure Result whose Err is an
*errors.ParseError (malformed markup, with line and column) or an
*errors.DocumentError (malformed or unmappable documents).
*/
package xmljson
