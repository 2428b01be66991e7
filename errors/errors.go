// Package errors defines the error types returned by the conversion engine.
package errors

import "fmt"

// ParseError describes malformed markup. It includes the position of the
// offending construct.
type ParseError struct {
	Message string
	Line    int
	Column  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("xmljson: parsing error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// DocumentError describes a structured document that cannot be decoded or
// cannot be mapped to markup.
type DocumentError struct {
	Message string
	// Path is the slash separated key path to the offending value, if known.
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Path != "" {
		return fmt.Sprintf("xmljson: document error at %s: %s", e.Path, msg)
	}
	return "xmljson: document error: " + msg
}

func (e *DocumentError) Unwrap() error { return e.Err }

// ConfigurationError reports a configuration value the engine refuses to
// work with.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("xmljson: invalid configuration: %s %s", e.Field, e.Message)
}
