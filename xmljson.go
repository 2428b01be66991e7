package xmljson

import (
	"fmt"
	"slices"
	"strings"

	"github.com/KimNorgaard/go-xmljson/internal/charset"
	"github.com/KimNorgaard/go-xmljson/internal/codec"
	"github.com/KimNorgaard/go-xmljson/internal/document"
	"github.com/KimNorgaard/go-xmljson/internal/formatter"
	"github.com/KimNorgaard/go-xmljson/internal/mapper"
	"github.com/KimNorgaard/go-xmljson/internal/parser"
	"github.com/KimNorgaard/go-xmljson/internal/strategy"
	"github.com/KimNorgaard/go-xmljson/internal/validate"
)

// Reserved keys of the document form.
const (
	AttrPrefix     = document.AttrPrefix
	TextKey        = document.TextKey
	CDataKey       = document.CDataKey
	CommentKey     = document.CommentKey
	AttrGroupKey   = document.AttrGroupKey
	DeclarationKey = document.DeclarationKey
)

// Format is the detected format of an input text.
type Format int

const (
	FormatUnknown Format = iota
	FormatMarkup
	FormatDocument
)

func (f Format) String() string {
	switch f {
	case FormatMarkup:
		return "markup"
	case FormatDocument:
		return "document"
	default:
		return "unknown"
	}
}

// DetectFormat classifies text by its first and last non-space characters:
// markup starts with '<' and contains '>', a document starts with '{' or
// '[' and ends with '}' or ']'.
func DetectFormat(text string) Format {
	t := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(t, "<") && strings.Contains(t, ">"):
		return FormatMarkup
	case (strings.HasPrefix(t, "{") || strings.HasPrefix(t, "[")) &&
		(strings.HasSuffix(t, "}") || strings.HasSuffix(t, "]")):
		return FormatDocument
	default:
		return FormatUnknown
	}
}

// Result is the outcome of a conversion. A successful result carries the
// output text; a failed one carries the error.
type Result struct {
	Success bool
	Output  string
	Err     error
}

// Message returns the human-readable description of a failure, or "" on
// success.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

func result(out string, err error) Result {
	if err != nil {
		return Result{Err: err}
	}
	return Result{Success: true, Output: out}
}

// Converter converts between markup and documents. It holds no state
// besides its configuration and is safe for concurrent use.
type Converter struct {
	cfg     Config
	codec   codec.Codec
	mapOpts mapper.Options
}

// New returns a Converter for cfg. It returns an *errors.ConfigurationError
// if cfg is invalid.
func New(cfg Config) (*Converter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.Arrays = slices.Clone(cfg.Arrays)
	c, err := codec.Lookup(string(cfg.Syntax))
	if err != nil {
		return nil, err
	}
	return &Converter{
		cfg:   cfg,
		codec: c,
		mapOpts: mapper.Options{
			Arrays:             cfg.Arrays,
			PreserveAttributes: cfg.PreserveAttributes,
			PreserveComments:   cfg.PreserveComments,
			ParseValues:        true,
		},
	}, nil
}

// Config returns a copy of the converter's configuration.
func (c *Converter) Config() Config {
	cfg := c.cfg
	cfg.Arrays = slices.Clone(cfg.Arrays)
	return cfg
}

// DetectFormat classifies text like the package-level DetectFormat. With
// the YAML syntax any non-empty text that is not markup is a document.
func (c *Converter) DetectFormat(text string) Format {
	f := DetectFormat(text)
	if f == FormatUnknown && c.cfg.Syntax == SyntaxYAML && strings.TrimSpace(text) != "" {
		return FormatDocument
	}
	return f
}

// Convert detects the format of text and converts it to the other one.
func (c *Converter) Convert(text string) Result {
	switch c.DetectFormat(text) {
	case FormatMarkup:
		return c.ConvertMarkupToDocument(text)
	case FormatDocument:
		return c.ConvertDocumentToMarkup(text)
	default:
		return Result{Err: ErrUnknownFormat}
	}
}

// ConvertBytes decodes raw input to UTF-8, honoring byte order marks and
// the encoding named in an XML declaration, and converts it like Convert.
func (c *Converter) ConvertBytes(data []byte) (res Result) {
	defer recoverResult(&res)
	text, err := charset.ToUTF8(data)
	if err != nil {
		return Result{Err: err}
	}
	return c.Convert(text)
}

// ConvertMarkupToDocument converts markup text to document text.
func (c *Converter) ConvertMarkupToDocument(text string) (res Result) {
	defer recoverResult(&res)
	return result(c.markupToDocument(text))
}

// ConvertDocumentToMarkup converts document text to markup text.
func (c *Converter) ConvertDocumentToMarkup(text string) (res Result) {
	defer recoverResult(&res)
	return result(c.documentToMarkup(text))
}

func (c *Converter) markupToDocument(text string) (string, error) {
	if c.cfg.Validate {
		if err := validate.Markup(text); err != nil {
			return "", err
		}
	}
	tree, err := parser.ParseString(text)
	if err != nil {
		return "", err
	}

	v := mapper.ToDocument(tree, c.mapOpts)
	if c.cfg.Strategy == StrategyExplicit {
		v = strategy.ToExplicit(v)
	}

	out, err := c.codec.Marshal(v, codec.Options{Pretty: c.cfg.Pretty, Indent: c.cfg.Indent})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (c *Converter) documentToMarkup(text string) (string, error) {
	if c.cfg.Validate {
		if err := validate.Document(string(c.cfg.Syntax), text); err != nil {
			return "", err
		}
	}
	v, err := c.codec.Unmarshal([]byte(text))
	if err != nil {
		return "", err
	}
	if c.cfg.Strategy == StrategyExplicit {
		v = strategy.FromExplicit(v)
	}

	tree, err := mapper.ToTree(v, c.mapOpts)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := formatter.New(&buf, c.cfg.Pretty, c.cfg.Indent).Format(tree); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func recoverResult(res *Result) {
	if r := recover(); r != nil {
		*res = Result{Err: fmt.Errorf("xmljson: internal error: %v", r)}
	}
}
