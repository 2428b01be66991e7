package xmljson_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/KimNorgaard/go-xmljson"
	xjerrors "github.com/KimNorgaard/go-xmljson/errors"
	"github.com/stretchr/testify/require"
)

const sampleMarkup = `<root id="123"><name>test</name></root>`

func newConverter(t *testing.T, modify func(*xmljson.Config)) *xmljson.Converter {
	t.Helper()
	cfg := xmljson.DefaultConfig()
	if modify != nil {
		modify(&cfg)
	}
	c, err := xmljson.New(cfg)
	require.NoError(t, err)
	return c
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected xmljson.Format
	}{
		{"<root/>", xmljson.FormatMarkup},
		{"  \n<a>x</a>\n", xmljson.FormatMarkup},
		{"<a", xmljson.FormatUnknown},
		{`{"a":1}`, xmljson.FormatDocument},
		{" [1, 2] ", xmljson.FormatDocument},
		{"[1}", xmljson.FormatDocument},
		{"{", xmljson.FormatUnknown},
		{"hello", xmljson.FormatUnknown},
		{"", xmljson.FormatUnknown},
		{"a: 1", xmljson.FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.expected, xmljson.DetectFormat(tt.input))
		})
	}
}

func TestConverter_DetectFormatYAML(t *testing.T) {
	c := newConverter(t, func(cfg *xmljson.Config) { cfg.Syntax = xmljson.SyntaxYAML })
	require.Equal(t, xmljson.FormatDocument, c.DetectFormat("a: 1"))
	require.Equal(t, xmljson.FormatMarkup, c.DetectFormat("<a/>"))
	require.Equal(t, xmljson.FormatUnknown, c.DetectFormat("  "))
}

func TestFormat_String(t *testing.T) {
	require.Equal(t, "markup", xmljson.FormatMarkup.String())
	require.Equal(t, "document", xmljson.FormatDocument.String())
	require.Equal(t, "unknown", xmljson.FormatUnknown.String())
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*xmljson.Config)
		field  string
		msg    string
	}{
		{
			name:   "negative indent",
			modify: func(c *xmljson.Config) { c.Indent = -1 },
			field:  "Indent",
			msg:    "xmljson: invalid configuration: Indent must not be negative, got -1",
		},
		{
			name:   "unknown strategy",
			modify: func(c *xmljson.Config) { c.Strategy = "nested" },
			field:  "Strategy",
			msg:    `xmljson: invalid configuration: Strategy must be "compact" or "explicit", got "nested"`,
		},
		{
			name:   "empty strategy",
			modify: func(c *xmljson.Config) { c.Strategy = "" },
			field:  "Strategy",
			msg:    `xmljson: invalid configuration: Strategy must be "compact" or "explicit", got ""`,
		},
		{
			name:   "unknown syntax",
			modify: func(c *xmljson.Config) { c.Syntax = "toml" },
			field:  "Syntax",
			msg:    `xmljson: invalid configuration: Syntax must be "json" or "yaml", got "toml"`,
		},
		{
			name:   "invalid array name",
			modify: func(c *xmljson.Config) { c.Arrays = []string{"item", "1x"} },
			field:  "Arrays",
			msg:    `xmljson: invalid configuration: Arrays contains invalid element name "1x"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := xmljson.DefaultConfig()
			tt.modify(&cfg)
			c, err := xmljson.New(cfg)
			require.Nil(t, c)

			var cerr *xjerrors.ConfigurationError
			require.ErrorAs(t, err, &cerr)
			require.Equal(t, tt.field, cerr.Field)
			require.EqualError(t, err, tt.msg)
		})
	}
}

func TestNew_CopiesConfig(t *testing.T) {
	cfg := xmljson.DefaultConfig()
	cfg.Arrays = []string{"item"}
	c, err := xmljson.New(cfg)
	require.NoError(t, err)

	cfg.Arrays[0] = "other"
	require.Equal(t, []string{"item"}, c.Config().Arrays)

	res := c.ConvertMarkupToDocument(`<root><item>1</item></root>`)
	require.True(t, res.Success, res.Message())
	require.Equal(t, `{"root":{"item":[1]}}`, res.Output)
}

func TestRoundTrip(t *testing.T) {
	c := newConverter(t, nil)

	doc := c.ConvertMarkupToDocument(sampleMarkup)
	require.True(t, doc.Success, doc.Message())
	require.Equal(t, `{"root":{"@id":123,"name":"test"}}`, doc.Output)

	back := c.ConvertDocumentToMarkup(doc.Output)
	require.True(t, back.Success, back.Message())
	require.Contains(t, back.Output, `id="123"`)
	require.Contains(t, back.Output, `<name>test</name>`)
	require.Equal(t, sampleMarkup, back.Output)
}

func TestArrayForcing(t *testing.T) {
	c := newConverter(t, func(cfg *xmljson.Config) { cfg.Arrays = []string{"item"} })

	res := c.ConvertMarkupToDocument(`<root><item>1</item><item>2</item></root>`)
	require.True(t, res.Success, res.Message())
	require.Equal(t, `{"root":{"item":[1,2]}}`, res.Output)

	res = c.ConvertMarkupToDocument(`<root><item>1</item></root>`)
	require.True(t, res.Success, res.Message())
	require.Equal(t, `{"root":{"item":[1]}}`, res.Output)
}

func TestAttributeStripping(t *testing.T) {
	c := newConverter(t, func(cfg *xmljson.Config) { cfg.PreserveAttributes = false })

	res := c.ConvertMarkupToDocument(`<?xml version="1.0"?>` + sampleMarkup)
	require.True(t, res.Success, res.Message())
	require.NotContains(t, res.Output, xmljson.AttrPrefix)
	require.Equal(t, `{"root":{"name":"test"}}`, res.Output)
}

func TestExplicitStrategy(t *testing.T) {
	c := newConverter(t, func(cfg *xmljson.Config) { cfg.Strategy = xmljson.StrategyExplicit })

	doc := c.ConvertMarkupToDocument(sampleMarkup)
	require.True(t, doc.Success, doc.Message())
	require.Equal(t, `{"root":{"@attributes":{"id":123},"name":"test"}}`, doc.Output)

	back := c.ConvertDocumentToMarkup(doc.Output)
	require.True(t, back.Success, back.Message())
	require.Equal(t, sampleMarkup, back.Output)
}

// A text-only element passes through the explicit layout unchanged because
// no empty attribute groups are introduced.
func TestExplicitStrategy_TextOnlyElement(t *testing.T) {
	c := newConverter(t, func(cfg *xmljson.Config) { cfg.Strategy = xmljson.StrategyExplicit })
	const input = `<root><name>test</name></root>`

	doc := c.ConvertMarkupToDocument(input)
	require.True(t, doc.Success, doc.Message())
	require.Equal(t, `{"root":{"name":"test"}}`, doc.Output)

	back := c.ConvertDocumentToMarkup(doc.Output)
	require.True(t, back.Success, back.Message())
	require.Equal(t, input, back.Output)
}

func TestRoundTrip_AttributeNamedAttributes(t *testing.T) {
	const input = `<a attributes="x"><b>1</b></a>`
	tests := []struct {
		strategy xmljson.Strategy
		document string
	}{
		{xmljson.StrategyCompact, `{"a":{"@attributes":"x","b":1}}`},
		{xmljson.StrategyExplicit, `{"a":{"@attributes":{"attributes":"x"},"b":1}}`},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			c := newConverter(t, func(cfg *xmljson.Config) { cfg.Strategy = tt.strategy })

			doc := c.ConvertMarkupToDocument(input)
			require.True(t, doc.Success, doc.Message())
			require.Equal(t, tt.document, doc.Output)

			back := c.ConvertDocumentToMarkup(doc.Output)
			require.True(t, back.Success, back.Message())
			require.Equal(t, input, back.Output)
		})
	}
}

func TestRoundTrip_ReplacementCharacter(t *testing.T) {
	c := newConverter(t, nil)

	doc := c.ConvertMarkupToDocument(`<a>&#xFFFD;</a>`)
	require.True(t, doc.Success, doc.Message())
	require.Equal(t, "{\"a\":\"\uFFFD\"}", doc.Output)

	back := c.ConvertDocumentToMarkup(doc.Output)
	require.True(t, back.Success, back.Message())
	require.Equal(t, "<a>\uFFFD</a>", back.Output)

	again := c.ConvertMarkupToDocument(back.Output)
	require.True(t, again.Success, again.Message())
	require.Equal(t, doc.Output, again.Output)
}

func TestPrettyPrint(t *testing.T) {
	pretty := newConverter(t, func(cfg *xmljson.Config) {
		cfg.Pretty = true
		cfg.Indent = 4
	})
	compact := newConverter(t, nil)

	res := pretty.ConvertMarkupToDocument(sampleMarkup)
	require.True(t, res.Success, res.Message())
	require.Equal(t, "{\n    \"root\": {\n        \"@id\": 123,\n        \"name\": \"test\"\n    }\n}", res.Output)

	res = pretty.ConvertDocumentToMarkup(`{"root":{"@id":123,"name":"test"}}`)
	require.True(t, res.Success, res.Message())
	require.Equal(t, "<root id=\"123\">\n    <name>test</name>\n</root>\n", res.Output)

	for _, out := range []xmljson.Result{
		compact.ConvertMarkupToDocument(sampleMarkup),
		compact.ConvertDocumentToMarkup(`{"root":{"@id":123,"name":"test"}}`),
	} {
		require.True(t, out.Success, out.Message())
		require.NotContains(t, out.Output, "\n")
		require.NotContains(t, out.Output, "    ")
	}
}

func TestFailureSurfacing(t *testing.T) {
	c := newConverter(t, nil)

	res := c.ConvertMarkupToDocument(`<root><unclosed>`)
	require.False(t, res.Success)
	require.Empty(t, res.Output)
	require.NotEmpty(t, res.Message())
	var perr *xjerrors.ParseError
	require.ErrorAs(t, res.Err, &perr)
	require.Equal(t, 1, perr.Line)

	res = c.ConvertDocumentToMarkup(`{invalid json}`)
	require.False(t, res.Success)
	require.NotEmpty(t, res.Message())
	var derr *xjerrors.DocumentError
	require.ErrorAs(t, res.Err, &derr)

	res = c.ConvertDocumentToMarkup(`{"a":1,"b":2}`)
	require.False(t, res.Success)
	require.Contains(t, res.Message(), "markup requires exactly one root element")
}

func TestScalarCollapseIdempotence(t *testing.T) {
	c := newConverter(t, nil)
	const input = `<root><a>1</a><b>text</b><c></c></root>`

	first := c.ConvertMarkupToDocument(input)
	require.True(t, first.Success, first.Message())

	markup := c.ConvertDocumentToMarkup(first.Output)
	require.True(t, markup.Success, markup.Message())
	require.Equal(t, input, markup.Output)

	second := c.ConvertMarkupToDocument(markup.Output)
	require.True(t, second.Success, second.Message())
	require.Equal(t, first.Output, second.Output)
}

func TestConvert(t *testing.T) {
	c := newConverter(t, nil)

	res := c.Convert(sampleMarkup)
	require.True(t, res.Success, res.Message())
	require.Equal(t, `{"root":{"@id":123,"name":"test"}}`, res.Output)

	res = c.Convert(`  {"root":{"@id":123,"name":"test"}}  `)
	require.True(t, res.Success, res.Message())
	require.Equal(t, sampleMarkup, res.Output)

	res = c.Convert("plain text")
	require.False(t, res.Success)
	require.True(t, errors.Is(res.Err, xmljson.ErrUnknownFormat))
}

func TestConvertBytes(t *testing.T) {
	c := newConverter(t, nil)

	res := c.ConvertBytes([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?><a>caf` + "\xe9" + `</a>`))
	require.True(t, res.Success, res.Message())
	require.Equal(t, `{"?xml":{"@version":"1.0","@encoding":"ISO-8859-1"},"a":"café"}`, res.Output)

	// Markup output is UTF-8 text, so the declaration must say so.
	back := c.ConvertDocumentToMarkup(res.Output)
	require.True(t, back.Success, back.Message())
	require.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><a>café</a>`, back.Output)

	again := c.ConvertBytes([]byte(back.Output))
	require.True(t, again.Success, again.Message())
	require.Equal(t, `{"?xml":{"@version":"1.0","@encoding":"UTF-8"},"a":"café"}`, again.Output)

	res = c.ConvertBytes([]byte(`<?xml version="1.0" encoding="x-bogus"?><a/>`))
	require.False(t, res.Success)
	require.Contains(t, res.Message(), "unsupported encoding")
}

func TestDeclarationRoundTrip(t *testing.T) {
	c := newConverter(t, nil)
	const input = `<?xml version="1.0" encoding="UTF-8"?><root>1</root>`

	doc := c.ConvertMarkupToDocument(input)
	require.True(t, doc.Success, doc.Message())
	require.Equal(t, `{"?xml":{"@version":"1.0","@encoding":"UTF-8"},"root":1}`, doc.Output)

	back := c.ConvertDocumentToMarkup(doc.Output)
	require.True(t, back.Success, back.Message())
	require.Equal(t, input, back.Output)
}

func TestPreserveComments(t *testing.T) {
	c := newConverter(t, func(cfg *xmljson.Config) { cfg.PreserveComments = true })

	doc := c.ConvertMarkupToDocument(`<root><!-- c --><a>1</a></root>`)
	require.True(t, doc.Success, doc.Message())
	require.Equal(t, `{"root":{"#comment":" c ","a":1}}`, doc.Output)

	back := c.ConvertDocumentToMarkup(doc.Output)
	require.True(t, back.Success, back.Message())
	require.Equal(t, `<root><!-- c --><a>1</a></root>`, back.Output)

	dropped := newConverter(t, nil).ConvertDocumentToMarkup(doc.Output)
	require.True(t, dropped.Success, dropped.Message())
	require.Equal(t, `<root><a>1</a></root>`, dropped.Output)
}

func TestValidate(t *testing.T) {
	c := newConverter(t, func(cfg *xmljson.Config) { cfg.Validate = true })

	res := c.ConvertMarkupToDocument(`<a>&nbsp;</a>`)
	require.False(t, res.Success)
	require.Contains(t, res.Message(), "validation failed")

	res = c.ConvertDocumentToMarkup(`{invalid json}`)
	require.False(t, res.Success)
	require.Contains(t, res.Message(), "validation failed")

	res = c.ConvertMarkupToDocument(sampleMarkup)
	require.True(t, res.Success, res.Message())
}

func TestYAMLSyntax(t *testing.T) {
	c := newConverter(t, func(cfg *xmljson.Config) {
		cfg.Syntax = xmljson.SyntaxYAML
		cfg.Pretty = true
	})

	doc := c.ConvertMarkupToDocument(sampleMarkup)
	require.True(t, doc.Success, doc.Message())
	require.Contains(t, doc.Output, "\n  name: test\n")

	back := c.ConvertDocumentToMarkup(doc.Output)
	require.True(t, back.Success, back.Message())
	require.Equal(t, "<root id=\"123\">\n  <name>test</name>\n</root>\n", back.Output)

	res := c.Convert(doc.Output)
	require.True(t, res.Success, res.Message())
	require.Equal(t, back.Output, res.Output)
}

func TestConverter_ConcurrentUse(t *testing.T) {
	c := newConverter(t, func(cfg *xmljson.Config) { cfg.Arrays = []string{"item"} })

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := c.ConvertMarkupToDocument(`<root><item>1</item></root>`)
			if !res.Success || res.Output != `{"root":{"item":[1]}}` {
				errs <- res.Output + res.Message()
			}
		}()
	}
	wg.Wait()
	close(errs)

	var failures []string
	for e := range errs {
		failures = append(failures, e)
	}
	require.Empty(t, strings.Join(failures, "\n"))
}
