package document_test

import (
	"testing"

	"github.com/KimNorgaard/go-xmljson/internal/document"
	"github.com/stretchr/testify/require"
)

func TestParseScalar(t *testing.T) {
	tests := []struct {
		input    string
		expected document.Scalar
	}{
		{"1", document.Num("1")},
		{"-42", document.Num("-42")},
		{"0", document.Num("0")},
		{"1.50", document.Num("1.50")},
		{"6.626e-34", document.Num("6.626e-34")},
		{"1E5", document.Num("1E5")},
		{"true", document.Boolean(true)},
		{"false", document.Boolean(false)},
		{"True", document.Str("True")},
		{"007", document.Str("007")},
		{"+5", document.Str("+5")},
		{"1.", document.Str("1.")},
		{".5", document.Str(".5")},
		{"1e", document.Str("1e")},
		{"-", document.Str("-")},
		{"0x1F", document.Str("0x1F")},
		{"12abc", document.Str("12abc")},
		{"", document.Str("")},
		{"test", document.Str("test")},
		{"null", document.Str("null")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.expected, document.ParseScalar(tt.input))
		})
	}
}

func TestObject_Fields(t *testing.T) {
	obj := &document.Object{}
	obj.Set("a", document.Str("1"))
	obj.Set("b", document.Str("2"))
	obj.Set("a", document.Str("3"))
	obj.SetAttr("id", document.Num("7"))

	require.Equal(t, []document.Field{
		{Name: "a", Value: document.Str("3")},
		{Name: "b", Value: document.Str("2")},
	}, obj.Fields)
	require.Equal(t, 3, obj.Len())

	v, ok := obj.Get("b")
	require.True(t, ok)
	require.Equal(t, document.Str("2"), v)

	id, ok := obj.Attr("id")
	require.True(t, ok)
	require.Equal(t, document.Num("7"), id)

	require.True(t, obj.Delete("a"))
	require.False(t, obj.Delete("missing"))
	_, ok = obj.Get("a")
	require.False(t, ok)
	require.Len(t, obj.Fields, 1)
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "string", document.String.String())
	require.Equal(t, "number", document.Number.String())
	require.Equal(t, "boolean", document.Bool.String())
	require.Equal(t, "null", document.Null.String())
}
