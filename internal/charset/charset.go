// Package charset normalizes raw input bytes to UTF-8 text.
package charset

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var declEncoding = regexp.MustCompile(`^\s*<\?xml\s[^>]*?\bencoding\s*=\s*["']([A-Za-z][A-Za-z0-9._\-]*)["']`)

// ToUTF8 decodes data to UTF-8. A byte order mark selects UTF-8 or UTF-16
// and is removed. Otherwise the encoding named by a leading XML declaration
// is applied. Input without either is taken to be UTF-8 already.
func ToUTF8(data []byte) (string, error) {
	if hasBOM(data) {
		out, _, err := transform.Bytes(unicode.BOMOverride(encoding.Nop.NewDecoder()), data)
		if err != nil {
			return "", fmt.Errorf("xmljson: decoding input: %w", err)
		}
		return string(out), nil
	}

	label := Declared(data)
	if label == "" || isUTF8(label) {
		return string(data), nil
	}
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil || enc == nil {
		return "", fmt.Errorf("xmljson: unsupported encoding %q", label)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("xmljson: decoding %s input: %w", label, err)
	}
	return string(out), nil
}

// Declared returns the encoding named in a leading XML declaration, or ""
// when there is none.
func Declared(data []byte) string {
	head := data
	if i := bytes.Index(head, []byte("?>")); i >= 0 {
		head = head[:i]
	}
	m := declEncoding.FindSubmatch(head)
	if m == nil {
		return ""
	}
	return string(m[1])
}

func hasBOM(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(data, []byte{0xFE, 0xFF}) ||
		bytes.HasPrefix(data, []byte{0xFF, 0xFE})
}

func isUTF8(label string) bool {
	switch strings.ToLower(label) {
	case "utf-8", "utf8":
		return true
	}
	return false
}
