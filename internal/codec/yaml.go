package codec

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	xjerrors "github.com/KimNorgaard/go-xmljson/errors"
	"github.com/KimNorgaard/go-xmljson/internal/document"
	"gopkg.in/yaml.v3"
)

// YAML is the YAML document syntax. Compact output uses flow style so a
// whole document fits on one line.
type YAML struct{}

// ContentType implements Codec.
func (YAML) ContentType() string { return "application/yaml" }

// Unmarshal implements Codec.
func (YAML) Unmarshal(data []byte) (document.Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &xjerrors.DocumentError{Message: "invalid YAML", Err: err}
	}
	if root.Kind == 0 {
		return nil, &xjerrors.DocumentError{Message: "invalid YAML: empty document"}
	}
	return fromNode(&root, 0)
}

// Validate implements Codec.
func (YAML) Validate(data []byte) error {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return &xjerrors.DocumentError{Message: "validation failed: invalid YAML", Err: err}
	}
	return nil
}

func fromNode(n *yaml.Node, depth int) (document.Value, error) {
	if depth > maxDepth {
		return nil, &xjerrors.DocumentError{Message: fmt.Sprintf("maximum nesting depth of %d exceeded", maxDepth)}
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return document.NullValue(), nil
		}
		return fromNode(n.Content[0], depth)
	case yaml.AliasNode:
		return fromNode(n.Alias, depth+1)
	case yaml.MappingNode:
		obj := &document.Object{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return nil, &xjerrors.DocumentError{Message: fmt.Sprintf("invalid YAML: line %d: mapping keys must be scalars", key.Line)}
			}
			v, err := fromNode(val, depth+1)
			if err != nil {
				return nil, err
			}
			setMember(obj, key.Value, v)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := make(document.Array, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromNode(c, depth+1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return scalarFromNode(n), nil
	default:
		return nil, &xjerrors.DocumentError{Message: fmt.Sprintf("invalid YAML: line %d: unsupported node", n.Line)}
	}
}

func scalarFromNode(n *yaml.Node) document.Scalar {
	switch n.ShortTag() {
	case "!!null":
		return document.NullValue()
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return document.Boolean(b)
		}
	case "!!int":
		if document.IsNumber(n.Value) {
			return document.Num(n.Value)
		}
		var i int64
		if err := n.Decode(&i); err == nil {
			return document.Num(strconv.FormatInt(i, 10))
		}
	case "!!float":
		if document.IsNumber(n.Value) {
			return document.Num(n.Value)
		}
		var f float64
		if err := n.Decode(&f); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return document.Num(strconv.FormatFloat(f, 'g', -1, 64))
		}
	}
	return document.Str(n.Value)
}

// Marshal implements Codec.
func (YAML) Marshal(v document.Value, opts Options) ([]byte, error) {
	node, err := toNode(v)
	if err != nil {
		return nil, err
	}
	if !opts.Pretty {
		node.Style = yaml.FlowStyle
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if opts.Indent > 0 {
		enc.SetIndent(opts.Indent)
	}
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("xmljson: encoding YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("xmljson: encoding YAML: %w", err)
	}
	return buf.Bytes(), nil
}

func toNode(v document.Value) (*yaml.Node, error) {
	switch n := v.(type) {
	case *document.Object:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, f := range members(n) {
			val, err := toNode(f.Value)
			if err != nil {
				return nil, err
			}
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name}
			node.Content = append(node.Content, key, val)
		}
		return node, nil
	case document.Array:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, elem := range n {
			val, err := toNode(elem)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, val)
		}
		return node, nil
	case document.Scalar:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: scalarTag(n), Value: n.Text}, nil
	default:
		return nil, fmt.Errorf("xmljson: unsupported value type for YAML: %T", v)
	}
}

func scalarTag(s document.Scalar) string {
	switch s.Kind {
	case document.Number:
		if strings.ContainsAny(s.Text, ".eE") {
			return "!!float"
		}
		return "!!int"
	case document.Bool:
		return "!!bool"
	case document.Null:
		return "!!null"
	default:
		return "!!str"
	}
}
