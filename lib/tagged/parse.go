package tagged

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ValentinKolb/serjs/lib/serializer"
	"gopkg.in/yaml.v3"
)

// Format is the syntax of a tagged document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat returns the Format named s (case insensitive, "yml" is accepted as well)
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", NewError(ErrCUnknownFormat, "unknown document format "+s)
	}
}

// DecodeDocument parses data in the given format and decodes all tags
func DecodeDocument(data []byte, format Format) (any, error) {
	var (
		v   any
		err error
	)
	switch format {
	case FormatJSON:
		v, err = ParseJSON(data)
	case FormatYAML:
		v, err = ParseYAML(data)
	default:
		return nil, NewError(ErrCUnknownFormat, "unknown document format "+string(format))
	}
	if err != nil {
		return nil, err
	}
	return Decode(v)
}

// DecodeJSON parses a JSON document and decodes all tags
func DecodeJSON(data []byte) (any, error) {
	return DecodeDocument(data, FormatJSON)
}

// DecodeYAML parses a YAML document and decodes all tags
func DecodeYAML(data []byte) (any, error) {
	return DecodeDocument(data, FormatYAML)
}

// --------------------------------------------------------------------------
// JSON
// --------------------------------------------------------------------------

// ParseJSON parses a single JSON value. Objects become serializer.Object (in document
// order), arrays []any and numbers json.Number. Tags are not decoded.
func ParseJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, syntaxError("unexpected data after the top-level value")
	}
	return v, nil
}

func parseJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, syntaxError("unexpected end of document")
		}
		return nil, syntaxError("%v", err)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := serializer.Object{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, syntaxError("%v", err)
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, syntaxError("object key must be a string")
				}
				value, err := parseJSONValue(dec)
				if err != nil {
					return nil, err
				}
				obj = append(obj, serializer.Property{Key: key, Value: value})
			}
			if _, err := dec.Token(); err != nil {
				return nil, syntaxError("%v", err)
			}
			return obj, nil
		case '[':
			list := []any{}
			for dec.More() {
				value, err := parseJSONValue(dec)
				if err != nil {
					return nil, err
				}
				list = append(list, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, syntaxError("%v", err)
			}
			return list, nil
		default:
			return nil, syntaxError("unexpected %s", t)
		}
	default:
		// string, json.Number, bool or nil
		return t, nil
	}
}

// --------------------------------------------------------------------------
// YAML
// --------------------------------------------------------------------------

// ParseYAML parses a single YAML document into the same shape as ParseJSON.
// Floats become float64 (.inf and .nan included) and timestamps time.Time. Tags are not decoded.
func ParseYAML(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, syntaxError("%v", err)
	}
	if doc.Kind == 0 {
		// empty document
		return nil, nil
	}
	return newYAMLParser(&doc).parse(&doc)
}

// yamlParser converts yaml nodes into values. Aliases are expanded, budget bounds
// the number of nodes produced so nested aliases can't blow up the document.
type yamlParser struct {
	budget int
	limit  int
}

// aliasExpansion is the factor by which aliases may grow a document
const aliasExpansion = 4

func newYAMLParser(doc *yaml.Node) *yamlParser {
	limit := aliasExpansion*countYAMLNodes(doc) + 1000
	return &yamlParser{budget: limit, limit: limit}
}

// countYAMLNodes counts the nodes of n without following aliases
func countYAMLNodes(n *yaml.Node) int {
	count := 1
	for _, c := range n.Content {
		count += countYAMLNodes(c)
	}
	return count
}

func (p *yamlParser) parse(n *yaml.Node) (any, error) {
	p.budget--
	if p.budget < 0 {
		return nil, limitExceeded("yaml aliases expand to more than %d nodes", p.limit)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return p.parse(n.Content[0])
	case yaml.AliasNode:
		return p.parse(n.Alias)
	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			value, err := p.parse(c)
			if err != nil {
				return nil, err
			}
			list = append(list, value)
		}
		return list, nil
	case yaml.MappingNode:
		obj := make(serializer.Object, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode := n.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, syntaxError("line %d: mapping keys must be scalars", keyNode.Line)
			}
			value, err := p.parse(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj = append(obj, serializer.Property{Key: keyNode.Value, Value: value})
		}
		return obj, nil
	case yaml.ScalarNode:
		return parseYAMLScalar(n)
	default:
		return nil, syntaxError("line %d: unsupported yaml node", n.Line)
	}
}

func parseYAMLScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, syntaxError("line %d: %v", n.Line, err)
		}
		return b, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			// too large for int64, keep the text
			return json.Number(n.Value), nil
		}
		return json.Number(strconv.FormatInt(i, 10)), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, syntaxError("line %d: %v", n.Line, err)
		}
		return f, nil
	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return nil, syntaxError("line %d: %v", n.Line, err)
		}
		return t, nil
	default:
		return n.Value, nil
	}
}
