package ir

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v4"
)

// Properties is an insertion-order-preserving map of property name to schema.
// Go maps lose key order and writers rely on source declaration order for
// deterministic output, so object properties (and content-type maps) use this
// container instead of a plain map. JSON and YAML round-trips preserve the
// order exactly.
//
// The zero value is ready to use.
type Properties struct {
	keys   []string
	values map[string]*Schema
}

// ContentMap is an ordered media-type (or header-name) to schema map. It
// shares the Properties implementation; the alias exists so operation fields
// read as what they hold.
type ContentMap = Properties

// NewProperties returns an empty container, optionally pre-sized.
func NewProperties(capacity ...int) *Properties {
	size := 0
	if len(capacity) > 0 {
		size = capacity[0]
	}
	return &Properties{
		keys:   make([]string, 0, size),
		values: make(map[string]*Schema, size),
	}
}

// Set inserts or replaces the schema for name. A replaced key keeps its
// original position; a new key appends.
func (p *Properties) Set(name string, schema *Schema) {
	if p.values == nil {
		p.values = make(map[string]*Schema)
	}
	if _, exists := p.values[name]; !exists {
		p.keys = append(p.keys, name)
	}
	p.values[name] = schema
}

// Get returns the schema for name and whether it exists.
func (p *Properties) Get(name string) (*Schema, bool) {
	if p == nil {
		return nil, false
	}
	s, ok := p.values[name]
	return s, ok
}

// MustGet returns the schema for name, or an error naming the missing key.
// There is no silent zero-value fallback for absent properties.
func (p *Properties) MustGet(name string) (*Schema, error) {
	s, ok := p.Get(name)
	if !ok {
		return nil, fmt.Errorf("ir: no property %q (have %d properties)", name, p.Len())
	}
	return s, nil
}

// Keys returns the property names in insertion order. The slice is a copy.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	keys := make([]string, len(p.keys))
	copy(keys, p.keys)
	return keys
}

// Values returns the schemas in insertion order. The slice is a copy; the
// schemas are not.
func (p *Properties) Values() []*Schema {
	if p == nil {
		return nil
	}
	values := make([]*Schema, 0, len(p.keys))
	for _, k := range p.keys {
		values = append(values, p.values[k])
	}
	return values
}

// Len returns the number of properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// MarshalJSON emits a JSON object with keys in insertion order.
func (p *Properties) MarshalJSON() ([]byte, error) {
	if p == nil || len(p.keys) == 0 {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(p.values[k])
		if err != nil {
			return nil, fmt.Errorf("ir: marshaling property %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, recording key order as encountered.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("ir: properties must be a JSON object, got %v", tok)
	}

	p.keys = nil
	p.values = make(map[string]*Schema)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("ir: property key must be a string, got %v", keyTok)
		}
		var s Schema
		if err := dec.Decode(&s); err != nil {
			return fmt.Errorf("ir: decoding property %q: %w", key, err)
		}
		p.Set(key, &s)
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalYAML emits a YAML mapping with keys in insertion order.
func (p *Properties) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if p == nil {
		return node, nil
	}
	for _, k := range p.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		var valNode yaml.Node
		if err := valNode.Encode(p.values[k]); err != nil {
			return nil, fmt.Errorf("ir: marshaling property %q: %w", k, err)
		}
		node.Content = append(node.Content, keyNode, &valNode)
	}
	return node, nil
}

// UnmarshalYAML decodes a YAML mapping, recording key order as encountered.
func (p *Properties) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("ir: properties must be a mapping, got %v", node.Kind)
	}
	p.keys = nil
	p.values = make(map[string]*Schema)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		var s Schema
		if err := node.Content[i+1].Decode(&s); err != nil {
			return fmt.Errorf("ir: decoding property %q: %w", key, err)
		}
		p.Set(key, &s)
	}
	return nil
}
