package parser

import (
	"go.yaml.in/yaml/v4"
)

// Schema represents a JSON Schema as used by OAS 3.0 and OAS 3.1
// (JSON Schema Draft 2020-12).
type Schema struct {
	// JSON Schema Core
	Ref string `yaml:"$ref,omitempty" json:"$ref,omitempty"`

	// Metadata
	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Default     any    `yaml:"default,omitempty" json:"default,omitempty"`
	Examples    []any  `yaml:"examples,omitempty" json:"examples,omitempty"` // OAS 3.1+

	// Type validation
	Type  any   `yaml:"type,omitempty" json:"type,omitempty"` // string or []string (OAS 3.1+)
	Enum  []any `yaml:"enum,omitempty" json:"enum,omitempty"`
	Const any   `yaml:"const,omitempty" json:"const,omitempty"` // OAS 3.1+

	// Numeric validation
	MultipleOf       *float64 `yaml:"multipleOf,omitempty" json:"multipleOf,omitempty"`
	Maximum          *float64 `yaml:"maximum,omitempty" json:"maximum,omitempty"`
	ExclusiveMaximum any      `yaml:"exclusiveMaximum,omitempty" json:"exclusiveMaximum,omitempty"` // bool in OAS 3.0, number in 3.1+
	Minimum          *float64 `yaml:"minimum,omitempty" json:"minimum,omitempty"`
	ExclusiveMinimum any      `yaml:"exclusiveMinimum,omitempty" json:"exclusiveMinimum,omitempty"` // bool in OAS 3.0, number in 3.1+

	// String validation
	MaxLength *int   `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	MinLength *int   `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	Pattern   string `yaml:"pattern,omitempty" json:"pattern,omitempty"`

	// Array validation
	Items            *Schema   `yaml:"items,omitempty" json:"items,omitempty"`
	PrefixItems      []*Schema `yaml:"prefixItems,omitempty" json:"prefixItems,omitempty"` // OAS 3.1+ tuple schemas
	UnevaluatedItems any       `yaml:"unevaluatedItems,omitempty" json:"unevaluatedItems,omitempty"` // *Schema or bool (OAS 3.1+)
	MaxItems         *int      `yaml:"maxItems,omitempty" json:"maxItems,omitempty"`
	MinItems         *int      `yaml:"minItems,omitempty" json:"minItems,omitempty"`
	UniqueItems      bool      `yaml:"uniqueItems,omitempty" json:"uniqueItems,omitempty"`
	Contains         *Schema   `yaml:"contains,omitempty" json:"contains,omitempty"`       // OAS 3.1+
	MaxContains      *int      `yaml:"maxContains,omitempty" json:"maxContains,omitempty"` // OAS 3.1+
	MinContains      *int      `yaml:"minContains,omitempty" json:"minContains,omitempty"` // OAS 3.1+

	// Object validation
	Properties            map[string]*Schema  `yaml:"properties,omitempty" json:"properties,omitempty"`
	AdditionalProperties  any                 `yaml:"additionalProperties,omitempty" json:"additionalProperties,omitempty"` // *Schema or bool
	UnevaluatedProperties any                 `yaml:"unevaluatedProperties,omitempty" json:"unevaluatedProperties,omitempty"` // *Schema or bool (OAS 3.1+)
	Required              []string            `yaml:"required,omitempty" json:"required,omitempty"`
	MaxProperties         *int                `yaml:"maxProperties,omitempty" json:"maxProperties,omitempty"`
	MinProperties         *int                `yaml:"minProperties,omitempty" json:"minProperties,omitempty"`
	DependentRequired     map[string][]string `yaml:"dependentRequired,omitempty" json:"dependentRequired,omitempty"` // OAS 3.1+
	DependentSchemas      map[string]*Schema  `yaml:"dependentSchemas,omitempty" json:"dependentSchemas,omitempty"`   // OAS 3.1+

	// PropertyOrder records the declaration order of Properties keys as they
	// appeared in the source document. Populated by UnmarshalYAML; writers
	// rely on it for deterministic output.
	PropertyOrder []string `yaml:"-" json:"-"`

	// Schema composition
	AllOf []*Schema `yaml:"allOf,omitempty" json:"allOf,omitempty"`
	AnyOf []*Schema `yaml:"anyOf,omitempty" json:"anyOf,omitempty"`
	OneOf []*Schema `yaml:"oneOf,omitempty" json:"oneOf,omitempty"`
	Not   *Schema   `yaml:"not,omitempty" json:"not,omitempty"`

	// OAS specific extensions
	Nullable      bool           `yaml:"nullable,omitempty" json:"nullable,omitempty"` // OAS 3.0 only (replaced by type: [T, "null"] in 3.1+)
	Discriminator *Discriminator `yaml:"discriminator,omitempty" json:"discriminator,omitempty"`
	ReadOnly      bool           `yaml:"readOnly,omitempty" json:"readOnly,omitempty"`
	WriteOnly     bool           `yaml:"writeOnly,omitempty" json:"writeOnly,omitempty"`
	XML           *XML           `yaml:"xml,omitempty" json:"xml,omitempty"`
	ExternalDocs  *ExternalDocs  `yaml:"externalDocs,omitempty" json:"externalDocs,omitempty"`
	Example       any            `yaml:"example,omitempty" json:"example,omitempty"` // OAS 3.0 (deprecated in 3.1+)
	Deprecated    bool           `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`

	// Format
	Format string `yaml:"format,omitempty" json:"format,omitempty"` // e.g., "date-time", "email", "uuid"

	// Extension fields
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// UnmarshalYAML implements custom unmarshaling for Schema so that the
// declaration order of properties keys survives decoding (Go maps lose key
// order; the IR builder needs it to emit properties deterministically in
// source order), and so that the boolean-or-schema fields decode to a typed
// *Schema rather than a raw map when they hold a schema.
func (s *Schema) UnmarshalYAML(node *yaml.Node) error {
	type plain Schema
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = Schema(p)
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]
		if val.Kind == yaml.AliasNode && val.Alias != nil {
			val = val.Alias
		}
		switch key {
		case "properties":
			if val.Kind != yaml.MappingNode {
				continue
			}
			s.PropertyOrder = make([]string, 0, len(val.Content)/2)
			for j := 0; j+1 < len(val.Content); j += 2 {
				s.PropertyOrder = append(s.PropertyOrder, val.Content[j].Value)
			}
		case "additionalProperties":
			if err := decodeSchemaOrBool(val, &s.AdditionalProperties); err != nil {
				return err
			}
		case "unevaluatedProperties":
			if err := decodeSchemaOrBool(val, &s.UnevaluatedProperties); err != nil {
				return err
			}
		case "unevaluatedItems":
			if err := decodeSchemaOrBool(val, &s.UnevaluatedItems); err != nil {
				return err
			}
		}
	}
	return nil
}

// decodeSchemaOrBool re-decodes a boolean-or-schema value node into a typed
// *Schema when it holds a mapping. Scalars keep the bool the plain decode
// already produced; anything else is left as decoded for the builder to
// reject with the offending value.
func decodeSchemaOrBool(val *yaml.Node, dst *any) error {
	if val.Kind != yaml.MappingNode {
		return nil
	}
	var sub Schema
	if err := val.Decode(&sub); err != nil {
		return err
	}
	*dst = &sub
	return nil
}

// Discriminator represents a discriminator for polymorphism (OAS 3.0+)
type Discriminator struct {
	PropertyName string            `yaml:"propertyName" json:"propertyName"`
	Mapping      map[string]string `yaml:"mapping,omitempty" json:"mapping,omitempty"`
	Extra        map[string]any    `yaml:",inline" json:"-"`
}

// XML represents metadata for XML encoding
type XML struct {
	Name      string         `yaml:"name,omitempty" json:"name,omitempty"`
	Namespace string         `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	Prefix    string         `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	Attribute bool           `yaml:"attribute,omitempty" json:"attribute,omitempty"`
	Wrapped   bool           `yaml:"wrapped,omitempty" json:"wrapped,omitempty"`
	Extra     map[string]any `yaml:",inline" json:"-"`
}
