package ir

import (
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v4"
)

// Schema is one IR schema node. Exactly one Kind's structural fields are
// populated; Metadata is always present on built nodes.
type Schema struct {
	Kind Kind `json:"kind" yaml:"kind"`

	// Reference (KindReference). Always the canonical form
	// "#/components/{type}/{name}" or the x-ext variant; the target is not
	// inlined.
	Ref string `json:"$ref,omitempty" yaml:"$ref,omitempty"`

	// Common annotations
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Default     any    `json:"default,omitempty" yaml:"default,omitempty"`
	Example     any    `json:"example,omitempty" yaml:"example,omitempty"`
	Deprecated  bool   `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	ReadOnly    bool   `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
	WriteOnly   bool   `json:"writeOnly,omitempty" yaml:"writeOnly,omitempty"`

	// Primitive (KindPrimitive)
	Type   string `json:"type,omitempty" yaml:"type,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
	Enum   []any  `json:"enum,omitempty" yaml:"enum,omitempty"`
	Const  any    `json:"const,omitempty" yaml:"const,omitempty"`

	// Object (KindObject)
	Properties           *Properties   `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required             []string      `json:"required,omitempty" yaml:"required,omitempty"` // sorted
	AdditionalProperties *BoolOrSchema `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`

	// Array (KindArray). TupleItems holds prefixItems; Items may coexist
	// with it as the schema for elements past the tuple prefix.
	Items       *Schema   `json:"items,omitempty" yaml:"items,omitempty"`
	TupleItems  []*Schema `json:"prefixItems,omitempty" yaml:"prefixItems,omitempty"`
	MinItems    *int      `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems    *int      `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`
	UniqueItems bool      `json:"uniqueItems,omitempty" yaml:"uniqueItems,omitempty"`

	// Composition (KindComposition). Exactly one member slice is non-empty,
	// matching CompositionKind.
	CompositionKind CompositionKind `json:"compositionKind,omitempty" yaml:"compositionKind,omitempty"`
	AllOf           []*Schema       `json:"allOf,omitempty" yaml:"allOf,omitempty"`
	OneOf           []*Schema       `json:"oneOf,omitempty" yaml:"oneOf,omitempty"`
	AnyOf           []*Schema       `json:"anyOf,omitempty" yaml:"anyOf,omitempty"`
	Discriminator   *Discriminator  `json:"discriminator,omitempty" yaml:"discriminator,omitempty"`

	// Extension facets, passed through unmodified for writers
	XML                   *XML                `json:"xml,omitempty" yaml:"xml,omitempty"`
	ExternalDocs          *ExternalDocs       `json:"externalDocs,omitempty" yaml:"externalDocs,omitempty"`
	UnevaluatedProperties *BoolOrSchema       `json:"unevaluatedProperties,omitempty" yaml:"unevaluatedProperties,omitempty"`
	UnevaluatedItems      *BoolOrSchema       `json:"unevaluatedItems,omitempty" yaml:"unevaluatedItems,omitempty"`
	DependentSchemas      map[string]*Schema  `json:"dependentSchemas,omitempty" yaml:"dependentSchemas,omitempty"`
	DependentRequired     map[string][]string `json:"dependentRequired,omitempty" yaml:"dependentRequired,omitempty"`
	Contains              *Schema             `json:"contains,omitempty" yaml:"contains,omitempty"`
	MinContains           *int                `json:"minContains,omitempty" yaml:"minContains,omitempty"`
	MaxContains           *int                `json:"maxContains,omitempty" yaml:"maxContains,omitempty"`

	// Metadata carries the per-site semantics writers consume. Set on every
	// node the builder or reflector produces.
	Metadata *Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// IsRequired reports the node's requiredness in its parent context.
func (s *Schema) IsRequired() bool {
	return s != nil && s.Metadata != nil && s.Metadata.Required
}

// IsNullable reports the node's normalized nullability.
func (s *Schema) IsNullable() bool {
	return s != nil && s.Metadata != nil && s.Metadata.Nullable
}

// IsCircular reports whether this node closes a reference cycle.
func (s *Schema) IsCircular() bool {
	return s != nil && s.Metadata != nil && len(s.Metadata.CircularReferences) > 0
}

// Members returns the composition member slice matching CompositionKind,
// or nil for non-composition nodes.
func (s *Schema) Members() []*Schema {
	if s == nil || s.Kind != KindComposition {
		return nil
	}
	switch s.CompositionKind {
	case CompositionAllOf:
		return s.AllOf
	case CompositionOneOf:
		return s.OneOf
	case CompositionAnyOf:
		return s.AnyOf
	default:
		return nil
	}
}

// Metadata is the per-reference-site annotation attached to every built node.
// It describes the edge from the parent context to this node, so the same
// component referenced twice carries two independent Metadata values.
type Metadata struct {
	// Required reports whether this node is required in its parent context
	// (object property, parameter, request body).
	Required bool `json:"required" yaml:"required"`
	// Nullable is the normalized nullability: OAS 3.0 `nullable: true` or an
	// OAS 3.1 type array containing "null".
	Nullable bool `json:"nullable" yaml:"nullable"`
	// DependencyGraph summarizes this node's position in the reference graph.
	DependencyGraph *DependencyInfo `json:"dependencyGraph,omitempty" yaml:"dependencyGraph,omitempty"`
	// Inheritance is set on composition members, pointing back at the
	// enclosing composite.
	Inheritance *Inheritance `json:"inheritance,omitempty" yaml:"inheritance,omitempty"`
	// Chain is the abstract validation-chain descriptor consumed by writers.
	Chain ValidationChain `json:"chain" yaml:"chain"`
	// CircularReferences lists refs that close a cycle through this node.
	CircularReferences []string `json:"circularReferences,omitempty" yaml:"circularReferences,omitempty"`
}

// DependencyInfo summarizes a node's edges in the dependency graph.
type DependencyInfo struct {
	References   []string `json:"references,omitempty" yaml:"references,omitempty"`
	ReferencedBy []string `json:"referencedBy,omitempty" yaml:"referencedBy,omitempty"`
	Depth        int      `json:"depth,omitempty" yaml:"depth,omitempty"`
}

// Inheritance records a composition member's relation to its composite.
type Inheritance struct {
	// Parent is the canonical ref (or diagnostics path for anonymous
	// composites) of the enclosing composition node.
	Parent          string          `json:"parent" yaml:"parent"`
	CompositionType CompositionKind `json:"compositionType" yaml:"compositionType"`
	// Siblings lists the refs of the other members, where they are
	// references.
	Siblings []string `json:"siblings,omitempty" yaml:"siblings,omitempty"`
}

// ValidationChain is the abstract constraint descriptor for a node. It is not
// executable: writers render it into their target's validation syntax, and
// the datavalidator interprets it directly.
type ValidationChain struct {
	// Presence is the node's presence wrapping in its parent context.
	Presence Presence `json:"presence,omitempty" yaml:"presence,omitempty"`
	// Validations holds constraint descriptors in canonical textual form,
	// e.g. "min(1)", "max(10)", "pattern(^a)", "format(email)".
	Validations []string `json:"validations,omitempty" yaml:"validations,omitempty"`
	// Defaults holds default-value descriptors, e.g. `default("pending")`.
	Defaults []string `json:"defaults,omitempty" yaml:"defaults,omitempty"`
	// ConstLiteral marks a single-value enum so writers may emit a literal
	// instead of an enumeration. The distinction is decided here, once,
	// never re-derived from raw data by a writer.
	ConstLiteral bool `json:"constLiteral,omitempty" yaml:"constLiteral,omitempty"`
}

// Discriminator names the property that selects a oneOf branch.
type Discriminator struct {
	PropertyName string            `json:"propertyName" yaml:"propertyName"`
	Mapping      map[string]string `json:"mapping,omitempty" yaml:"mapping,omitempty"`
}

// XML carries the xml serialization facet through to writers.
type XML struct {
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Prefix    string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Attribute bool   `json:"attribute,omitempty" yaml:"attribute,omitempty"`
	Wrapped   bool   `json:"wrapped,omitempty" yaml:"wrapped,omitempty"`
}

// ExternalDocs carries the externalDocs facet through to writers.
type ExternalDocs struct {
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// BoolOrSchema is a JSON Schema boolean-or-schema value, used for
// additionalProperties, unevaluatedProperties, and unevaluatedItems.
// Exactly one of Bool or Schema is set.
type BoolOrSchema struct {
	Bool   *bool
	Schema *Schema
}

// AllowsBool returns a BoolOrSchema holding a boolean.
func AllowsBool(allowed bool) *BoolOrSchema {
	return &BoolOrSchema{Bool: &allowed}
}

// AllowsSchema returns a BoolOrSchema holding a schema.
func AllowsSchema(s *Schema) *BoolOrSchema {
	return &BoolOrSchema{Schema: s}
}

// Allows reports whether additional content is permitted at all: true for an
// explicit true, true when schema-constrained, false only for an explicit
// false.
func (b *BoolOrSchema) Allows() bool {
	if b == nil {
		return true
	}
	if b.Bool != nil {
		return *b.Bool
	}
	return true
}

// MarshalJSON emits the boolean or the schema, whichever is set.
func (b *BoolOrSchema) MarshalJSON() ([]byte, error) {
	switch {
	case b.Bool != nil:
		return json.Marshal(*b.Bool)
	case b.Schema != nil:
		return json.Marshal(b.Schema)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a boolean or a schema object.
func (b *BoolOrSchema) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		b.Bool = &v
		b.Schema = nil
		return nil
	}
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("ir: additionalProperties must be a boolean or a schema: %w", err)
	}
	b.Bool = nil
	b.Schema = &s
	return nil
}

// MarshalYAML emits the boolean or the schema, whichever is set.
func (b *BoolOrSchema) MarshalYAML() (any, error) {
	switch {
	case b.Bool != nil:
		return *b.Bool, nil
	case b.Schema != nil:
		return b.Schema, nil
	default:
		return nil, nil
	}
}

// UnmarshalYAML accepts a boolean or a schema mapping.
func (b *BoolOrSchema) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var v bool
		if err := node.Decode(&v); err != nil {
			return fmt.Errorf("ir: additionalProperties must be a boolean or a schema: %w", err)
		}
		b.Bool = &v
		b.Schema = nil
		return nil
	}
	var s Schema
	if err := node.Decode(&s); err != nil {
		return err
	}
	b.Bool = nil
	b.Schema = &s
	return nil
}
