package ir

// Kind discriminates the shape of a Schema node. Every node is exactly one
// kind; structural fields outside the kind's shape are zero.
type Kind string

const (
	// KindPrimitive is a string/number/integer/boolean/null node, with
	// optional Format, Enum, and Const.
	KindPrimitive Kind = "primitive"
	// KindObject is an object node with ordered Properties, a Required set,
	// and optional AdditionalProperties.
	KindObject Kind = "object"
	// KindArray is an array node with Items or TupleItems.
	KindArray Kind = "array"
	// KindComposition is exactly one of allOf/oneOf/anyOf.
	KindComposition Kind = "composition"
	// KindReference points at a named component; the target is not inlined.
	KindReference Kind = "reference"
	// KindUnknown is an untyped schema that accepts anything.
	KindUnknown Kind = "unknown"
)

// IsValid reports whether k is one of the defined kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindPrimitive, KindObject, KindArray, KindComposition, KindReference, KindUnknown:
		return true
	default:
		return false
	}
}

// CompositionKind names which composition keyword produced a KindComposition
// node. Writers apply different matching semantics per kind: allOf requires
// all branches to match, oneOf exactly one, anyOf at least one.
type CompositionKind string

const (
	CompositionAllOf CompositionKind = "allOf"
	CompositionOneOf CompositionKind = "oneOf"
	CompositionAnyOf CompositionKind = "anyOf"
)

// Primitive type names carried in Schema.Type for KindPrimitive nodes.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeNull    = "null"
	TypeObject  = "object"
	TypeArray   = "array"
)

// Presence describes how a node participates in its parent's presence chain.
type Presence string

const (
	// PresenceRequired marks a node required in its parent context.
	PresenceRequired Presence = "required"
	// PresenceOptional marks a node optional in its parent context.
	PresenceOptional Presence = "optional"
	// PresenceNone suppresses presence wrapping entirely. Composition
	// members and tuple/array item schemas have no optional-slot concept.
	PresenceNone Presence = "none"
)
