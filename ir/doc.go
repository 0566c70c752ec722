// Package ir defines the canonical Intermediate Representation that the
// castr pipeline produces from OpenAPI documents (and from Go types via the
// builder's reflector), and that every writer consumes.
//
// The representation is deliberately writer-agnostic: a [Schema] node carries
// everything a downstream renderer needs (kind, structural facets, and
// [Metadata] with requiredness, nullability, dependency info, and the
// abstract validation chain) so writers never re-derive semantics from raw
// OpenAPI.
//
// # Shape discipline
//
// Every Schema is exactly one of six kinds, selected by the Kind field and
// never mixed: primitive, object, array, composition, reference, or unknown.
// OAS 3.1 type arrays such as ["string","null"] do not survive into the IR;
// the builder collapses them to the underlying kind with Metadata.Nullable
// set.
//
// # Metadata is per reference site
//
// Metadata.Required describes the edge, not the node: the same component
// referenced from two places carries independently computed metadata at each
// site. Nothing in this package shares or caches Metadata values.
//
// # Ordering
//
// Object properties live in a [Properties] container that preserves source
// declaration order through JSON and YAML round-trips. Document-level
// orderings (SchemaNames, TopologicalOrder, operation order) are equally
// deterministic: two builds of the same source serialize byte-identically.
//
// # Serialization
//
//	data, err := ir.Serialize(doc)
//	...
//	doc2, err := ir.Deserialize(data)
//
// Serialize and Deserialize round-trip every field losslessly, including the
// map-valued DependencyGraph.Nodes and Enums and the ordered Properties
// container.
package ir
