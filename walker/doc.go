// Package walker provides traversal over built IR documents and schema
// trees.
//
// The walker enables single-pass traversal of an [ir.Document] or a single
// [ir.Schema] tree, calling typed handlers for each node. The dependency
// graph builder uses it to extract references; inspection surfaces use it
// to count and index schema nodes without re-implementing recursion over
// every keyword.
//
// # Quick Start
//
// Collect every reference in a schema tree:
//
//	var refs []string
//	err := walker.WalkSchema(schema,
//	    walker.WithRefHandler(func(ref string, path string) walker.Action {
//	        refs = append(refs, ref)
//	        return walker.Continue
//	    }),
//	)
//
// # Flow Control
//
// Handlers return an [Action] to control traversal:
//
//   - [Continue]: continue traversing children and siblings normally
//   - [SkipChildren]: skip all children of the current node, continue with
//     siblings
//   - [Stop]: stop the entire walk immediately
//
// # Traversal Order
//
// Traversal is depth first and deterministic: object properties walk in
// their insertion order, composition members in declaration order, and
// map-typed keywords (dependentSchemas) in sorted key order. Schema nodes
// already visited on the current path are skipped, so hand-built trees with
// pointer cycles terminate.
//
// # Collectors
//
// For the common gather-everything cases, [CollectSchemas],
// [CollectReferences], and [CollectOperations] run a full walk and return
// the nodes organized for lookup by path, ref, method, or tag.
package walker
