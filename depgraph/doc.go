// Package depgraph builds the reference dependency graph over a document's
// named schema components.
//
// The graph records, for every named schema, which other named schemas it
// references (anywhere in its tree, including nested properties, array
// items, and composition members), which schemas reference it, a
// leaves-first topological order, and the set of reference cycles.
//
// Build is a pure function of the component set: the same components always
// produce the same graph, including tie-breaks. Independent components
// order by first appearance in the document, cycles are reported starting
// from their first-appearing member, and members of a cycle still occupy a
// stable position in the topological order with IsCircular set so writers
// can switch to deferred evaluation.
package depgraph
