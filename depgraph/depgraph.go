package depgraph

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/castrlabs/castr/ir"
	"github.com/castrlabs/castr/walker"
)

// Build constructs the dependency graph over the schema components in
// components. Non-schema components are ignored. References pointing
// outside the schema component set (already validated by the IR builder)
// do not contribute edges.
func Build(components []*ir.Component) *ir.DependencyGraph {
	refs, index, schemas := collectSchemaComponents(components)
	if len(refs) == 0 {
		return &ir.DependencyGraph{}
	}

	// Outgoing references per component, in first-appearance order within
	// the component's tree, deduplicated, restricted to the node set.
	deps := make(map[string][]string, len(refs))
	for _, ref := range refs {
		deps[ref] = collectRefs(schemas[ref], index)
	}

	// Self references are legal (a schema containing itself) but the
	// simple graph rejects self edges, so they are tracked apart and fed
	// into cycle reporting directly.
	g := simple.NewDirectedGraph()
	for i := range refs {
		g.AddNode(simple.Node(i))
	}
	selfRef := make(map[string]bool)
	dependents := make(map[string][]string)
	remaining := make([]int, len(refs))
	for _, ref := range refs {
		for _, dep := range deps[ref] {
			if dep == ref {
				selfRef[ref] = true
				continue
			}
			// Edge direction: dependency to dependent, so topological
			// order emits leaves first.
			g.SetEdge(simple.Edge{F: simple.Node(index[dep]), T: simple.Node(index[ref])})
			dependents[dep] = append(dependents[dep], ref)
			remaining[index[ref]]++
		}
	}

	cycles, cyclic := detectCycles(g, refs, index, selfRef)
	order := topologicalOrder(refs, index, deps, dependents, remaining)
	depth := computeDepths(order, refs, index, deps)

	nodes := make(map[string]*ir.DependencyNode, len(refs))
	for _, ref := range refs {
		nodes[ref] = &ir.DependencyNode{
			Ref:          ref,
			Dependencies: deps[ref],
			Dependents:   dependents[ref],
			Depth:        depth[index[ref]],
			IsCircular:   cyclic[ref],
		}
	}
	return &ir.DependencyGraph{
		Nodes:              nodes,
		TopologicalOrder:   order,
		CircularReferences: cycles,
	}
}

// collectSchemaComponents indexes the schema components by canonical ref in
// document order.
func collectSchemaComponents(components []*ir.Component) ([]string, map[string]int, map[string]*ir.Schema) {
	var refs []string
	index := make(map[string]int)
	schemas := make(map[string]*ir.Schema)
	for _, c := range components {
		if c.Kind != ir.ComponentSchema || c.Schema == nil {
			continue
		}
		if _, dup := index[c.Ref]; dup {
			continue
		}
		index[c.Ref] = len(refs)
		refs = append(refs, c.Ref)
		schemas[c.Ref] = c.Schema
	}
	return refs, index, schemas
}

// collectRefs returns one component tree's in-set references in
// first-appearance order. CollectSchemaRefs already deduplicates.
func collectRefs(schema *ir.Schema, index map[string]int) []string {
	var out []string
	for _, ref := range walker.CollectSchemaRefs(schema) {
		if _, inSet := index[ref]; inSet {
			out = append(out, ref)
		}
	}
	return out
}

// detectCycles returns the reference cycles, each as an ordered member list
// starting at its first-appearing ref, with the cycle list itself ordered
// the same way, plus the membership set.
func detectCycles(g *simple.DirectedGraph, refs []string, index map[string]int, selfRef map[string]bool) ([][]string, map[string]bool) {
	cyclic := make(map[string]bool)
	var cycles [][]string

	for _, scc := range topo.TarjanSCC(g) {
		if len(scc) < 2 {
			continue
		}
		members := make([]string, 0, len(scc))
		for _, n := range scc {
			members = append(members, refs[int(n.ID())])
		}
		sort.Slice(members, func(i, j int) bool {
			return index[members[i]] < index[members[j]]
		})
		for _, m := range members {
			cyclic[m] = true
		}
		cycles = append(cycles, members)
	}

	for _, ref := range refs {
		if selfRef[ref] && !cyclic[ref] {
			cyclic[ref] = true
			cycles = append(cycles, []string{ref})
		}
	}

	sort.Slice(cycles, func(i, j int) bool {
		return index[cycles[i][0]] < index[cycles[j][0]]
	})
	return cycles, cyclic
}

// topologicalOrder emits every ref leaves first. Ready ties break by first
// appearance. When only cyclic nodes remain, the first-appearing one is
// forced out so cycle members still occupy a stable position.
func topologicalOrder(refs []string, index map[string]int, deps map[string][]string, dependents map[string][]string, remaining []int) []string {
	emitted := make([]bool, len(refs))
	order := make([]string, 0, len(refs))
	for len(order) < len(refs) {
		pick := -1
		for i := range refs {
			if !emitted[i] && remaining[i] <= 0 {
				pick = i
				break
			}
		}
		if pick == -1 {
			for i := range refs {
				if !emitted[i] {
					pick = i
					break
				}
			}
		}
		emitted[pick] = true
		order = append(order, refs[pick])
		for _, dependent := range dependents[refs[pick]] {
			remaining[index[dependent]]--
		}
	}
	return order
}

// computeDepths assigns each node the longest distance from a leaf,
// processing in emission order so dependency depths are final before their
// dependents (cycle members see the values as of their forced position).
func computeDepths(order []string, refs []string, index map[string]int, deps map[string][]string) []int {
	depth := make([]int, len(refs))
	for _, ref := range order {
		i := index[ref]
		for _, dep := range deps[ref] {
			if dep == ref {
				continue
			}
			if d := depth[index[dep]] + 1; d > depth[i] {
				depth[i] = d
			}
		}
	}
	return depth
}
