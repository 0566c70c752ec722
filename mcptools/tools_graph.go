package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type graphInput struct {
	Spec       specInput `json:"spec"                  jsonschema:"The OpenAPI document to build the dependency graph from"`
	CyclesOnly bool      `json:"cycles_only,omitempty" jsonschema:"Return only the circular reference chains\\, skipping the order listing"`
	Offset     int       `json:"offset,omitempty"      jsonschema:"Number of order entries to skip for pagination"`
	Limit      int       `json:"limit,omitempty"       jsonschema:"Maximum order entries to return (default CASTR_GRAPH_LIMIT)"`
}

type graphNodeInfo struct {
	Ref          string   `json:"ref"`
	Depth        int      `json:"depth"`
	IsCircular   bool     `json:"is_circular,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
	Dependents   []string `json:"dependents,omitempty"`
}

type graphOutput struct {
	NodeCount  int             `json:"node_count"`
	Returned   int             `json:"returned"`
	Offset     int             `json:"offset,omitempty"`
	Order      []graphNodeInfo `json:"order,omitempty"`
	CycleCount int             `json:"cycle_count"`
	Cycles     [][]string      `json:"cycles,omitempty"`
}

// handleGraph reports the dependency graph the builder computed over the
// named schema components. The order listing follows TopologicalOrder:
// leaves first, cycle members included and flagged.
func handleGraph(ctx context.Context, _ *mcp.CallToolRequest, input graphInput) (*mcp.CallToolResult, graphOutput, error) {
	spec, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), graphOutput{}, nil
	}

	g := spec.doc.DependencyGraph
	if g == nil {
		return nil, graphOutput{}, nil
	}

	output := graphOutput{
		NodeCount:  len(g.Nodes),
		CycleCount: len(g.CircularReferences),
		Cycles:     g.CircularReferences,
	}
	if input.CyclesOnly {
		return nil, output, nil
	}

	page := paginate(g.TopologicalOrder, input.Offset, input.Limit)
	output.Returned = len(page)
	output.Offset = input.Offset
	output.Order = makeSlice[graphNodeInfo](len(page))
	for _, ref := range page {
		node := g.Nodes[ref]
		if node == nil {
			continue
		}
		output.Order = append(output.Order, graphNodeInfo{
			Ref:          node.Ref,
			Depth:        node.Depth,
			IsCircular:   node.IsCircular,
			Dependencies: node.Dependencies,
			Dependents:   node.Dependents,
		})
	}

	return nil, output, nil
}
