package mcptools

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cycleSpecYAML = `openapi: "3.1.0"
info:
  title: Cycles
  version: "1.0.0"
paths: {}
components:
  schemas:
    Node:
      type: object
      properties:
        next:
          $ref: '#/components/schemas/Node'
    TreeA:
      type: object
      properties:
        b:
          $ref: '#/components/schemas/TreeB'
    TreeB:
      type: object
      properties:
        a:
          $ref: '#/components/schemas/TreeA'
`

func orderIndex(t *testing.T, order []graphNodeInfo, ref string) int {
	t.Helper()
	for i, n := range order {
		if n.Ref == ref {
			return i
		}
	}
	t.Fatalf("ref %s not in order listing", ref)
	return -1
}

func TestGraphTool_Order(t *testing.T) {
	docCache.reset()
	input := graphInput{Spec: specInput{Content: testSpecYAML}}
	_, output, err := handleGraph(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	assert.Equal(t, 3, output.NodeCount)
	assert.Equal(t, 3, output.Returned)
	assert.Equal(t, 0, output.CycleCount)
	require.Len(t, output.Order, 3)

	// Leaves come first, so Pet appears after both of its dependencies.
	petIdx := orderIndex(t, output.Order, "#/components/schemas/Pet")
	assert.Equal(t, 2, petIdx)

	pet := output.Order[petIdx]
	assert.Equal(t, 1, pet.Depth)
	assert.False(t, pet.IsCircular)
	assert.Equal(t, []string{
		"#/components/schemas/Status",
		"#/components/schemas/Owner",
	}, pet.Dependencies)

	owner := output.Order[orderIndex(t, output.Order, "#/components/schemas/Owner")]
	assert.Equal(t, 0, owner.Depth)
	assert.Equal(t, []string{"#/components/schemas/Pet"}, owner.Dependents)
}

func TestGraphTool_Cycles(t *testing.T) {
	docCache.reset()
	input := graphInput{Spec: specInput{Content: cycleSpecYAML}}
	_, output, err := handleGraph(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	assert.Equal(t, 3, output.NodeCount)
	assert.Equal(t, 2, output.CycleCount)
	assert.Contains(t, output.Cycles, []string{"#/components/schemas/Node"})
	assert.Contains(t, output.Cycles, []string{
		"#/components/schemas/TreeA",
		"#/components/schemas/TreeB",
	})

	node := output.Order[orderIndex(t, output.Order, "#/components/schemas/Node")]
	assert.True(t, node.IsCircular)
}

func TestGraphTool_CyclesOnly(t *testing.T) {
	docCache.reset()
	input := graphInput{
		Spec:       specInput{Content: cycleSpecYAML},
		CyclesOnly: true,
	}
	_, output, err := handleGraph(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	assert.Equal(t, 2, output.CycleCount)
	assert.Empty(t, output.Order)
	assert.Zero(t, output.Returned)
}

func TestGraphTool_Pagination(t *testing.T) {
	docCache.reset()
	input := graphInput{
		Spec:   specInput{Content: testSpecYAML},
		Offset: 1,
		Limit:  1,
	}
	_, output, err := handleGraph(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	assert.Equal(t, 3, output.NodeCount)
	assert.Equal(t, 1, output.Returned)
	assert.Equal(t, 1, output.Offset)
	require.Len(t, output.Order, 1)
}

func TestGraphTool_NoSchemas(t *testing.T) {
	docCache.reset()
	content := `openapi: "3.0.3"
info:
  title: Empty
  version: "1.0.0"
paths: {}
`
	input := graphInput{Spec: specInput{Content: content}}
	_, output, err := handleGraph(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	assert.Zero(t, output.NodeCount)
	assert.Empty(t, output.Order)
	assert.Empty(t, output.Cycles)
}
