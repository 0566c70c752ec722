package mcptools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaTool_ByName(t *testing.T) {
	docCache.reset()
	input := schemaInput{
		Spec: specInput{Content: testSpecYAML},
		Name: "Pet",
	}
	_, output, err := handleSchema(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	assert.Equal(t, "Pet", output.Name)
	assert.Equal(t, "#/components/schemas/Pet", output.Ref)
	assert.Equal(t, "object", output.Kind)
	assert.Equal(t, 1, output.Depth)
	assert.False(t, output.IsCircular)
	assert.Equal(t, []string{
		"#/components/schemas/Status",
		"#/components/schemas/Owner",
	}, output.Dependencies)
	assert.Nil(t, output.Enum)

	// The schema payload is the IR node as JSON.
	var node map[string]any
	require.NoError(t, json.Unmarshal([]byte(output.Schema), &node))
	assert.Equal(t, "object", node["kind"])
	assert.Contains(t, node, "required")
}

func TestSchemaTool_ByRef(t *testing.T) {
	docCache.reset()
	input := schemaInput{
		Spec: specInput{Content: testSpecYAML},
		Ref:  "#/components/schemas/Status",
	}
	_, output, err := handleSchema(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	assert.Equal(t, "Status", output.Name)
	assert.Equal(t, "primitive", output.Kind)
	assert.Equal(t, 0, output.Depth)
	assert.Equal(t, []string{"#/components/schemas/Pet"}, output.Dependents)

	require.NotNil(t, output.Enum)
	assert.Equal(t, "string", output.Enum.Type)
	assert.Equal(t, []any{"available", "pending", "sold"}, output.Enum.Values)
}

func TestSchemaTool_NotFound(t *testing.T) {
	docCache.reset()
	input := schemaInput{
		Spec: specInput{Content: testSpecYAML},
		Name: "Missing",
	}
	result, _, err := handleSchema(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)

	text := result.Content[0].(*mcp.TextContent).Text
	assert.Contains(t, text, `"Missing" not found`)
}

func TestSchemaTool_ExactlyOneSelector(t *testing.T) {
	tests := []struct {
		name  string
		input schemaInput
	}{
		{"neither", schemaInput{Spec: specInput{Content: testSpecYAML}}},
		{"both", schemaInput{
			Spec: specInput{Content: testSpecYAML},
			Name: "Pet",
			Ref:  "#/components/schemas/Pet",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, err := handleSchema(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.IsError)

			text := result.Content[0].(*mcp.TextContent).Text
			assert.Contains(t, text, "exactly one of name or ref")
		})
	}
}

func TestSchemaTool_NonSchemaRef(t *testing.T) {
	docCache.reset()
	content := `openapi: "3.0.3"
info:
  title: Params
  version: "1.0.0"
paths: {}
components:
  parameters:
    limitParam:
      name: limit
      in: query
      schema:
        type: integer
`
	input := schemaInput{
		Spec: specInput{Content: content},
		Ref:  "#/components/parameters/limitParam",
	}
	result, _, err := handleSchema(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}
