package mcptools

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castrlabs/castr/ir"
)

const testSpecYAML = `openapi: "3.0.3"
info:
  title: Pet Store
  version: "1.0.0"
paths:
  /pets:
    get:
      operationId: listPets
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Pet'
components:
  schemas:
    Pet:
      type: object
      required:
        - name
      properties:
        name:
          type: string
        status:
          $ref: '#/components/schemas/Status'
        owner:
          $ref: '#/components/schemas/Owner'
    Owner:
      type: object
      properties:
        email:
          type: string
          format: email
    Status:
      type: string
      enum:
        - available
        - pending
        - sold
`

func TestBuildTool_Summary(t *testing.T) {
	docCache.reset()
	input := buildInput{Spec: specInput{Content: testSpecYAML}}
	_, output, err := handleBuild(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	assert.Equal(t, "3.0.3", output.OpenAPIVersion)
	assert.Equal(t, "Pet Store", output.Title)
	assert.Equal(t, "1.0.0", output.Version)
	assert.Equal(t, "yaml", output.Format)
	assert.Equal(t, 3, output.ComponentCount)
	assert.Equal(t, 1, output.OperationCount)
	assert.Equal(t, 3, output.SchemaCount)
	// Pet (4 nodes) + Owner (2) + Status (1) named, plus the response's
	// array and items nodes embedded in the operation.
	assert.Equal(t, 9, output.SchemaNodes)
	assert.Equal(t, 2, output.InlineSchemas)
	assert.Equal(t, 1, output.EnumCount)
	assert.Equal(t, 0, output.CycleCount)
	assert.Equal(t, []groupCount{{Key: "schema", Count: 3}}, output.Components)
	assert.Empty(t, output.IR)
}

func TestBuildTool_IncludeIR(t *testing.T) {
	docCache.reset()
	input := buildInput{
		Spec:      specInput{Content: testSpecYAML},
		IncludeIR: true,
	}
	_, output, err := handleBuild(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotEmpty(t, output.IR)

	// The embedded IR must round-trip through the serializer.
	doc, err := ir.Deserialize([]byte(output.IR))
	require.NoError(t, err)
	assert.Equal(t, "Pet Store", doc.Info.Title)
	assert.Len(t, doc.Components, 3)
	assert.NotNil(t, doc.DependencyGraph)
}

func TestBuildTool_ExactlyOneInput(t *testing.T) {
	input := buildInput{Spec: specInput{File: "pets.yaml", Content: testSpecYAML}}
	result, _, err := handleBuild(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)

	text := result.Content[0].(*mcp.TextContent).Text
	assert.Contains(t, text, "exactly one of file, url, or content")
}

func TestBuildTool_InvalidDocument(t *testing.T) {
	docCache.reset()
	input := buildInput{Spec: specInput{Content: "not an openapi document"}}
	result, _, err := handleBuild(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}
