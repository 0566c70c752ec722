package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/castrlabs/castr/ir"
)

type schemaInput struct {
	Spec specInput `json:"spec"           jsonschema:"The OpenAPI document containing the schema"`
	Name string    `json:"name,omitempty" jsonschema:"Schema component name\\, e.g. Pet"`
	Ref  string    `json:"ref,omitempty"  jsonschema:"Canonical component ref\\, e.g. #/components/schemas/Pet"`
}

type enumInfo struct {
	Type   string `json:"type"`
	Values []any  `json:"values"`
}

type schemaOutput struct {
	Name         string    `json:"name"`
	Ref          string    `json:"ref"`
	Kind         string    `json:"kind"`
	Schema       string    `json:"schema"`
	Depth        int       `json:"depth"`
	IsCircular   bool      `json:"is_circular,omitempty"`
	Dependencies []string  `json:"dependencies,omitempty"`
	Dependents   []string  `json:"dependents,omitempty"`
	Enum         *enumInfo `json:"enum,omitempty"`
}

func handleSchema(ctx context.Context, _ *mcp.CallToolRequest, input schemaInput) (*mcp.CallToolResult, schemaOutput, error) {
	if (input.Name == "") == (input.Ref == "") {
		return errResult(fmt.Errorf("exactly one of name or ref must be provided")), schemaOutput{}, nil
	}

	spec, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), schemaOutput{}, nil
	}
	doc := spec.doc

	var comp *ir.Component
	if input.Name != "" {
		comp = doc.SchemaComponent(input.Name)
	} else {
		comp = doc.ComponentByRef(input.Ref)
		if comp != nil && comp.Kind != ir.ComponentSchema {
			comp = nil
		}
	}
	if comp == nil {
		target := input.Name
		if target == "" {
			target = input.Ref
		}
		return errResult(fmt.Errorf("schema component %q not found; use castr_graph to list components", target)), schemaOutput{}, nil
	}

	// The IR node serializes the same way here as in ir.Serialize output.
	schemaJSON, err := json.MarshalIndent(comp.Schema, "", "  ")
	if err != nil {
		return errResult(err), schemaOutput{}, nil
	}

	output := schemaOutput{
		Name:   comp.Name,
		Ref:    comp.Ref,
		Kind:   string(comp.Schema.Kind),
		Schema: string(schemaJSON),
	}
	if g := doc.DependencyGraph; g != nil {
		if node := g.Nodes[comp.Ref]; node != nil {
			output.Depth = node.Depth
			output.IsCircular = node.IsCircular
			output.Dependencies = node.Dependencies
			output.Dependents = node.Dependents
		}
	}
	if e := doc.Enums[comp.Name]; e != nil {
		output.Enum = &enumInfo{Type: e.Type, Values: e.Values}
	}

	return nil, output, nil
}
