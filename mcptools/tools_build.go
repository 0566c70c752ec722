package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/castrlabs/castr/ir"
	"github.com/castrlabs/castr/walker"
)

type buildInput struct {
	Spec      specInput `json:"spec"                 jsonschema:"The OpenAPI document to build IR from"`
	IncludeIR bool      `json:"include_ir,omitempty" jsonschema:"Include the full serialized IR document in the response"`
}

type buildOutput struct {
	OpenAPIVersion string       `json:"openapi_version"`
	Title          string       `json:"title"`
	Version        string       `json:"version"`
	Format         string       `json:"format"`
	ComponentCount int          `json:"component_count"`
	Components     []groupCount `json:"components,omitempty"`
	OperationCount int          `json:"operation_count"`
	SchemaCount    int          `json:"schema_count"`
	SchemaNodes    int          `json:"schema_node_count"`
	InlineSchemas  int          `json:"inline_schema_count"`
	EnumCount      int          `json:"enum_count"`
	CycleCount     int          `json:"cycle_count"`
	Warnings       []string     `json:"warnings,omitempty"`
	IR             string       `json:"ir,omitempty"`
}

func handleBuild(ctx context.Context, _ *mcp.CallToolRequest, input buildInput) (*mcp.CallToolResult, buildOutput, error) {
	spec, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), buildOutput{}, nil
	}
	doc := spec.doc

	output := buildOutput{
		OpenAPIVersion: doc.OpenAPIVersion,
		Title:          doc.Info.Title,
		Version:        doc.Info.Version,
		Format:         spec.format,
		ComponentCount: len(doc.Components),
		OperationCount: len(doc.Operations),
		SchemaCount:    len(doc.SchemaNames),
		EnumCount:      len(doc.Enums),
		Warnings:       spec.warnings,
	}
	output.Components = groupAndSort(doc.Components, func(c *ir.Component) string {
		return string(c.Kind)
	})
	if doc.DependencyGraph != nil {
		output.CycleCount = len(doc.DependencyGraph.CircularReferences)
	}

	// The census counts every schema node in the IR, named trees and
	// operation-embedded schemas alike.
	if census, err := walker.CollectSchemas(doc); err == nil {
		output.SchemaNodes = len(census.All)
		output.InlineSchemas = len(census.Inline)
	}

	if input.IncludeIR {
		data, err := ir.Serialize(doc)
		if err != nil {
			return errResult(err), buildOutput{}, nil
		}
		output.IR = string(data)
	}

	return nil, output, nil
}
