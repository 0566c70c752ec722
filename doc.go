// Package castr turns OpenAPI Specification documents into a normalized
// intermediate representation (IR) and drives writers off that IR.
//
// Rather than handing every consumer the raw specification, castr parses a
// document once, resolves its reference graph, and builds an IR in which
// every schema node is classified by kind, annotated with per-site presence
// and nullability, and carries an abstract validation chain. Writers such as
// the Go code generator and the data validator consume the IR and never
// re-read raw OpenAPI data.
//
// # Overview
//
// The pipeline runs through these packages:
//
//   - parser: Parse OpenAPI documents (JSON or YAML) into a raw model with
//     declaration order captured and references indexed
//   - builder: Construct the IR from a parse result (kind classification,
//     metadata, validation chains, allOf required-merge, dependency graph)
//   - ir: The IR document model and its serialized form
//   - walker: Traversal callbacks over a built IR
//   - depgraph: Dependency analysis of named schema components
//     (topological order, cycle detection, depths)
//   - generator: Generate Go types and endpoint metadata from the IR
//   - datavalidator: Validate decoded JSON/YAML values against IR schemas
//   - mcptools: Serve the pipeline as MCP tools over stdio
//
// Supported OpenAPI versions are OAS 3.0.x and OAS 3.1.x.
//
// # Installation
//
// Install the library using go get:
//
//	go get github.com/castrlabs/castr
//
// # Quick Start
//
// Parse a specification and build its IR:
//
//	import (
//	    "github.com/castrlabs/castr/builder"
//	    "github.com/castrlabs/castr/parser"
//	)
//
//	parsed, err := parser.ParseWithOptions(parser.WithFilePath("openapi.yaml"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc, err := builder.BuildIR(parsed)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("components: %d, operations: %d\n", len(doc.Components), len(doc.Operations))
//
// Generate Go source from the IR:
//
//	import "github.com/castrlabs/castr/generator"
//
//	result, err := generator.Generate(doc, generator.WithPackageName("petstore"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := result.WriteFiles("./petstore"); err != nil {
//	    log.Fatal(err)
//	}
//
// Validate decoded data against a component schema:
//
//	import "github.com/castrlabs/castr/datavalidator"
//
//	v, err := datavalidator.New(datavalidator.WithDocument(doc))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	findings := v.Validate(payload, doc.SchemaComponent("Pet").Schema)
//	for _, f := range findings {
//	    fmt.Println(f.String())
//	}
//
// Inspect the dependency graph:
//
//	for _, ref := range doc.DependencyGraph.TopologicalOrder {
//	    node := doc.DependencyGraph.Nodes[ref]
//	    fmt.Printf("%s (depth %d, cyclic %v)\n", ref, node.Depth, node.IsCircular)
//	}
//
// # Command-Line Interface
//
// In addition to the library packages, castr provides a command-line
// interface:
//
//	# Build the IR for a spec
//	castr build openapi.yaml
//
//	# Print the dependency graph
//	castr graph openapi.yaml
//
//	# Generate Go code
//	castr generate -package petstore -output ./petstore openapi.yaml
//
//	# Validate a data file against a component schema
//	castr validate-data -schema Pet -data pet.json openapi.yaml
//
//	# Serve the MCP tools over stdio
//	castr mcp
//
// Install the CLI:
//
//	go install github.com/castrlabs/castr/cmd/castr@latest
//
// # Error Handling
//
// All packages follow consistent error handling patterns:
//
//   - Hard failures (unreadable input, malformed references, unresolvable
//     targets) are returned as typed errors from the castrerrors package and
//     match their sentinels via errors.Is
//   - Recoverable oddities surface as warnings on result types (parse
//     warnings, generate issues, validation findings), never as errors
//
// Always check both the error return value and any issue collections in
// result objects.
//
// # Additional Resources
//
//   - OpenAPI Specification: https://spec.openapis.org
//   - JSON Schema Specification: https://json-schema.org
//   - Go Package Documentation: https://pkg.go.dev/github.com/castrlabs/castr
package castr
