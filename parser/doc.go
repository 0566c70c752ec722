// Package parser loads OpenAPI 3.x documents into the in-memory model that
// the castr IR pipeline consumes.
//
// Import path: github.com/castrlabs/castr/parser
//
// The package decodes YAML or JSON sources (yaml/v4 reads both), detects the
// OAS version, captures component declaration order, and performs basic
// structure validation. It also provides the reference machinery the rest of
// castr builds on: [ParseRef] for breaking a $ref string into its component
// type and name, and [Resolver] for looking references up in a document's
// component table.
//
// # Parsing
//
//	result, err := parser.ParseWithOptions(
//	    parser.WithFilePath("openapi.yaml"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc := result.Document
//
// # Reference formats
//
// Four $ref forms are accepted:
//
//	#/components/{type}/{name}            canonical internal reference
//	#/x-ext/{hash}/components/{type}/{name}  bundled external reference
//	#components/{type}/{name}             legacy form without leading slash
//	{name}                                bare name, implies components/schemas
//
// Anything else fails with a [castrerrors.MalformedRefError]. Resolution
// failures are [castrerrors.UnresolvedReferenceError]; neither is ever
// silently swallowed.
package parser
