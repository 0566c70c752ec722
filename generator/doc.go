// Package generator renders an IR document into Go source.
//
// The generator consumes the normalized output of the builder package, so it
// never re-reads raw OpenAPI data: schema shapes arrive pre-classified by
// kind, presence and nullability are already resolved per reference site,
// and the dependency graph fixes the emission order. Object components
// become structs whose fields follow the source property order, enum
// components become defined types with a const block, and operations are
// summarized in an endpoint metadata table.
//
// # Basic usage
//
//	doc, err := builder.BuildIR(parsed)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := generator.Generate(doc, generator.WithPackageName("petstore"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := result.WriteFiles("./petstore"); err != nil {
//	    log.Fatal(err)
//	}
//
// Generated output is formatted with the goimports machinery; output that
// cannot be formatted is reported as a GenerateError rather than written
// through unformatted.
package generator
