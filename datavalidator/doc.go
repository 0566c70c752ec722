// Package datavalidator checks decoded JSON and YAML values against IR
// schema nodes.
//
// Where code generators render validation chains into another language's
// syntax, this package interprets the chain directly over plain decoded
// data (map[string]any, []any, and scalars): kind and type checks, required
// properties, constraint descriptors, enum membership, composition
// matching, and format checks.
//
// # Basic usage
//
//	doc, err := builder.BuildIR(parsed)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	v, err := datavalidator.New(datavalidator.WithDocument(doc))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	findings := v.Validate(payload, doc.SchemaComponent("Pet").Schema)
//	for _, f := range findings {
//	    fmt.Println(f.String())
//	}
//
// Findings carry JSONPath locations rooted at "$". Validation never panics
// on foreign input: values outside the decoded JSON/YAML type set report a
// type mismatch instead.
package datavalidator
