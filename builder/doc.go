// Package builder constructs the castr intermediate representation.
//
// The builder turns a parsed OpenAPI document into an [ir.Document]: every
// named component and every operation becomes a normalized IR node annotated
// with the metadata writers consume (requiredness, nullability, validation
// chain, composition shape, dependency info). Writers never re-derive these
// from raw OpenAPI.
//
// # Building IR from OpenAPI
//
//	parsed, err := parser.ParseWithOptions(parser.WithFilePath("api.yaml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	doc, err := builder.BuildIR(parsed)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, ref := range doc.DependencyGraph.TopologicalOrder {
//		fmt.Println(ref)
//	}
//
// Building is a pure function of the input document: the same document always
// produces the same IR, byte for byte once serialized. A single invalid
// schema anywhere aborts the whole build; there is no partial or best-effort
// IR. Failures carry the offending ref or type value and the document path
// where it occurred (see the castrerrors package).
//
// # Building IR from Go types
//
// The reverse direction generates IR schema nodes from Go types via
// reflection:
//
//	r := builder.NewReflector()
//	schema, err := r.Schema(User{})
//
// Type mappings:
//   - string → string
//   - int, int8, int16, int32 → integer (format: int32)
//   - int64, uint, uint64 → integer (format: int64)
//   - float32 → number (format: float)
//   - float64 → number (format: double)
//   - bool → boolean
//   - []T → array (items from T)
//   - []byte → string (format: byte)
//   - map[string]T → object (additionalProperties from T)
//   - struct → object (properties from fields, json tags for names)
//   - *T → schema of T, nullable and optional
//   - time.Time → string (format: date-time)
//   - uuid.UUID → string (format: uuid)
//
// Fields may carry a castr struct tag to refine the generated node:
//
//	type User struct {
//		Name  string `json:"name" castr:"minLength=1,maxLength=100"`
//		Email string `json:"email" castr:"format=email"`
//		Role  string `json:"role,omitempty" castr:"enum=admin|member,default=member"`
//	}
//
// Supported keys: title, description, format, pattern, enum (pipe
// separated), default, required, nullable, deprecated, minLength,
// maxLength, minItems, maxItems, minimum, maximum, multipleOf.
//
// Both directions produce the same ir.Schema shapes, so downstream consumers
// do not care which side a schema came from.
//
// Builder and Reflector instances are not safe for concurrent use. Create
// separate instances for concurrent builds.
package builder
