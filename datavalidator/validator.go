package datavalidator

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/castrlabs/castr/ir"
)

// maxValidateDepth bounds schema recursion. Reference and composition hops
// consume no data depth, so a cyclic document could otherwise recurse
// forever over a single value.
const maxValidateDepth = 1000

// Validator checks decoded JSON/YAML values against IR schema nodes.
// It is safe for concurrent use.
//
// Create a Validator using the New function:
//
//	v, err := datavalidator.New(datavalidator.WithDocument(doc))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	findings := v.Validate(value, schema)
//	if len(findings) > 0 {
//	    // Handle validation findings
//	}
type Validator struct {
	// doc resolves reference nodes to their component schemas. May be nil.
	doc *ir.Document

	// patternCache caches compiled regex patterns keyed by pattern source.
	patternCache sync.Map

	// patternCount tracks the cache size for the eviction cap.
	patternCount atomic.Int32

	// redactValues controls whether finding messages include data values.
	redactValues bool
}

// New creates a Validator. Options supply the IR document for reference
// resolution and adjust message redaction.
func New(opts ...Option) (*Validator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.err != nil {
		return nil, cfg.err
	}
	return &Validator{
		doc:          cfg.doc,
		redactValues: cfg.redactValues,
	}, nil
}

// Validate checks value against schema and returns all findings in
// traversal order. An empty result means the value is valid. Finding paths
// are JSONPath expressions rooted at "$".
func (v *Validator) Validate(value any, schema *ir.Schema) []Finding {
	return v.validate(value, schema, "$", 0)
}

func (v *Validator) validate(value any, schema *ir.Schema, path string, depth int) []Finding {
	if schema == nil {
		return nil
	}
	if depth > maxValidateDepth {
		return []Finding{{
			Path:     path,
			Message:  "maximum validation depth exceeded",
			Severity: SeverityWarning,
		}}
	}

	// Nullability belongs to the reference site, so capture it before
	// resolving.
	nullable := schema.IsNullable()

	resolved, finding := v.resolve(schema, path)
	if finding != nil {
		return []Finding{*finding}
	}

	if value == nil {
		if nullable || resolved.IsNullable() || acceptsNull(resolved) {
			return nil
		}
		return []Finding{{
			Path:     path,
			Message:  "value cannot be null",
			Severity: SeverityError,
		}}
	}

	switch resolved.Kind {
	case ir.KindPrimitive:
		return v.validatePrimitive(value, resolved, path)
	case ir.KindObject:
		return v.validateObject(value, resolved, path, depth)
	case ir.KindArray:
		return v.validateArray(value, resolved, path, depth)
	case ir.KindComposition:
		return v.validateComposition(value, resolved, path, depth)
	}

	// KindUnknown and anything unrecognized accept any value.
	return nil
}

// resolve follows reference nodes to a structural target. The second
// return carries a finding when the chain cannot be followed.
func (v *Validator) resolve(schema *ir.Schema, path string) (*ir.Schema, *Finding) {
	s := schema
	var seen map[string]bool
	for s != nil && s.Kind == ir.KindReference {
		if v.doc == nil {
			return nil, &Finding{
				Path:     path,
				Message:  fmt.Sprintf("cannot resolve %s without a document", s.Ref),
				Severity: SeverityWarning,
			}
		}
		if seen[s.Ref] {
			return nil, &Finding{
				Path:     path,
				Message:  fmt.Sprintf("reference cycle through %s has no structural schema", s.Ref),
				Severity: SeverityWarning,
			}
		}
		if seen == nil {
			seen = make(map[string]bool)
		}
		seen[s.Ref] = true

		c := v.doc.ComponentByRef(s.Ref)
		if c == nil || c.Schema == nil {
			return nil, &Finding{
				Path:     path,
				Message:  fmt.Sprintf("unresolved reference %s", s.Ref),
				Severity: SeverityWarning,
			}
		}
		s = c.Schema
	}
	return s, nil
}

// validatePrimitive checks a scalar against its declared type, then
// applies chain constraints, enum membership, and const equality. When the
// type check fails the constraints are skipped so one wrong value does not
// cascade into a pile of findings.
func (v *Validator) validatePrimitive(value any, schema *ir.Schema, path string) []Finding {
	if f := v.checkType(value, schema, path); f != nil {
		return []Finding{*f}
	}

	var findings []Finding
	switch data := value.(type) {
	case string:
		findings = v.validateString(data, schema, path)
	case bool:
		// Booleans have no constraint facets.
	default:
		if n, ok := toNumber(value); ok {
			findings = v.validateNumber(n, schema, path)
		}
	}

	if len(schema.Enum) > 0 {
		findings = append(findings, v.validateEnum(value, schema.Enum, path)...)
	}
	if schema.Const != nil && !looseEqual(value, schema.Const) {
		msg := "value does not equal the const value"
		if !v.redactValues {
			msg = fmt.Sprintf("value %v does not equal const %v", value, schema.Const)
		}
		findings = append(findings, Finding{
			Path:     path,
			Message:  msg,
			Severity: SeverityError,
		})
	}
	return findings
}

// checkType verifies the decoded value's JSON type against the node's
// declared type. Whole float64 values satisfy integer, mirroring how JSON
// carries a single number type.
func (v *Validator) checkType(value any, schema *ir.Schema, path string) *Finding {
	if schema.Type == "" {
		return nil
	}
	dataType := jsonTypeOf(value)
	if !typeMatches(dataType, schema.Type) {
		return &Finding{
			Path:     path,
			Message:  fmt.Sprintf("expected type %s but got %s", schema.Type, dataType),
			Severity: SeverityError,
		}
	}
	if schema.Type == ir.TypeInteger {
		if f, ok := value.(float64); ok && f != float64(int64(f)) {
			msg := "value must be an integer"
			if !v.redactValues {
				msg = fmt.Sprintf("value %v must be an integer", f)
			}
			return &Finding{
				Path:     path,
				Message:  msg,
				Severity: SeverityError,
			}
		}
	}
	return nil
}

// validateString applies chain constraints to a string: min and max bound
// the length, pattern compiles through the cache, and format names check
// against the fixed format table.
func (v *Validator) validateString(s string, schema *ir.Schema, path string) []Finding {
	var findings []Finding
	for _, c := range chainValidations(schema) {
		name, arg, ok := splitConstraint(c)
		if !ok {
			continue
		}
		switch name {
		case "min":
			if n, err := strconv.Atoi(arg); err == nil && len(s) < n {
				findings = append(findings, Finding{
					Path:     path,
					Message:  fmt.Sprintf("string length %d is less than minimum %d", len(s), n),
					Severity: SeverityError,
				})
			}
		case "max":
			if n, err := strconv.Atoi(arg); err == nil && len(s) > n {
				findings = append(findings, Finding{
					Path:     path,
					Message:  fmt.Sprintf("string length %d exceeds maximum %d", len(s), n),
					Severity: SeverityError,
				})
			}
		case "pattern":
			findings = append(findings, v.checkPattern(arg, s, path)...)
		case "format":
			findings = append(findings, v.checkFormat(s, arg, path)...)
		}
	}
	return findings
}

// validateNumber applies chain bounds to a numeric value. Integer data is
// widened to float64 first, the same shape JSON decoding produces.
func (v *Validator) validateNumber(n float64, schema *ir.Schema, path string) []Finding {
	var findings []Finding
	for _, c := range chainValidations(schema) {
		name, arg, ok := splitConstraint(c)
		if !ok {
			continue
		}
		bound, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			continue
		}
		switch name {
		case "min":
			if n < bound {
				findings = append(findings, Finding{
					Path:     path,
					Message:  fmt.Sprintf("value %v is less than minimum %v", n, bound),
					Severity: SeverityError,
				})
			}
		case "max":
			if n > bound {
				findings = append(findings, Finding{
					Path:     path,
					Message:  fmt.Sprintf("value %v exceeds maximum %v", n, bound),
					Severity: SeverityError,
				})
			}
		case "gt":
			if n <= bound {
				findings = append(findings, Finding{
					Path:     path,
					Message:  fmt.Sprintf("value %v must be greater than %v", n, bound),
					Severity: SeverityError,
				})
			}
		case "lt":
			if n >= bound {
				findings = append(findings, Finding{
					Path:     path,
					Message:  fmt.Sprintf("value %v must be less than %v", n, bound),
					Severity: SeverityError,
				})
			}
		case "multipleOf":
			if bound != 0 {
				q := n / bound
				if q != float64(int64(q)) {
					findings = append(findings, Finding{
						Path:     path,
						Message:  fmt.Sprintf("value %v is not a multiple of %v", n, bound),
						Severity: SeverityError,
					})
				}
			}
		}
	}
	return findings
}

// validateArray applies count constraints and recurses into elements.
// Tuple nodes check positional prefixes first; Items covers the rest.
func (v *Validator) validateArray(value any, schema *ir.Schema, path string, depth int) []Finding {
	arr, ok := value.([]any)
	if !ok {
		got := jsonTypeOf(value)
		if got == ir.TypeArray {
			// Array-ish Go value that is not decoded JSON, e.g. []string.
			got = fmt.Sprintf("%T", value)
		}
		return []Finding{{
			Path:     path,
			Message:  fmt.Sprintf("expected type array but got %s", got),
			Severity: SeverityError,
		}}
	}

	var findings []Finding
	for _, c := range chainValidations(schema) {
		name, arg, ok := splitConstraint(c)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(arg)
		if err != nil {
			continue
		}
		switch name {
		case "min":
			if len(arr) < n {
				findings = append(findings, Finding{
					Path:     path,
					Message:  fmt.Sprintf("array has %d items, minimum is %d", len(arr), n),
					Severity: SeverityError,
				})
			}
		case "max":
			if len(arr) > n {
				findings = append(findings, Finding{
					Path:     path,
					Message:  fmt.Sprintf("array has %d items, maximum is %d", len(arr), n),
					Severity: SeverityError,
				})
			}
		}
	}

	if schema.UniqueItems && hasDuplicates(arr) {
		findings = append(findings, Finding{
			Path:     path,
			Message:  "array items must be unique",
			Severity: SeverityError,
		})
	}

	for i, item := range arr {
		itemSchema := schema.Items
		if i < len(schema.TupleItems) {
			itemSchema = schema.TupleItems[i]
		}
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		findings = append(findings, v.validate(item, itemSchema, itemPath, depth+1)...)
	}
	return findings
}

// validateObject checks required properties, recurses into property
// values, enforces additionalProperties, and applies property-count
// constraints. Properties are visited in sorted order so the same input
// always yields the same finding sequence.
func (v *Validator) validateObject(value any, schema *ir.Schema, path string, depth int) []Finding {
	obj, ok := value.(map[string]any)
	if !ok {
		got := jsonTypeOf(value)
		if got == ir.TypeObject {
			got = fmt.Sprintf("%T", value)
		}
		return []Finding{{
			Path:     path,
			Message:  fmt.Sprintf("expected type object but got %s", got),
			Severity: SeverityError,
		}}
	}

	var findings []Finding
	for _, req := range schema.Required {
		if _, exists := obj[req]; !exists {
			findings = append(findings, Finding{
				Path:     childPath(path, req),
				Message:  fmt.Sprintf("required property %q is missing", req),
				Severity: SeverityError,
			})
		}
	}

	for _, c := range chainValidations(schema) {
		name, arg, ok := splitConstraint(c)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(arg)
		if err != nil {
			continue
		}
		switch name {
		case "min":
			if len(obj) < n {
				findings = append(findings, Finding{
					Path:     path,
					Message:  fmt.Sprintf("object has %d properties, minimum is %d", len(obj), n),
					Severity: SeverityError,
				})
			}
		case "max":
			if len(obj) > n {
				findings = append(findings, Finding{
					Path:     path,
					Message:  fmt.Sprintf("object has %d properties, maximum is %d", len(obj), n),
					Severity: SeverityError,
				})
			}
		}
	}

	names := make([]string, 0, len(obj))
	for name := range obj {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		propPath := childPath(path, name)
		if prop, defined := propertySchema(schema, name); defined {
			findings = append(findings, v.validate(obj[name], prop, propPath, depth+1)...)
			continue
		}
		switch {
		case schema.AdditionalProperties == nil:
			// Undeclared additionalProperties allows anything.
		case schema.AdditionalProperties.Schema != nil:
			findings = append(findings, v.validate(obj[name], schema.AdditionalProperties.Schema, propPath, depth+1)...)
		case !schema.AdditionalProperties.Allows():
			findings = append(findings, Finding{
				Path:     propPath,
				Message:  fmt.Sprintf("additional property %q is not allowed", name),
				Severity: SeverityError,
			})
		}
	}
	return findings
}

// validateComposition applies the matching rule for the node's composition
// kind: allOf requires every member to match, anyOf at least one, and
// oneOf exactly one.
func (v *Validator) validateComposition(value any, schema *ir.Schema, path string, depth int) []Finding {
	members := schema.Members()
	if len(members) == 0 {
		return nil
	}

	switch schema.CompositionKind {
	case ir.CompositionAllOf:
		var findings []Finding
		for i, member := range members {
			sub := v.validate(value, member, path, depth+1)
			if len(sub) > 0 {
				findings = append(findings, Finding{
					Path:     path,
					Message:  fmt.Sprintf("allOf[%d] validation failed", i),
					Severity: SeverityError,
				})
				findings = append(findings, sub...)
			}
		}
		return findings

	case ir.CompositionAnyOf:
		for _, member := range members {
			if len(v.validate(value, member, path, depth+1)) == 0 {
				return nil
			}
		}
		return []Finding{{
			Path:     path,
			Message:  "value does not match any of the anyOf schemas",
			Severity: SeverityError,
		}}

	case ir.CompositionOneOf:
		matches := 0
		for _, member := range members {
			if len(v.validate(value, member, path, depth+1)) == 0 {
				matches++
			}
		}
		if matches == 0 {
			return []Finding{{
				Path:     path,
				Message:  "value does not match any of the oneOf schemas",
				Severity: SeverityError,
			}}
		}
		if matches > 1 {
			return []Finding{{
				Path:     path,
				Message:  fmt.Sprintf("value matches %d oneOf schemas, expected exactly 1", matches),
				Severity: SeverityError,
			}}
		}
	}
	return nil
}

// validateEnum checks membership against the enum list.
func (v *Validator) validateEnum(value any, allowed []any, path string) []Finding {
	for _, want := range allowed {
		if looseEqual(value, want) {
			return nil
		}
	}

	msg := "value is not one of the allowed values"
	if !v.redactValues {
		msg = fmt.Sprintf("value %v is not one of the allowed values", value)
	}
	return []Finding{{
		Path:     path,
		Message:  msg,
		Severity: SeverityError,
	}}
}

// Helper functions

// acceptsNull reports whether a structural node admits null directly.
func acceptsNull(schema *ir.Schema) bool {
	return schema != nil && schema.Kind == ir.KindPrimitive && schema.Type == ir.TypeNull
}

// chainValidations returns the node's constraint descriptors, or nil when
// no metadata is attached.
func chainValidations(s *ir.Schema) []string {
	if s.Metadata == nil {
		return nil
	}
	return s.Metadata.Chain.Validations
}

// propertySchema looks up a declared property by name.
func propertySchema(s *ir.Schema, name string) (*ir.Schema, bool) {
	if s.Properties == nil {
		return nil, false
	}
	return s.Properties.Get(name)
}

// childPath appends a property segment, bracketing names that would not
// survive dot notation.
func childPath(path, name string) string {
	if isPlainKey(name) {
		return path + "." + name
	}
	return path + "['" + strings.ReplaceAll(name, "'", "\\'") + "']"
}

// isPlainKey reports whether a property name is safe for JSONPath dot
// notation.
func isPlainKey(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// jsonTypeOf classifies a decoded Go value as a JSON type name. Values
// outside the decoded JSON/YAML type set classify through reflection so
// foreign input reports a mismatch instead of panicking.
func jsonTypeOf(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64, float32:
		return "number"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "integer"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map:
		return "object"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	}
	return "unknown"
}

// typeMatches reports whether a data type satisfies a declared type.
// Integer data satisfies number; number data provisionally satisfies
// integer pending the fractional-part check.
func typeMatches(dataType, schemaType string) bool {
	if dataType == schemaType {
		return true
	}
	if schemaType == ir.TypeNumber && dataType == ir.TypeInteger {
		return true
	}
	if schemaType == ir.TypeInteger && dataType == ir.TypeNumber {
		return true
	}
	return false
}

// toNumber converts the numeric types JSON and YAML decoding produce.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// looseEqual compares a decoded value to a schema literal. JSON decodes
// every number to float64 while YAML produces int, so numeric values
// compare numerically; everything else uses deep equality.
func looseEqual(a, b any) bool {
	if an, aok := toNumber(a); aok {
		if bn, bok := toNumber(b); bok {
			return an == bn
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

// hasDuplicates reports duplicate array members using a printed-form key.
func hasDuplicates(arr []any) bool {
	seen := make(map[string]bool, len(arr))
	for _, item := range arr {
		key := fmt.Sprintf("%T:%v", item, item)
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}
