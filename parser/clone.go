package parser

// This file contains deep-copy support for Schema trees. The IR builder
// clones shared member schemas before patching them (allOf required-set
// merging), so schemas resolved out of a Document are never mutated.
//
// Decoded Schema trees are pointer-acyclic (the YAML decoder rejects
// anchors that contain themselves; $ref cycles are string-level), so the
// recursion terminates.

// Clone returns a deep copy of the schema. Nil in, nil out.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	out := *s

	out.Default = cloneJSONValue(s.Default)
	out.Examples = cloneAnySlice(s.Examples)
	out.Type = cloneSchemaType(s.Type)
	out.Enum = cloneAnySlice(s.Enum)
	out.Const = cloneJSONValue(s.Const)

	out.MultipleOf = cloneFloatPtr(s.MultipleOf)
	out.Maximum = cloneFloatPtr(s.Maximum)
	out.ExclusiveMaximum = cloneJSONValue(s.ExclusiveMaximum)
	out.Minimum = cloneFloatPtr(s.Minimum)
	out.ExclusiveMinimum = cloneJSONValue(s.ExclusiveMinimum)

	out.MaxLength = cloneIntPtr(s.MaxLength)
	out.MinLength = cloneIntPtr(s.MinLength)

	out.Items = s.Items.Clone()
	out.PrefixItems = cloneSchemaSlice(s.PrefixItems)
	out.UnevaluatedItems = cloneSchemaOrBool(s.UnevaluatedItems)
	out.MaxItems = cloneIntPtr(s.MaxItems)
	out.MinItems = cloneIntPtr(s.MinItems)
	out.Contains = s.Contains.Clone()
	out.MaxContains = cloneIntPtr(s.MaxContains)
	out.MinContains = cloneIntPtr(s.MinContains)

	out.Properties = cloneSchemaMap(s.Properties)
	out.AdditionalProperties = cloneSchemaOrBool(s.AdditionalProperties)
	out.UnevaluatedProperties = cloneSchemaOrBool(s.UnevaluatedProperties)
	out.Required = cloneStringSlice(s.Required)
	out.MaxProperties = cloneIntPtr(s.MaxProperties)
	out.MinProperties = cloneIntPtr(s.MinProperties)
	out.DependentRequired = cloneStringSliceMap(s.DependentRequired)
	out.DependentSchemas = cloneSchemaMap(s.DependentSchemas)
	out.PropertyOrder = cloneStringSlice(s.PropertyOrder)

	out.AllOf = cloneSchemaSlice(s.AllOf)
	out.AnyOf = cloneSchemaSlice(s.AnyOf)
	out.OneOf = cloneSchemaSlice(s.OneOf)
	out.Not = s.Not.Clone()

	out.Discriminator = s.Discriminator.clone()
	out.XML = s.XML.clone()
	out.ExternalDocs = s.ExternalDocs.clone()
	out.Example = cloneJSONValue(s.Example)
	out.Extra = cloneExtensions(s.Extra)

	return &out
}

func (d *Discriminator) clone() *Discriminator {
	if d == nil {
		return nil
	}
	out := *d
	if d.Mapping != nil {
		out.Mapping = make(map[string]string, len(d.Mapping))
		for k, v := range d.Mapping {
			out.Mapping[k] = v
		}
	}
	out.Extra = cloneExtensions(d.Extra)
	return &out
}

func (x *XML) clone() *XML {
	if x == nil {
		return nil
	}
	out := *x
	out.Extra = cloneExtensions(x.Extra)
	return &out
}

func (e *ExternalDocs) clone() *ExternalDocs {
	if e == nil {
		return nil
	}
	out := *e
	out.Extra = cloneExtensions(e.Extra)
	return &out
}

// cloneSchemaType handles Schema.Type, which is a string in OAS 3.0 and may
// be a []string (decoded as []any) type array in OAS 3.1.
func cloneSchemaType(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return t
	case []string:
		cp := make([]string, len(t))
		copy(cp, t)
		return cp
	case []any:
		cp := make([]any, len(t))
		copy(cp, t)
		return cp
	default:
		return v
	}
}

// cloneSchemaOrBool handles additionalProperties/unevaluated* fields, which
// hold a bool, a *Schema, or a raw decoded mapping.
func cloneSchemaOrBool(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case bool:
		return t
	case *Schema:
		return t.Clone()
	default:
		return cloneJSONValue(v)
	}
}

// cloneJSONValue recursively copies any JSON-compatible value (Default,
// Example, Const, extension payloads).
func cloneJSONValue(v any) any {
	switch t := v.(type) {
	case []any:
		cp := make([]any, len(t))
		for i, item := range t {
			cp[i] = cloneJSONValue(item)
		}
		return cp
	case map[string]any:
		cp := make(map[string]any, len(t))
		for k, item := range t {
			cp[k] = cloneJSONValue(item)
		}
		return cp
	default:
		// Scalars are immutable; unknown types pass through.
		return v
	}
}

func cloneAnySlice(v []any) []any {
	if v == nil {
		return nil
	}
	cp := make([]any, len(v))
	for i, item := range v {
		cp[i] = cloneJSONValue(item)
	}
	return cp
}

func cloneSchemaSlice(v []*Schema) []*Schema {
	if v == nil {
		return nil
	}
	cp := make([]*Schema, len(v))
	for i, s := range v {
		cp[i] = s.Clone()
	}
	return cp
}

func cloneSchemaMap(v map[string]*Schema) map[string]*Schema {
	if v == nil {
		return nil
	}
	cp := make(map[string]*Schema, len(v))
	for k, s := range v {
		cp[k] = s.Clone()
	}
	return cp
}

func cloneStringSlice(v []string) []string {
	if v == nil {
		return nil
	}
	cp := make([]string, len(v))
	copy(cp, v)
	return cp
}

func cloneStringSliceMap(v map[string][]string) map[string][]string {
	if v == nil {
		return nil
	}
	cp := make(map[string][]string, len(v))
	for k, s := range v {
		cp[k] = cloneStringSlice(s)
	}
	return cp
}

func cloneExtensions(v map[string]any) map[string]any {
	if v == nil {
		return nil
	}
	cp := make(map[string]any, len(v))
	for k, item := range v {
		cp[k] = cloneJSONValue(item)
	}
	return cp
}

func cloneFloatPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

func cloneIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}
