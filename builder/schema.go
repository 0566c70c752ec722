package builder

import (
	"errors"
	"slices"
	"sort"

	"go.yaml.in/yaml/v4"

	"github.com/castrlabs/castr/castrerrors"
	"github.com/castrlabs/castr/internal/maputil"
	"github.com/castrlabs/castr/ir"
	"github.com/castrlabs/castr/parser"
)

// dispatchEntry pairs a match predicate with the node builder it selects.
// The table is ordered; the first matching entry wins.
type dispatchEntry struct {
	name  string
	match func(*parser.Schema) bool
	build func(*buildContext, *parser.Schema, site) (*ir.Schema, error)
}

// dispatchTable returns the schema dispatch table in evaluation order:
// reference, type array, explicit null, oneOf, anyOf, allOf, primitive,
// array, object, untyped. A schema matching none of these has a type value
// castr does not support.
func dispatchTable() []dispatchEntry {
	return []dispatchEntry{
		{name: "reference", match: func(s *parser.Schema) bool { return s.Ref != "" }, build: buildReference},
		{name: "typeArray", match: func(s *parser.Schema) bool { return typeList(s) != nil }, build: buildTypeArray},
		{name: "null", match: func(s *parser.Schema) bool { return typeString(s) == ir.TypeNull }, build: buildNull},
		{name: "oneOf", match: func(s *parser.Schema) bool { return s.OneOf != nil }, build: buildOneOf},
		{name: "anyOf", match: func(s *parser.Schema) bool { return s.AnyOf != nil }, build: buildAnyOf},
		{name: "allOf", match: func(s *parser.Schema) bool { return s.AllOf != nil }, build: buildAllOf},
		{name: "primitive", match: matchPrimitive, build: buildPrimitive},
		{name: "array", match: matchArray, build: buildArray},
		{name: "object", match: matchObject, build: buildObject},
		{name: "unknown", match: func(s *parser.Schema) bool { return s.Type == nil }, build: buildUnknown},
	}
}

func matchPrimitive(s *parser.Schema) bool {
	switch typeString(s) {
	case ir.TypeString, ir.TypeNumber, ir.TypeInteger, ir.TypeBoolean:
		return true
	}
	return false
}

func matchArray(s *parser.Schema) bool {
	return typeString(s) == ir.TypeArray || s.Items != nil || len(s.PrefixItems) > 0
}

func matchObject(s *parser.Schema) bool {
	return typeString(s) == ir.TypeObject || s.Properties != nil || s.AdditionalProperties != nil
}

// typeString returns the scalar type value, or empty when type is absent or
// an array.
func typeString(s *parser.Schema) string {
	t, _ := s.Type.(string)
	return t
}

// typeList returns the type array entries, or nil when type is not an array.
// Parsed documents produce []any; hand-built schemas may use []string.
func typeList(s *parser.Schema) []any {
	switch t := s.Type.(type) {
	case []any:
		return t
	case []string:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = v
		}
		return out
	}
	return nil
}

// buildSchema converts one raw schema node into one IR node with full
// metadata. Every recursive schema position in the builder funnels through
// here.
func (bc *buildContext) buildSchema(s *parser.Schema, st site) (*ir.Schema, error) {
	if s == nil {
		return nil, &castrerrors.UnsupportedSchemaTypeError{Location: bc.path.String()}
	}
	for _, entry := range bc.b.dispatch {
		if entry.match(s) {
			return entry.build(bc, s, st)
		}
	}
	return nil, &castrerrors.UnsupportedSchemaTypeError{Type: s.Type, Location: bc.path.String()}
}

// buildAt runs a child build with one extra path segment, keeping the
// diagnostics path balanced on both success and failure.
func (bc *buildContext) buildAt(segment string, s *parser.Schema, st site) (*ir.Schema, error) {
	bc.path.Push(segment)
	node, err := bc.buildSchema(s, st)
	bc.path.Pop()
	return node, err
}

// buildAtIndex is buildAt for slice positions.
func (bc *buildContext) buildAtIndex(i int, s *parser.Schema, st site) (*ir.Schema, error) {
	bc.path.PushIndex(i)
	node, err := bc.buildSchema(s, st)
	bc.path.Pop()
	return node, err
}

// metadataFor builds the standard metadata for a node at a site.
func (bc *buildContext) metadataFor(s *parser.Schema, st site) *ir.Metadata {
	return &ir.Metadata{
		Required: st.required,
		Nullable: s.Nullable,
		Chain:    bc.chainFor(s, st),
	}
}

// applyAnnotations copies the documentation facets every kind shares. The
// 3.1 examples list collapses to its first entry when no 3.0 example is set.
func applyAnnotations(node *ir.Schema, s *parser.Schema) {
	node.Title = s.Title
	node.Description = s.Description
	node.Default = s.Default
	node.Example = s.Example
	if node.Example == nil && len(s.Examples) > 0 {
		node.Example = s.Examples[0]
	}
	node.Deprecated = s.Deprecated
	node.ReadOnly = s.ReadOnly
	node.WriteOnly = s.WriteOnly
	if s.XML != nil {
		node.XML = &ir.XML{
			Name:      s.XML.Name,
			Namespace: s.XML.Namespace,
			Prefix:    s.XML.Prefix,
			Attribute: s.XML.Attribute,
			Wrapped:   s.XML.Wrapped,
		}
	}
	if s.ExternalDocs != nil {
		node.ExternalDocs = &ir.ExternalDocs{
			URL:         s.ExternalDocs.URL,
			Description: s.ExternalDocs.Description,
		}
	}
}

// buildReference emits a reference node. The target must exist in the
// component tables, but it is never inlined; writers follow references
// themselves using the dependency graph. A reference to a component
// currently on the build stack closes a cycle and is recorded as such.
func buildReference(bc *buildContext, s *parser.Schema, st site) (*ir.Schema, error) {
	ref, err := parser.ParseRef(s.Ref)
	if err != nil {
		return nil, err
	}
	canonical := ref.String()

	if err := bc.checkTarget(ref); err != nil {
		return nil, err
	}

	node := &ir.Schema{
		Kind:     ir.KindReference,
		Ref:      canonical,
		Metadata: bc.metadataFor(s, st),
	}
	if bc.building[canonical] {
		node.Metadata.CircularReferences = []string{canonical}
	}
	applyAnnotations(node, s)
	return node, nil
}

// checkTarget verifies the referenced component exists. Schema refs are a
// single table lookup since schema cycles are legal; other component types
// follow alias chains to a concrete definition.
func (bc *buildContext) checkTarget(ref parser.Ref) error {
	var err error
	switch ref.Type {
	case parser.ComponentSchemas:
		_, err = bc.resolver.Schema(ref)
	case parser.ComponentParameters:
		_, err = bc.resolver.Parameter(ref)
	case parser.ComponentResponses:
		_, err = bc.resolver.Response(ref)
	case parser.ComponentRequestBodies:
		_, err = bc.resolver.RequestBody(ref)
	case parser.ComponentHeaders:
		_, err = bc.resolver.Header(ref)
	case parser.ComponentSecuritySchemes:
		_, err = bc.resolver.SecurityScheme(ref)
	default:
		err = &castrerrors.UnresolvedReferenceError{Ref: ref.Raw}
	}
	return bc.withLocation(err)
}

// withLocation stamps the current diagnostics path onto resolution errors
// that lack one.
func (bc *buildContext) withLocation(err error) error {
	if err == nil {
		return nil
	}
	var unres *castrerrors.UnresolvedReferenceError
	if errors.As(err, &unres) && unres.Location == "" {
		unres.Location = bc.path.String()
	}
	return err
}

// buildTypeArray normalizes a 3.1 type array. A lone "null" entry is the
// null primitive; one non-null entry narrows to that type with nullability
// folded into metadata; several non-null entries synthesize an anyOf of
// single-type variants so no node downstream ever carries two types.
func buildTypeArray(bc *buildContext, s *parser.Schema, st site) (*ir.Schema, error) {
	var names []string
	nullable := false
	for _, e := range typeList(s) {
		name, ok := e.(string)
		if !ok {
			return nil, &castrerrors.UnsupportedSchemaTypeError{Type: s.Type, Location: bc.path.String()}
		}
		if name == ir.TypeNull {
			nullable = true
			continue
		}
		names = append(names, name)
	}

	switch len(names) {
	case 0:
		if !nullable {
			return nil, &castrerrors.UnsupportedSchemaTypeError{Type: s.Type, Location: bc.path.String()}
		}
		node := &ir.Schema{
			Kind:     ir.KindPrimitive,
			Type:     ir.TypeNull,
			Metadata: bc.metadataFor(s, st),
		}
		node.Metadata.Nullable = true
		applyAnnotations(node, s)
		return node, nil

	case 1:
		narrowed := s.Clone()
		narrowed.Type = names[0]
		node, err := bc.buildSchema(narrowed, st)
		if err != nil {
			return nil, err
		}
		if nullable {
			node.Metadata.Nullable = true
		}
		return node, nil

	default:
		members := make([]*ir.Schema, 0, len(names))
		bc.path.Push("type")
		for i, name := range names {
			variant := s.Clone()
			variant.Type = name
			variant.Default = nil
			member, err := bc.buildAtIndex(i, variant, memberSite())
			if err != nil {
				bc.path.Pop()
				return nil, err
			}
			members = append(members, member)
		}
		bc.path.Pop()

		node := &ir.Schema{
			Kind:            ir.KindComposition,
			CompositionKind: ir.CompositionAnyOf,
			AnyOf:           members,
			Metadata: &ir.Metadata{
				Required: st.required,
				Nullable: s.Nullable || nullable,
				Chain: ir.ValidationChain{
					Presence: st.presence,
					Defaults: bc.defaultsFor(s),
				},
			},
		}
		applyAnnotations(node, s)
		return node, nil
	}
}

// buildNull handles the explicit 3.1 null type.
func buildNull(bc *buildContext, s *parser.Schema, st site) (*ir.Schema, error) {
	node := &ir.Schema{
		Kind:     ir.KindPrimitive,
		Type:     ir.TypeNull,
		Metadata: bc.metadataFor(s, st),
	}
	node.Metadata.Nullable = true
	applyAnnotations(node, s)
	return node, nil
}

// buildPrimitive handles string, number, integer, and boolean nodes,
// including their enum and const forms. A single-value enum or a const sets
// ConstLiteral so writers emit a literal; the distinction is decided here,
// once.
func buildPrimitive(bc *buildContext, s *parser.Schema, st site) (*ir.Schema, error) {
	if s.Enum != nil && len(s.Enum) == 0 {
		return nil, &castrerrors.EmptyEnumError{Location: bc.path.String()}
	}

	node := &ir.Schema{
		Kind:     ir.KindPrimitive,
		Type:     typeString(s),
		Format:   s.Format,
		Const:    s.Const,
		Metadata: bc.metadataFor(s, st),
	}
	if len(s.Enum) > 0 {
		node.Enum = append([]any(nil), s.Enum...)
	}
	if len(s.Enum) == 1 || s.Const != nil {
		node.Metadata.Chain.ConstLiteral = true
	}
	applyAnnotations(node, s)
	return node, nil
}

// buildArray handles list and tuple arrays. Item and tuple schemas build as
// members: there is no optional tuple slot, so presence wrapping is
// suppressed for them.
func buildArray(bc *buildContext, s *parser.Schema, st site) (*ir.Schema, error) {
	node := &ir.Schema{
		Kind:        ir.KindArray,
		MinItems:    intPtr(s.MinItems),
		MaxItems:    intPtr(s.MaxItems),
		UniqueItems: s.UniqueItems,
		MinContains: intPtr(s.MinContains),
		MaxContains: intPtr(s.MaxContains),
		Metadata:    bc.metadataFor(s, st),
	}

	if len(s.PrefixItems) > 0 {
		node.TupleItems = make([]*ir.Schema, 0, len(s.PrefixItems))
		bc.path.Push("prefixItems")
		for i, item := range s.PrefixItems {
			built, err := bc.buildAtIndex(i, item, memberSite())
			if err != nil {
				bc.path.Pop()
				return nil, err
			}
			node.TupleItems = append(node.TupleItems, built)
		}
		bc.path.Pop()
	}
	if s.Items != nil {
		built, err := bc.buildAt("items", s.Items, memberSite())
		if err != nil {
			return nil, err
		}
		node.Items = built
	}
	if s.Contains != nil {
		built, err := bc.buildAt("contains", s.Contains, memberSite())
		if err != nil {
			return nil, err
		}
		node.Contains = built
	}

	ui, err := bc.coerceBoolOrSchema("unevaluatedItems", s.UnevaluatedItems)
	if err != nil {
		return nil, err
	}
	node.UnevaluatedItems = ui

	applyAnnotations(node, s)
	return node, nil
}

// buildObject handles object nodes. Properties build in source declaration
// order; each property's requiredness comes from membership in this object's
// required set and nothing else.
func buildObject(bc *buildContext, s *parser.Schema, st site) (*ir.Schema, error) {
	node := &ir.Schema{
		Kind:     ir.KindObject,
		Metadata: bc.metadataFor(s, st),
	}

	if s.Properties != nil {
		required := make(map[string]bool, len(s.Required))
		for _, name := range s.Required {
			required[name] = true
		}

		node.Properties = ir.NewProperties(len(s.Properties))
		bc.path.Push("properties")
		for _, name := range propertyNames(s) {
			prop := s.Properties[name]
			if prop == nil {
				continue
			}
			built, err := bc.buildAt(name, prop, propertySite(required[name]))
			if err != nil {
				bc.path.Pop()
				return nil, err
			}
			node.Properties.Set(name, built)
		}
		bc.path.Pop()
	}

	if len(s.Required) > 0 {
		node.Required = append([]string(nil), s.Required...)
		slices.Sort(node.Required)
		node.Required = slices.Compact(node.Required)
	}

	ap, err := bc.coerceBoolOrSchema("additionalProperties", s.AdditionalProperties)
	if err != nil {
		return nil, err
	}
	node.AdditionalProperties = ap

	up, err := bc.coerceBoolOrSchema("unevaluatedProperties", s.UnevaluatedProperties)
	if err != nil {
		return nil, err
	}
	node.UnevaluatedProperties = up

	if len(s.DependentSchemas) > 0 {
		node.DependentSchemas = make(map[string]*ir.Schema, len(s.DependentSchemas))
		bc.path.Push("dependentSchemas")
		for _, name := range maputil.SortedKeys(s.DependentSchemas) {
			dep := s.DependentSchemas[name]
			if dep == nil {
				continue
			}
			built, err := bc.buildAt(name, dep, memberSite())
			if err != nil {
				bc.path.Pop()
				return nil, err
			}
			node.DependentSchemas[name] = built
		}
		bc.path.Pop()
	}
	if len(s.DependentRequired) > 0 {
		node.DependentRequired = make(map[string][]string, len(s.DependentRequired))
		for name, deps := range s.DependentRequired {
			node.DependentRequired[name] = append([]string(nil), deps...)
		}
	}

	applyAnnotations(node, s)
	return node, nil
}

// buildUnknown handles untyped schemas. Untyped enums keep their values so
// writers can still emit an enumeration without a base type.
func buildUnknown(bc *buildContext, s *parser.Schema, st site) (*ir.Schema, error) {
	if s.Enum != nil && len(s.Enum) == 0 {
		return nil, &castrerrors.EmptyEnumError{Location: bc.path.String()}
	}

	node := &ir.Schema{
		Kind:     ir.KindUnknown,
		Const:    s.Const,
		Metadata: bc.metadataFor(s, st),
	}
	if len(s.Enum) > 0 {
		node.Enum = append([]any(nil), s.Enum...)
	}
	if len(s.Enum) == 1 || s.Const != nil {
		node.Metadata.Chain.ConstLiteral = true
	}
	applyAnnotations(node, s)
	return node, nil
}

// coerceBoolOrSchema converts an any-typed boolean-or-schema facet into the
// IR form, building schema values recursively. Raw maps appear when a
// schema is constructed in Go rather than parsed; they re-decode through
// YAML so hand-built and parsed documents behave alike.
func (bc *buildContext) coerceBoolOrSchema(facet string, v any) (*ir.BoolOrSchema, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case bool:
		return ir.AllowsBool(val), nil
	case *parser.Schema:
		built, err := bc.buildAt(facet, val, memberSite())
		if err != nil {
			return nil, err
		}
		return ir.AllowsSchema(built), nil
	case map[string]any:
		raw, err := yaml.Marshal(val)
		if err != nil {
			return nil, &castrerrors.UnsupportedSchemaTypeError{Type: val, Location: bc.path.String()}
		}
		var s parser.Schema
		if err := yaml.Unmarshal(raw, &s); err != nil {
			return nil, &castrerrors.UnsupportedSchemaTypeError{Type: val, Location: bc.path.String()}
		}
		built, err := bc.buildAt(facet, &s, memberSite())
		if err != nil {
			return nil, err
		}
		return ir.AllowsSchema(built), nil
	default:
		return nil, &castrerrors.UnsupportedSchemaTypeError{Type: v, Location: bc.path.String()}
	}
}

// propertyNames returns property names in source declaration order, with
// keys missing from the recorded order (hand-built schemas) appended in
// sorted order.
func propertyNames(s *parser.Schema) []string {
	names := make([]string, 0, len(s.Properties))
	seen := make(map[string]bool, len(s.Properties))
	for _, name := range s.PropertyOrder {
		if _, ok := s.Properties[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range s.Properties {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

func intPtr(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
