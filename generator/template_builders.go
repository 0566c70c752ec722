package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/castrlabs/castr/ir"
)

// genContext carries the state of one generation run.
type genContext struct {
	cfg    *config
	doc    *ir.Document
	result *GenerateResult

	// typeNames maps canonical component refs to their Go type names.
	typeNames map[string]string
	// cyclic marks refs that sit on at least one reference cycle.
	cyclic map[string]bool
}

func newGenContext(cfg *config, doc *ir.Document, result *GenerateResult) *genContext {
	gen := &genContext{
		cfg:       cfg,
		doc:       doc,
		result:    result,
		typeNames: make(map[string]string),
		cyclic:    make(map[string]bool),
	}
	gen.assignTypeNames()
	if g := doc.DependencyGraph; g != nil {
		for _, cycle := range g.CircularReferences {
			for _, ref := range cycle {
				gen.cyclic[ref] = true
			}
		}
	}
	return gen
}

// assignTypeNames gives every schema component a unique Go type name.
// Assignment runs in declaration order so collision suffixes are
// deterministic (e.g. "user_profile" and "UserProfile" both map to
// UserProfile; the second declared becomes UserProfile2).
func (gen *genContext) assignTypeNames() {
	used := make(map[string]bool)
	for _, comp := range gen.doc.Components {
		if comp.Kind != ir.ComponentSchema {
			continue
		}
		name := toTypeName(comp.Name)
		if used[name] {
			base := name
			for n := 2; used[name]; n++ {
				name = fmt.Sprintf("%s%d", base, n)
			}
			gen.addIssue(comp.Ref,
				fmt.Sprintf("type name %s already taken, using %s", base, name),
				SeverityWarning)
		}
		used[name] = true
		gen.typeNames[comp.Ref] = name
	}
}

// emissionOrder returns the schema components leaves-first, so generated
// declarations read dependencies before dependents. Components missing from
// the graph keep their declaration position at the end.
func (gen *genContext) emissionOrder() []*ir.Component {
	var order []*ir.Component
	seen := make(map[string]bool)
	if g := gen.doc.DependencyGraph; g != nil {
		for _, ref := range g.TopologicalOrder {
			comp := gen.doc.ComponentByRef(ref)
			if comp != nil && comp.Kind == ir.ComponentSchema {
				order = append(order, comp)
				seen[ref] = true
			}
		}
	}
	for _, comp := range gen.doc.Components {
		if comp.Kind == ir.ComponentSchema && !seen[comp.Ref] {
			order = append(order, comp)
		}
	}
	return order
}

// buildTypesFileData builds the template data for the types.go file.
func (gen *genContext) buildTypesFileData() *TypesFileData {
	data := &TypesFileData{
		Header: HeaderData{PackageName: gen.cfg.packageName},
	}
	for _, comp := range gen.emissionOrder() {
		typeDef := gen.buildTypeDefinition(comp)
		data.Types = append(data.Types, typeDef)
		gen.result.GeneratedTypes++
		if typeDef.Kind == "enum" {
			gen.result.GeneratedEnums++
		}
	}
	return data
}

// buildTypeDefinition dispatches on the component schema's kind.
func (gen *genContext) buildTypeDefinition(comp *ir.Component) TypeDefinition {
	typeName := gen.typeNames[comp.Ref]
	s := comp.Schema

	switch s.Kind {
	case ir.KindReference:
		target := gen.resolveRef(s.Ref)
		comment := cleanDescription(s.Description)
		if comment == "" {
			comment = "is an alias for " + target + "."
		}
		return TypeDefinition{Kind: "alias", Alias: &AliasData{
			TypeName:   typeName,
			TargetType: target,
			Comment:    comment,
		}}
	case ir.KindObject:
		return gen.buildStructDefinition(typeName, comp.Name, s)
	case ir.KindArray:
		return gen.buildArrayDefinition(typeName, s)
	case ir.KindPrimitive:
		if len(s.Enum) > 0 || s.Const != nil {
			return gen.buildEnumDefinition(typeName, comp.Ref, s)
		}
		return TypeDefinition{Kind: "alias", Alias: &AliasData{
			TypeName:   typeName,
			TargetType: primitiveGoType(s.Type, s.Format),
			Comment:    cleanDescription(s.Description),
		}}
	case ir.KindComposition:
		if s.CompositionKind == ir.CompositionAllOf {
			return gen.buildAllOfDefinition(typeName, comp.Ref, s)
		}
		return gen.buildUnionDefinition(typeName, comp.Ref, s)
	default:
		// KindUnknown accepts anything.
		return TypeDefinition{Kind: "alias", Alias: &AliasData{
			TypeName:   typeName,
			TargetType: "any",
			Comment:    cleanDescription(s.Description),
		}}
	}
}

// buildStructDefinition builds a struct declaration from an object schema.
func (gen *genContext) buildStructDefinition(typeName, originalName string, s *ir.Schema) TypeDefinition {
	structData := &StructData{
		TypeName:     typeName,
		OriginalName: originalName,
	}
	if s.Description != "" {
		structData.Comment = cleanDescription(s.Description)
	}
	structData.Fields = gen.buildFields(typeName, s)

	if ap := s.AdditionalProperties; ap != nil {
		switch {
		case ap.Schema != nil:
			structData.HasAdditionalProps = true
			structData.AdditionalPropsType = gen.typeExpr(ap.Schema)
		case ap.Allows() && ap.Bool != nil:
			// explicit additionalProperties: true
			structData.HasAdditionalProps = true
			structData.AdditionalPropsType = "any"
		}
	}
	return TypeDefinition{Kind: "struct", Struct: structData}
}

// buildFields renders the declared properties in source order. Colliding
// field names (e.g. "@id" and "id" both become Id) get numeric suffixes.
func (gen *genContext) buildFields(enclosingType string, s *ir.Schema) []FieldData {
	if s.Properties == nil {
		return nil
	}
	var fields []FieldData
	usedNames := make(map[string]int)
	for _, propName := range s.Properties.Keys() {
		prop, ok := s.Properties.Get(propName)
		if !ok || prop == nil {
			continue
		}
		field := gen.buildFieldData(propName, prop, enclosingType)
		base := field.Name
		if n, exists := usedNames[base]; exists {
			field.Name = fmt.Sprintf("%s%d", base, n+1)
		}
		usedNames[base]++
		fields = append(fields, field)
	}
	return fields
}

// buildFieldData builds one struct field from a property node. Presence and
// nullability were resolved per site when the IR was built, so requiredness
// reads straight off the node.
func (gen *genContext) buildFieldData(propName string, prop *ir.Schema, enclosingType string) FieldData {
	required := prop.IsRequired()

	jsonTag := propName
	if !required {
		jsonTag += ",omitempty"
	}
	tags := fmt.Sprintf("json:%q", jsonTag)
	if gen.cfg.validationTags {
		if tag := validateTag(prop, required); tag != "" {
			tags += fmt.Sprintf(" validate:%q", tag)
		}
	}

	field := FieldData{
		Name: toFieldName(propName),
		Type: gen.fieldType(prop, required, enclosingType),
		Tags: tags,
	}
	if prop.Description != "" {
		field.Comment = cleanDescription(prop.Description)
	}
	return field
}

// fieldType renders a property's Go type, adding pointer indirection for
// nullable or optional values. References on a cycle are always pointers;
// value containment there would make the struct infinitely sized.
func (gen *genContext) fieldType(prop *ir.Schema, required bool, enclosingType string) string {
	base := gen.typeExpr(prop)
	if strings.HasPrefix(base, "[]") || strings.HasPrefix(base, "map[") || base == "any" {
		return base
	}
	if prop.Kind == ir.KindReference && (gen.cyclic[prop.Ref] || prop.IsCircular()) {
		return "*" + base
	}
	if base == enclosingType {
		return "*" + base
	}
	if prop.IsNullable() || !required {
		return "*" + base
	}
	return base
}

// buildArrayDefinition builds a defined slice type from an array schema.
func (gen *genContext) buildArrayDefinition(typeName string, s *ir.Schema) TypeDefinition {
	aliasData := &AliasData{
		TypeName:   typeName,
		TargetType: "[]" + gen.elemType(s),
		IsDefined:  true,
	}
	if s.Description != "" {
		aliasData.Comment = cleanDescription(s.Description)
	}
	return TypeDefinition{Kind: "alias", Alias: aliasData}
}

// elemType renders the element type of an array schema. Tuples have no
// single element type and fall back to any.
func (gen *genContext) elemType(s *ir.Schema) string {
	if len(s.TupleItems) > 0 || s.Items == nil {
		return "any"
	}
	return gen.typeExpr(s.Items)
}

// buildEnumDefinition builds a defined type plus const block from an enum
// or const schema. Values with no Go literal form degrade the whole
// declaration to a plain defined type.
func (gen *genContext) buildEnumDefinition(typeName, ref string, s *ir.Schema) TypeDefinition {
	baseType := primitiveGoType(s.Type, "")
	values := s.Enum
	if len(values) == 0 && s.Const != nil {
		values = []any{s.Const}
	}

	enumData := &EnumData{
		TypeName: typeName,
		BaseType: baseType,
		Comment:  cleanDescription(s.Description),
	}
	usedNames := make(map[string]int)
	for _, v := range values {
		literal, ok := goLiteral(v)
		if !ok {
			gen.addIssue(ref,
				fmt.Sprintf("enum value %v has no Go literal form, generating plain %s type", v, baseType),
				SeverityWarning)
			return TypeDefinition{Kind: "alias", Alias: &AliasData{
				TypeName:   typeName,
				TargetType: baseType,
				Comment:    enumData.Comment,
			}}
		}
		constName := typeName + constSuffix(v)
		if n, exists := usedNames[constName]; exists {
			constName = fmt.Sprintf("%s%d", constName, n+1)
		}
		usedNames[constName]++
		enumData.Values = append(enumData.Values, EnumValueData{
			ConstName: constName,
			Value:     literal,
		})
	}
	return TypeDefinition{Kind: "enum", Enum: enumData}
}

// buildAllOfDefinition builds a struct with embedded types from an allOf
// composition: reference members embed their target type, object members
// contribute inline fields. Required-only overlay members synthesized
// during IR construction carry no properties and contribute nothing here.
func (gen *genContext) buildAllOfDefinition(typeName, ref string, s *ir.Schema) TypeDefinition {
	allOfData := &AllOfData{TypeName: typeName}
	if s.Description != "" {
		allOfData.Comment = cleanDescription(s.Description)
	}
	for _, member := range s.AllOf {
		switch member.Kind {
		case ir.KindReference:
			allOfData.EmbeddedTypes = append(allOfData.EmbeddedTypes, gen.resolveRef(member.Ref))
		case ir.KindObject:
			allOfData.Fields = append(allOfData.Fields, gen.buildFields(typeName, member)...)
		default:
			gen.addIssue(ref,
				fmt.Sprintf("allOf member of kind %s cannot be embedded, skipping", member.Kind),
				SeverityWarning)
		}
	}
	return TypeDefinition{Kind: "allof", AllOf: allOfData}
}

// buildUnionDefinition builds a struct of pointer variants from a oneOf or
// anyOf composition. Discriminated unions with an explicit mapping also get
// an UnmarshalJSON that dispatches on the discriminator property.
func (gen *genContext) buildUnionDefinition(typeName, ref string, s *ir.Schema) TypeDefinition {
	unionData := &UnionData{TypeName: typeName}
	if s.Description != "" {
		unionData.Comment = cleanDescription(s.Description)
	} else if s.CompositionKind == ir.CompositionAnyOf {
		unionData.Comment = "holds one or more of its variants."
	} else {
		unionData.Comment = "holds exactly one of its variants."
	}

	usedNames := make(map[string]int)
	for i, member := range s.Members() {
		var variant UnionVariant
		if member.Kind == ir.KindReference {
			target := gen.resolveRef(member.Ref)
			variant = UnionVariant{Name: target, Type: "*" + target}
		} else {
			variant = UnionVariant{
				Name: fmt.Sprintf("Variant%d", i),
				Type: variantType(gen.typeExpr(member)),
			}
		}
		if n, exists := usedNames[variant.Name]; exists {
			variant.Name = fmt.Sprintf("%s%d", variant.Name, n+1)
		}
		usedNames[variant.Name]++
		unionData.Variants = append(unionData.Variants, variant)
	}

	if d := s.Discriminator; d != nil && d.PropertyName != "" {
		unionData.Discriminator = d.PropertyName
		unionData.DiscriminatorJSONName = d.PropertyName
		if len(d.Mapping) > 0 {
			unionData.HasUnmarshal = true
			for value, target := range d.Mapping {
				caseType, ok := gen.resolveDiscriminatorTarget(target)
				if !ok {
					gen.addIssue(ref,
						fmt.Sprintf("discriminator mapping %q targets unknown schema %q, skipping case", value, target),
						SeverityWarning)
					continue
				}
				unionData.UnmarshalCases = append(unionData.UnmarshalCases, UnmarshalCase{
					Value:    value,
					Field:    caseType,
					TypeName: caseType,
				})
			}
			sort.Slice(unionData.UnmarshalCases, func(i, j int) bool {
				return unionData.UnmarshalCases[i].Value < unionData.UnmarshalCases[j].Value
			})
			if len(unionData.UnmarshalCases) == 0 {
				unionData.HasUnmarshal = false
			}
		}
	}
	return TypeDefinition{Kind: "union", Union: unionData}
}

// variantType wraps inline variant types in a pointer so an unset variant
// is distinguishable from a zero value.
func variantType(base string) string {
	if strings.HasPrefix(base, "[]") || strings.HasPrefix(base, "map[") || base == "any" {
		return base
	}
	return "*" + base
}

// resolveRef returns the Go type name assigned to a canonical component ref.
func (gen *genContext) resolveRef(ref string) string {
	if name, ok := gen.typeNames[ref]; ok {
		return name
	}
	gen.addIssue(ref, "reference target is not a named schema component, using any", SeverityWarning)
	return "any"
}

// resolveDiscriminatorTarget resolves a discriminator mapping target, which
// may be a canonical ref or a bare schema component name.
func (gen *genContext) resolveDiscriminatorTarget(target string) (string, bool) {
	if name, ok := gen.typeNames[target]; ok {
		return name, true
	}
	if comp := gen.doc.SchemaComponent(target); comp != nil {
		if name, ok := gen.typeNames[comp.Ref]; ok {
			return name, true
		}
	}
	return "", false
}

// buildOperationsFileData builds the endpoint table, one entry per
// operation in document order.
func (gen *genContext) buildOperationsFileData() *OperationsFileData {
	data := &OperationsFileData{
		Header: HeaderData{PackageName: gen.cfg.packageName},
	}
	for _, op := range gen.doc.Operations {
		data.Endpoints = append(data.Endpoints, EndpointData{
			OperationID: op.OperationID,
			Method:      strings.ToUpper(op.Method),
			Path:        op.Path,
			Deprecated:  op.Deprecated,
			TagsLiteral: tagsLiteral(op.Tags),
		})
		gen.result.GeneratedOperations++
	}
	return data
}

// tagsLiteral renders operation tags as a Go string slice literal.
func tagsLiteral(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	quoted := make([]string, len(tags))
	for i, tag := range tags {
		quoted[i] = fmt.Sprintf("%q", tag)
	}
	return "[]string{" + strings.Join(quoted, ", ") + "}"
}

// addIssue records a generation issue.
func (gen *genContext) addIssue(path, message string, sev Severity) {
	gen.result.Issues = append(gen.result.Issues, GenerateIssue{
		Path:     path,
		Message:  message,
		Severity: sev,
	})
}
