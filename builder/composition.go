package builder

import (
	"sort"

	"github.com/castrlabs/castr/castrerrors"
	"github.com/castrlabs/castr/ir"
	"github.com/castrlabs/castr/parser"
)

func buildOneOf(bc *buildContext, s *parser.Schema, st site) (*ir.Schema, error) {
	return buildUnion(bc, s, st, ir.CompositionOneOf, s.OneOf)
}

func buildAnyOf(bc *buildContext, s *parser.Schema, st site) (*ir.Schema, error) {
	return buildUnion(bc, s, st, ir.CompositionAnyOf, s.AnyOf)
}

// buildUnion handles oneOf and anyOf. The two share a node shape; only
// CompositionKind differs, which is what validators branch on for
// exactly-one versus at-least-one semantics. A single-member union
// collapses to the member with no wrapper.
func buildUnion(bc *buildContext, s *parser.Schema, st site, kind ir.CompositionKind, members []*parser.Schema) (*ir.Schema, error) {
	keyword := string(kind)
	if len(members) == 0 {
		return nil, &castrerrors.InvalidCompositionError{
			Kind:     keyword,
			Location: bc.path.String(),
			Message:  "composition has no members",
		}
	}

	if len(members) == 1 {
		bc.path.Push(keyword)
		node, err := bc.buildAtIndex(0, members[0], st)
		bc.path.Pop()
		if err != nil {
			return nil, err
		}
		if s.Nullable {
			node.Metadata.Nullable = true
		}
		return node, nil
	}

	parent := bc.inheritanceParent()
	refs := memberRefList(members)

	built := make([]*ir.Schema, 0, len(members))
	bc.path.Push(keyword)
	for i, m := range members {
		member, err := bc.buildAtIndex(i, m, memberSite())
		if err != nil {
			bc.path.Pop()
			return nil, err
		}
		attachInheritance(member, parent, kind, siblingsFor(refs, i))
		built = append(built, member)
	}
	bc.path.Pop()

	node := &ir.Schema{
		Kind:            ir.KindComposition,
		CompositionKind: kind,
		Metadata:        bc.metadataFor(s, st),
	}
	switch kind {
	case ir.CompositionOneOf:
		node.OneOf = built
	case ir.CompositionAnyOf:
		node.AnyOf = built
	}
	node.Discriminator = unionDiscriminator(s, members)
	applyAnnotations(node, s)
	return node, nil
}

// unionDiscriminator decides whether the union keeps its discriminator. A
// member wrapping a multi-branch allOf cannot be selected by one property
// value, so the discriminator is dropped and the union validates as a plain
// union.
func unionDiscriminator(s *parser.Schema, members []*parser.Schema) *ir.Discriminator {
	if s.Discriminator == nil || s.Discriminator.PropertyName == "" {
		return nil
	}
	for _, m := range members {
		if m != nil && len(m.AllOf) > 1 {
			return nil
		}
	}
	return cloneDiscriminator(s.Discriminator)
}

func cloneDiscriminator(d *parser.Discriminator) *ir.Discriminator {
	out := &ir.Discriminator{PropertyName: d.PropertyName}
	if len(d.Mapping) > 0 {
		out.Mapping = make(map[string]string, len(d.Mapping))
		for k, v := range d.Mapping {
			out.Mapping[k] = v
		}
	}
	return out
}

// buildAllOf handles intersection merging. Every branch's required
// declarations merge into one composed set: a property required in any
// branch is required in the merged object. Inline branches are re-required
// copy-on-write; referenced branches are never touched, so names they
// cannot enforce land in a synthesized required-only overlay member.
func buildAllOf(bc *buildContext, s *parser.Schema, st site) (*ir.Schema, error) {
	if len(s.AllOf) == 0 {
		return nil, &castrerrors.InvalidCompositionError{
			Kind:     "allOf",
			Location: bc.path.String(),
			Message:  "composition has no members",
		}
	}

	members := append([]*parser.Schema(nil), s.AllOf...)
	if implicit := implicitObjectMember(s); implicit != nil {
		members = append(members, implicit)
	}

	if len(members) == 1 {
		bc.path.Push("allOf")
		node, err := bc.buildAtIndex(0, members[0], st)
		bc.path.Pop()
		if err != nil {
			return nil, err
		}
		if s.Nullable {
			node.Metadata.Nullable = true
		}
		return node, nil
	}

	// Composed required set plus each branch's transitive property and
	// required names, resolved through refs and nested allOfs.
	mergedRequired := make(map[string]bool)
	branchProps := make([]map[string]bool, len(members))
	branchRequired := make([]map[string]bool, len(members))
	for i, m := range members {
		props, req, err := bc.collectComposed(m, make(map[string]bool))
		if err != nil {
			return nil, err
		}
		branchProps[i] = props
		branchRequired[i] = req
		for name := range req {
			mergedRequired[name] = true
		}
	}

	// Required-only branches dissolve into the merged set. Of the rest,
	// inline branches will enforce the merged names for their own
	// properties; referenced branches enforce only what they already
	// require themselves.
	inlineProps := make(map[string]bool)
	refRequired := make(map[string]bool)
	var structural []int
	for i, m := range members {
		if isRequiredOnlyOverlay(m) {
			continue
		}
		structural = append(structural, i)
		if m.Ref != "" {
			for name := range branchRequired[i] {
				refRequired[name] = true
			}
		} else {
			for name := range branchProps[i] {
				inlineProps[name] = true
			}
		}
	}
	overlayNames := requiredOverlay(mergedRequired, inlineProps, refRequired)

	patchBranch := func(i int) *parser.Schema {
		m := members[i]
		if m.Ref != "" {
			return m
		}
		pm := m.Clone()
		pm.Required = intersectSorted(mergedRequired, branchProps[i])
		return pm
	}

	// One effective branch needs no composite wrapper.
	if len(structural) == 1 && len(overlayNames) == 0 {
		i := structural[0]
		bc.path.Push("allOf")
		node, err := bc.buildAtIndex(i, patchBranch(i), st)
		bc.path.Pop()
		if err != nil {
			return nil, err
		}
		if s.Nullable {
			node.Metadata.Nullable = true
		}
		return node, nil
	}
	if len(structural) == 0 {
		overlay := &parser.Schema{Type: ir.TypeObject, Required: overlayNames}
		bc.path.Push("allOf")
		node, err := bc.buildAtIndex(len(members), overlay, st)
		bc.path.Pop()
		if err != nil {
			return nil, err
		}
		if s.Nullable {
			node.Metadata.Nullable = true
		}
		return node, nil
	}

	parent := bc.inheritanceParent()
	refs := memberRefList(members)

	built := make([]*ir.Schema, 0, len(structural)+1)
	bc.path.Push("allOf")
	for _, i := range structural {
		member, err := bc.buildAtIndex(i, patchBranch(i), memberSite())
		if err != nil {
			bc.path.Pop()
			return nil, err
		}
		attachInheritance(member, parent, ir.CompositionAllOf, siblingsFor(refs, i))
		built = append(built, member)
	}
	if len(overlayNames) > 0 {
		overlay := &parser.Schema{Type: ir.TypeObject, Required: overlayNames}
		member, err := bc.buildAtIndex(len(members), overlay, memberSite())
		if err != nil {
			bc.path.Pop()
			return nil, err
		}
		attachInheritance(member, parent, ir.CompositionAllOf, siblingsFor(refs, -1))
		built = append(built, member)
	}
	bc.path.Pop()

	node := &ir.Schema{
		Kind:            ir.KindComposition,
		CompositionKind: ir.CompositionAllOf,
		AllOf:           built,
		Metadata:        bc.metadataFor(s, st),
	}
	if s.Discriminator != nil {
		node.Discriminator = cloneDiscriminator(s.Discriminator)
	}
	applyAnnotations(node, s)
	return node, nil
}

// collectComposed walks one composition branch and gathers the transitive
// property and required names it contributes, following refs through the
// component table and flattening nested allOfs. Refs on the current build
// stack or already seen in this walk contribute nothing further.
func (bc *buildContext) collectComposed(s *parser.Schema, seenRefs map[string]bool) (map[string]bool, map[string]bool, error) {
	props := make(map[string]bool)
	required := make(map[string]bool)
	if s == nil {
		return props, required, nil
	}

	if s.Ref != "" {
		ref, err := parser.ParseRef(s.Ref)
		if err != nil {
			return nil, nil, err
		}
		canonical := ref.String()
		if bc.building[canonical] || seenRefs[canonical] {
			return props, required, nil
		}
		seenRefs[canonical] = true
		target, err := bc.resolver.Schema(ref)
		if err != nil {
			return nil, nil, bc.withLocation(err)
		}
		return bc.collectComposed(target, seenRefs)
	}

	for name := range s.Properties {
		props[name] = true
	}
	for _, name := range s.Required {
		required[name] = true
	}
	for _, m := range s.AllOf {
		mp, mr, err := bc.collectComposed(m, seenRefs)
		if err != nil {
			return nil, nil, err
		}
		for name := range mp {
			props[name] = true
		}
		for name := range mr {
			required[name] = true
		}
	}
	return props, required, nil
}

// implicitObjectMember folds object facets declared alongside allOf into
// one more branch, so sibling properties merge like an authored member.
// Annotations and validation facets stay on the composite node. The shared
// field values are safe: inline branches are cloned before patching.
func implicitObjectMember(s *parser.Schema) *parser.Schema {
	if s.Properties == nil && s.AdditionalProperties == nil && len(s.Required) == 0 &&
		len(s.DependentSchemas) == 0 && len(s.DependentRequired) == 0 {
		return nil
	}
	return &parser.Schema{
		Properties:            s.Properties,
		PropertyOrder:         s.PropertyOrder,
		Required:              s.Required,
		AdditionalProperties:  s.AdditionalProperties,
		UnevaluatedProperties: s.UnevaluatedProperties,
		DependentSchemas:      s.DependentSchemas,
		DependentRequired:     s.DependentRequired,
	}
}

// isRequiredOnlyOverlay reports whether a branch contributes nothing but
// required names. Such branches dissolve into the composed required set
// instead of appearing as members.
func isRequiredOnlyOverlay(m *parser.Schema) bool {
	return m != nil && m.Ref == "" && len(m.Required) > 0 &&
		m.Type == nil && m.Properties == nil && m.AdditionalProperties == nil &&
		m.Items == nil && len(m.PrefixItems) == 0 &&
		len(m.AllOf) == 0 && len(m.OneOf) == 0 && len(m.AnyOf) == 0 &&
		m.Enum == nil && m.Const == nil
}

// memberRefList parses each member's $ref to its canonical form, empty for
// inline members. Malformed refs are left empty here; building the member
// reports them properly.
func memberRefList(members []*parser.Schema) []string {
	out := make([]string, len(members))
	for i, m := range members {
		if m == nil || m.Ref == "" {
			continue
		}
		if ref, err := parser.ParseRef(m.Ref); err == nil {
			out[i] = ref.String()
		}
	}
	return out
}

// siblingsFor lists the canonical refs of the other reference members.
func siblingsFor(refs []string, self int) []string {
	var out []string
	for i, r := range refs {
		if i != self && r != "" {
			out = append(out, r)
		}
	}
	return out
}

// attachInheritance records a member's relation to its enclosing composite.
func attachInheritance(member *ir.Schema, parent string, kind ir.CompositionKind, siblings []string) {
	member.Metadata.Inheritance = &ir.Inheritance{
		Parent:          parent,
		CompositionType: kind,
		Siblings:        siblings,
	}
}

// intersectSorted returns the names present in both sets, sorted.
func intersectSorted(merged, props map[string]bool) []string {
	var out []string
	for name := range merged {
		if props[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// requiredOverlay returns the composed required names no structural branch
// enforces, sorted.
func requiredOverlay(merged, inlineProps, refRequired map[string]bool) []string {
	var out []string
	for name := range merged {
		if !inlineProps[name] && !refRequired[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
