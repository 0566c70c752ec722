package walker

import (
	"strings"

	"github.com/castrlabs/castr/ir"
)

// SchemaInfo describes one schema node encountered during a walk.
type SchemaInfo struct {
	// Schema is the collected node. Reference nodes are included.
	Schema *ir.Schema

	// Path is the JSONPath-style location of the node.
	Path string

	// Component is the enclosing named component, nil for schemas
	// embedded in operations.
	Component *ir.Component
}

// SchemaCollector holds schema nodes collected during a walk.
type SchemaCollector struct {
	// All contains every node in traversal order.
	All []*SchemaInfo

	// Components contains the nodes under the components section,
	// including those nested inside a named component's tree.
	Components []*SchemaInfo

	// Inline contains the nodes embedded in operations.
	Inline []*SchemaInfo

	// ByPath provides lookup by JSONPath location.
	ByPath map[string]*SchemaInfo

	// ByRef provides lookup of component root nodes by canonical ref,
	// e.g. "#/components/schemas/Pet".
	ByRef map[string]*SchemaInfo
}

// CollectSchemas walks doc and returns every schema node organized for
// lookup: named-component trees in document order first, then the schemas
// embedded in operation parameters, request bodies, and responses.
func CollectSchemas(doc *ir.Document) (*SchemaCollector, error) {
	collector := &SchemaCollector{
		All:        make([]*SchemaInfo, 0),
		Components: make([]*SchemaInfo, 0),
		Inline:     make([]*SchemaInfo, 0),
		ByPath:     make(map[string]*SchemaInfo),
		ByRef:      make(map[string]*SchemaInfo),
	}

	// Components walk to completion before operations start, so the
	// current component attributes every node under its tree.
	var current *ir.Component
	var currentPath string

	err := Walk(doc,
		WithComponentHandler(func(c *ir.Component, path string) Action {
			current, currentPath = c, path
			return Continue
		}),
		WithOperationHandler(func(_ *ir.Operation, _ string) Action {
			current, currentPath = nil, ""
			return Continue
		}),
		WithSchemaHandler(func(schema *ir.Schema, path string) Action {
			info := &SchemaInfo{
				Schema:    schema,
				Path:      path,
				Component: current,
			}

			collector.All = append(collector.All, info)
			collector.ByPath[path] = info

			if current != nil {
				collector.Components = append(collector.Components, info)
				if path == currentPath {
					collector.ByRef[current.Ref] = info
				}
			} else {
				collector.Inline = append(collector.Inline, info)
			}

			return Continue
		}),
	)
	if err != nil {
		return nil, err
	}
	return collector, nil
}

// RefSite records one reference occurrence.
type RefSite struct {
	// Ref is the target, e.g. "#/components/schemas/Pet".
	Ref string

	// Path is the JSONPath-style location of the referencing node.
	Path string

	// Component is the enclosing named component, nil for references
	// embedded in operations.
	Component *ir.Component
}

// ReferenceCollector holds reference sites collected during a walk.
type ReferenceCollector struct {
	// All contains every site in traversal order.
	All []*RefSite

	// ByTarget groups sites by the ref they point at.
	ByTarget map[string][]*RefSite

	// BySource groups sites by the canonical ref of the enclosing
	// component. Sites embedded in operations are not included here.
	BySource map[string][]*RefSite
}

// CollectReferences walks doc and returns every reference site. ByTarget
// answers "who points at X", BySource answers "what does X point at".
func CollectReferences(doc *ir.Document) (*ReferenceCollector, error) {
	collector := &ReferenceCollector{
		All:      make([]*RefSite, 0),
		ByTarget: make(map[string][]*RefSite),
		BySource: make(map[string][]*RefSite),
	}

	var current *ir.Component

	err := Walk(doc,
		WithComponentHandler(func(c *ir.Component, _ string) Action {
			current = c
			return Continue
		}),
		WithOperationHandler(func(_ *ir.Operation, _ string) Action {
			current = nil
			return Continue
		}),
		WithRefHandler(func(ref string, path string) Action {
			site := &RefSite{
				Ref:       ref,
				Path:      path,
				Component: current,
			}

			collector.All = append(collector.All, site)
			collector.ByTarget[ref] = append(collector.ByTarget[ref], site)
			if current != nil {
				collector.BySource[current.Ref] = append(collector.BySource[current.Ref], site)
			}

			return Continue
		}),
	)
	if err != nil {
		return nil, err
	}
	return collector, nil
}

// CollectSchemaRefs returns the reference targets in a single schema tree
// in first-appearance order, deduplicated. A nil schema yields nil.
func CollectSchemaRefs(schema *ir.Schema) []string {
	if schema == nil {
		return nil
	}
	var out []string
	seen := make(map[string]bool)
	_ = WalkSchema(schema, WithRefHandler(func(ref string, _ string) Action {
		if !seen[ref] {
			seen[ref] = true
			out = append(out, ref)
		}
		return Continue
	}))
	return out
}

// OperationCollector holds operations collected during a walk. Operations
// already carry their path, method, and tags, so the buckets hold the IR
// nodes directly.
type OperationCollector struct {
	// All contains every operation in traversal order.
	All []*ir.Operation

	// ByPath groups operations by path template.
	ByPath map[string][]*ir.Operation

	// ByMethod groups operations by lowercase HTTP method.
	ByMethod map[string][]*ir.Operation

	// ByTag groups operations by tag name. Operations with multiple tags
	// appear in multiple groups; untagged operations appear in none.
	ByTag map[string][]*ir.Operation
}

// CollectOperations walks doc and returns every operation organized by
// path template, method, and tag.
func CollectOperations(doc *ir.Document) (*OperationCollector, error) {
	collector := &OperationCollector{
		All:      make([]*ir.Operation, 0),
		ByPath:   make(map[string][]*ir.Operation),
		ByMethod: make(map[string][]*ir.Operation),
		ByTag:    make(map[string][]*ir.Operation),
	}

	err := Walk(doc,
		WithOperationHandler(func(op *ir.Operation, _ string) Action {
			method := strings.ToLower(op.Method)
			collector.All = append(collector.All, op)
			collector.ByPath[op.Path] = append(collector.ByPath[op.Path], op)
			collector.ByMethod[method] = append(collector.ByMethod[method], op)
			for _, tag := range op.Tags {
				collector.ByTag[tag] = append(collector.ByTag[tag], op)
			}
			return Continue
		}),
	)
	if err != nil {
		return nil, err
	}
	return collector, nil
}
