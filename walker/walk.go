package walker

import (
	"fmt"
	"strings"

	"github.com/castrlabs/castr/internal/maputil"
	"github.com/castrlabs/castr/ir"
)

// handleAction applies an action, returning whether to continue into
// children.
func (w *Walker) handleAction(a Action) bool {
	switch a {
	case SkipChildren:
		return false
	case Stop:
		w.stopped = true
		return false
	default:
		return true
	}
}

func (w *Walker) walkComponent(c *ir.Component) {
	if c == nil {
		return
	}
	path := "$.components." + sectionName(c.Kind) + "." + c.Name
	if w.onComponent != nil && !w.handleAction(w.onComponent(c, path)) {
		return
	}
	switch {
	case c.Schema != nil:
		w.walkSchema(c.Schema, path, 0)
	case c.Parameter != nil:
		w.walkParameter(c.Parameter, path)
	case c.Response != nil:
		w.walkResponse(c.Response, path)
	case c.RequestBody != nil:
		w.walkRequestBody(c.RequestBody, path)
	}
}

// sectionName maps a component kind to its components-section key.
func sectionName(kind ir.ComponentKind) string {
	switch kind {
	case ir.ComponentSchema:
		return "schemas"
	case ir.ComponentParameter:
		return "parameters"
	case ir.ComponentHeader:
		return "headers"
	case ir.ComponentResponse:
		return "responses"
	case ir.ComponentRequestBody:
		return "requestBodies"
	case ir.ComponentSecurityScheme:
		return "securitySchemes"
	default:
		return string(kind)
	}
}

func (w *Walker) walkOperation(op *ir.Operation) {
	if op == nil {
		return
	}
	path := "$.paths." + op.Path + "." + strings.ToLower(op.Method)
	if w.onOperation != nil && !w.handleAction(w.onOperation(op, path)) {
		return
	}
	for i, p := range op.Parameters {
		if w.stopped {
			return
		}
		w.walkParameter(p, fmt.Sprintf("%s.parameters[%d]", path, i))
	}
	if w.stopped {
		return
	}
	if op.RequestBody != nil {
		w.walkRequestBody(op.RequestBody, path+".requestBody")
	}
	for _, resp := range op.Responses {
		if w.stopped {
			return
		}
		w.walkResponse(resp, path+".responses."+resp.Status)
	}
}

func (w *Walker) walkParameter(p *ir.Parameter, path string) {
	if p == nil {
		return
	}
	if w.onParameter != nil && !w.handleAction(w.onParameter(p, path)) {
		return
	}
	w.walkSchema(p.Schema, path+".schema", 0)
}

func (w *Walker) walkRequestBody(rb *ir.RequestBody, path string) {
	if rb == nil {
		return
	}
	w.walkContent(rb.Content, path+".content")
}

func (w *Walker) walkResponse(resp *ir.Response, path string) {
	if resp == nil {
		return
	}
	if w.onResponse != nil && !w.handleAction(w.onResponse(resp, path)) {
		return
	}
	w.walkContent(resp.Content, path+".content")
	if resp.Headers != nil {
		for _, name := range resp.Headers.Keys() {
			if w.stopped {
				return
			}
			header, _ := resp.Headers.Get(name)
			w.walkSchema(header, path+".headers."+name, 0)
		}
	}
}

func (w *Walker) walkContent(content *ir.ContentMap, path string) {
	if content == nil {
		return
	}
	for _, mediaType := range content.Keys() {
		if w.stopped {
			return
		}
		schema, _ := content.Get(mediaType)
		w.walkSchema(schema, path+"."+mediaType, 0)
	}
}

func (w *Walker) walkSchema(s *ir.Schema, path string, depth int) {
	if s == nil || w.stopped {
		return
	}
	if s.Ref != "" && w.onRef != nil {
		if !w.handleAction(w.onRef(s.Ref, path)) {
			return
		}
	}
	if depth > w.maxDepth {
		return
	}
	// Pointer cycles only occur in hand-built trees (builder output keeps
	// references as leaf nodes); skip nodes already on the current path.
	if w.visiting[s] {
		return
	}
	w.visiting[s] = true
	defer delete(w.visiting, s)

	if w.onSchema != nil && !w.handleAction(w.onSchema(s, path)) {
		return
	}

	if s.Properties != nil {
		for _, name := range s.Properties.Keys() {
			if w.stopped {
				return
			}
			prop, _ := s.Properties.Get(name)
			w.walkSchema(prop, path+".properties."+name, depth+1)
		}
	}
	if s.AdditionalProperties != nil && s.AdditionalProperties.Schema != nil {
		w.walkSchema(s.AdditionalProperties.Schema, path+".additionalProperties", depth+1)
	}

	w.walkSchema(s.Items, path+".items", depth+1)
	for i, item := range s.TupleItems {
		if w.stopped {
			return
		}
		w.walkSchema(item, fmt.Sprintf("%s.prefixItems[%d]", path, i), depth+1)
	}
	w.walkSchema(s.Contains, path+".contains", depth+1)

	for i, member := range s.AllOf {
		if w.stopped {
			return
		}
		w.walkSchema(member, fmt.Sprintf("%s.allOf[%d]", path, i), depth+1)
	}
	for i, member := range s.OneOf {
		if w.stopped {
			return
		}
		w.walkSchema(member, fmt.Sprintf("%s.oneOf[%d]", path, i), depth+1)
	}
	for i, member := range s.AnyOf {
		if w.stopped {
			return
		}
		w.walkSchema(member, fmt.Sprintf("%s.anyOf[%d]", path, i), depth+1)
	}

	if s.UnevaluatedProperties != nil && s.UnevaluatedProperties.Schema != nil {
		w.walkSchema(s.UnevaluatedProperties.Schema, path+".unevaluatedProperties", depth+1)
	}
	if s.UnevaluatedItems != nil && s.UnevaluatedItems.Schema != nil {
		w.walkSchema(s.UnevaluatedItems.Schema, path+".unevaluatedItems", depth+1)
	}
	for _, name := range maputil.SortedKeys(s.DependentSchemas) {
		if w.stopped {
			return
		}
		w.walkSchema(s.DependentSchemas[name], path+".dependentSchemas."+name, depth+1)
	}
}
