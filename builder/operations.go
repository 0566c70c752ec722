package builder

import (
	"github.com/castrlabs/castr/internal/maputil"
	"github.com/castrlabs/castr/ir"
	"github.com/castrlabs/castr/parser"
)

// buildOperations builds one operation per HTTP method per path, walking
// paths in source declaration order.
func (bc *buildContext) buildOperations() ([]*ir.Operation, error) {
	if len(bc.doc.Paths) == 0 {
		return nil, nil
	}

	order := bc.doc.PathOrder
	if len(order) == 0 {
		order = maputil.SortedKeys(bc.doc.Paths)
	}

	var out []*ir.Operation
	bc.path.Push("paths")
	for _, p := range order {
		pi := bc.doc.Paths[p]
		if pi == nil {
			continue
		}
		if pi.Ref != "" {
			bc.b.logger.Warn("path item $ref is not resolved, building inline fields only",
				"path", p, "ref", pi.Ref)
		}
		bc.path.Push(p)
		for _, mo := range pi.Operations() {
			bc.path.Push(mo.Method)
			bc.beginAnonymous()
			op, err := bc.buildOperation(p, mo.Method, pi, mo.Operation)
			bc.path.Pop()
			if err != nil {
				bc.path.Pop()
				bc.path.Pop()
				return nil, err
			}
			out = append(out, op)
		}
		bc.path.Pop()
	}
	bc.path.Pop()
	return out, nil
}

func (bc *buildContext) buildOperation(path, method string, pi *parser.PathItem, op *parser.Operation) (*ir.Operation, error) {
	out := &ir.Operation{
		OperationID: op.OperationID,
		Method:      method,
		Path:        path,
		Summary:     op.Summary,
		Description: op.Description,
		Deprecated:  op.Deprecated,
	}
	if len(op.Tags) > 0 {
		out.Tags = append([]string(nil), op.Tags...)
	}

	bc.path.Push("parameters")
	params, err := bc.mergeParameters(pi.Parameters, op.Parameters)
	if err != nil {
		bc.path.Pop()
		return nil, err
	}
	for i, p := range params {
		bc.path.PushIndex(i)
		built, err := bc.buildParameter(p)
		bc.path.Pop()
		if err != nil {
			bc.path.Pop()
			return nil, err
		}
		out.Parameters = append(out.Parameters, built)
	}
	bc.path.Pop()

	if op.RequestBody != nil {
		bc.path.Push("requestBody")
		built, err := bc.buildRequestBody(op.RequestBody)
		bc.path.Pop()
		if err != nil {
			return nil, err
		}
		out.RequestBody = built
	}

	responses, err := bc.buildResponses(op.Responses)
	if err != nil {
		return nil, err
	}
	out.Responses = responses

	out.Security = flattenSecurity(op.Security)
	out.GroupParameters()
	return out, nil
}

// mergeParameters resolves path-item and operation parameters and merges
// them. Operation-level definitions override path-item definitions sharing
// a name and location, keeping the overridden position.
func (bc *buildContext) mergeParameters(itemParams, opParams []*parser.Parameter) ([]*parser.Parameter, error) {
	merged := make([]*parser.Parameter, 0, len(itemParams)+len(opParams))
	index := make(map[[2]string]int, len(itemParams)+len(opParams))

	add := func(p *parser.Parameter) error {
		resolved, err := bc.resolveParameter(p)
		if err != nil {
			return err
		}
		if resolved == nil {
			return nil
		}
		key := [2]string{resolved.Name, resolved.In}
		if at, ok := index[key]; ok {
			merged[at] = resolved
			return nil
		}
		index[key] = len(merged)
		merged = append(merged, resolved)
		return nil
	}

	for _, p := range itemParams {
		if err := add(p); err != nil {
			return nil, err
		}
	}
	for _, p := range opParams {
		if err := add(p); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// resolveParameter follows a parameter $ref to its concrete definition.
func (bc *buildContext) resolveParameter(p *parser.Parameter) (*parser.Parameter, error) {
	if p == nil || p.Ref == "" {
		return p, nil
	}
	ref, err := parser.ParseRef(p.Ref)
	if err != nil {
		return nil, err
	}
	resolved, err := bc.resolver.Parameter(ref)
	if err != nil {
		return nil, bc.withLocation(err)
	}
	return resolved, nil
}

// buildParameter builds one resolved parameter. Path parameters are always
// required regardless of what the document declares.
func (bc *buildContext) buildParameter(p *parser.Parameter) (*ir.Parameter, error) {
	required := p.Required
	if p.In == parser.ParamInPath {
		required = true
	}

	out := &ir.Parameter{
		Name:        p.Name,
		In:          ir.ParameterLocation(p.In),
		Required:    required,
		Deprecated:  p.Deprecated,
		Description: p.Description,
		Style:       p.Style,
		Explode:     boolPtr(p.Explode),
	}

	raw := p.Schema
	if raw == nil {
		raw = firstContentSchema(p.Content)
	}
	if raw != nil {
		built, err := bc.buildAt("schema", raw, propertySite(required))
		if err != nil {
			return nil, err
		}
		out.Schema = built
	}
	return out, nil
}

// firstContentSchema returns the schema of the first media type in sorted
// order, for content-style parameters that carry no direct schema.
func firstContentSchema(content map[string]*parser.MediaType) *parser.Schema {
	for _, mt := range maputil.SortedKeys(content) {
		if media := content[mt]; media != nil && media.Schema != nil {
			return media.Schema
		}
	}
	return nil
}

func (bc *buildContext) buildRequestBody(rb *parser.RequestBody) (*ir.RequestBody, error) {
	if rb.Ref != "" {
		ref, err := parser.ParseRef(rb.Ref)
		if err != nil {
			return nil, err
		}
		resolved, err := bc.resolver.RequestBody(ref)
		if err != nil {
			return nil, bc.withLocation(err)
		}
		rb = resolved
	}

	out := &ir.RequestBody{
		Description: rb.Description,
		Required:    rb.Required,
	}
	content, err := bc.buildContent(rb.Content, propertySite(rb.Required))
	if err != nil {
		return nil, err
	}
	out.Content = content
	return out, nil
}

// buildResponses builds one record per declared status code, the default
// response included, in source declaration order.
func (bc *buildContext) buildResponses(resps *parser.Responses) ([]*ir.Response, error) {
	if resps == nil {
		return nil, nil
	}

	codes := resps.CodeOrder
	if len(codes) == 0 {
		if resps.Default != nil {
			codes = append(codes, "default")
		}
		codes = append(codes, maputil.SortedKeys(resps.Codes)...)
	}

	out := make([]*ir.Response, 0, len(codes))
	bc.path.Push("responses")
	for _, code := range codes {
		var raw *parser.Response
		if code == "default" {
			raw = resps.Default
		} else {
			raw = resps.Codes[code]
		}
		if raw == nil {
			continue
		}
		bc.path.Push(code)
		built, err := bc.buildResponse(code, raw)
		bc.path.Pop()
		if err != nil {
			bc.path.Pop()
			return nil, err
		}
		out = append(out, built)
	}
	bc.path.Pop()
	return out, nil
}

func (bc *buildContext) buildResponse(code string, raw *parser.Response) (*ir.Response, error) {
	if raw.Ref != "" {
		ref, err := parser.ParseRef(raw.Ref)
		if err != nil {
			return nil, err
		}
		resolved, err := bc.resolver.Response(ref)
		if err != nil {
			return nil, bc.withLocation(err)
		}
		raw = resolved
	}

	out := &ir.Response{
		Status:      code,
		Description: raw.Description,
	}
	content, err := bc.buildContent(raw.Content, memberSite())
	if err != nil {
		return nil, err
	}
	out.Content = content

	headers, err := bc.buildHeaders(raw.Headers)
	if err != nil {
		return nil, err
	}
	out.Headers = headers
	return out, nil
}

// buildContent builds one schema per media type. Media types iterate in
// sorted order since the source order of content maps is not recorded.
func (bc *buildContext) buildContent(content map[string]*parser.MediaType, st site) (*ir.ContentMap, error) {
	if len(content) == 0 {
		return nil, nil
	}
	out := ir.NewProperties(len(content))
	bc.path.Push("content")
	for _, mt := range maputil.SortedKeys(content) {
		media := content[mt]
		if media == nil || media.Schema == nil {
			continue
		}
		built, err := bc.buildAt(mt, media.Schema, st)
		if err != nil {
			bc.path.Pop()
			return nil, err
		}
		out.Set(mt, built)
	}
	bc.path.Pop()
	if out.Len() == 0 {
		return nil, nil
	}
	return out, nil
}

// buildHeaders builds response header schemas keyed by header name, in
// sorted name order.
func (bc *buildContext) buildHeaders(headers map[string]*parser.Header) (*ir.ContentMap, error) {
	if len(headers) == 0 {
		return nil, nil
	}
	out := ir.NewProperties(len(headers))
	bc.path.Push("headers")
	for _, name := range maputil.SortedKeys(headers) {
		h := headers[name]
		if h == nil {
			continue
		}
		if h.Ref != "" {
			ref, err := parser.ParseRef(h.Ref)
			if err != nil {
				bc.path.Pop()
				return nil, err
			}
			resolved, err := bc.resolver.Header(ref)
			if err != nil {
				bc.path.Pop()
				return nil, bc.withLocation(err)
			}
			h = resolved
		}
		if h.Schema == nil {
			continue
		}
		built, err := bc.buildAt(name, h.Schema, propertySite(h.Required))
		if err != nil {
			bc.path.Pop()
			return nil, err
		}
		out.Set(name, built)
	}
	bc.path.Pop()
	if out.Len() == 0 {
		return nil, nil
	}
	return out, nil
}

// flattenSecurity converts requirement maps to flat records. nil stays nil
// and an explicit empty list stays empty; the difference separates
// "document default applies" from "no auth".
func flattenSecurity(reqs []parser.SecurityRequirement) []ir.SecurityRequirement {
	if reqs == nil {
		return nil
	}
	out := make([]ir.SecurityRequirement, 0, len(reqs))
	for _, req := range reqs {
		for _, name := range maputil.SortedKeys(req) {
			out = append(out, ir.SecurityRequirement{
				SchemeName: name,
				Scopes:     append([]string(nil), req[name]...),
			})
		}
	}
	return out
}

func boolPtr(v *bool) *bool {
	if v == nil {
		return nil
	}
	b := *v
	return &b
}
