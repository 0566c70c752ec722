package builder

import (
	"errors"
	"fmt"

	"github.com/castrlabs/castr/castrerrors"
	"github.com/castrlabs/castr/depgraph"
	"github.com/castrlabs/castr/internal/maputil"
	"github.com/castrlabs/castr/ir"
	"github.com/castrlabs/castr/parser"
)

// Builder builds IR documents from parsed OpenAPI documents. Construct with
// New; the zero value has no dispatch table and builds nothing. A Builder
// holds no per-document state and may be reused, but not concurrently.
type Builder struct {
	logger      parser.Logger
	maxRefDepth int
	dispatch    []dispatchEntry
	configError error
}

// New returns a Builder configured by opts. Option validation errors are
// deferred and returned by the first BuildIR call.
func New(opts ...Option) *Builder {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Builder{
		logger:      cfg.logger,
		maxRefDepth: cfg.maxRefDepth,
		dispatch:    dispatchTable(),
		configError: cfg.err,
	}
}

// BuildIR builds the IR document for parsed with a one-off Builder.
func BuildIR(parsed *parser.ParseResult, opts ...Option) (*ir.Document, error) {
	return New(opts...).BuildIR(parsed)
}

// BuildIR transforms a parsed OpenAPI document into the IR document the
// writers consume. The same input always produces the same output. The
// build fails outright on the first invalid schema, unresolvable reference,
// or empty composition; no partial document is returned.
func (b *Builder) BuildIR(parsed *parser.ParseResult) (*ir.Document, error) {
	if b.configError != nil {
		return nil, b.configError
	}
	if parsed == nil || parsed.Document == nil {
		return nil, &castrerrors.ConfigError{
			Option:  "parsed",
			Message: "parse result has no document",
		}
	}
	if len(parsed.Errors) > 0 {
		return nil, &castrerrors.ParseError{
			Path:    parsed.SourcePath,
			Message: fmt.Sprintf("document has %d structure validation errors", len(parsed.Errors)),
			Cause:   errors.Join(parsed.Errors...),
		}
	}

	b.logger.Debug("building IR document", "source", parsed.SourcePath, "openapi", parsed.Version)

	bc := b.newBuildContext(parsed.Document, parsed.OASVersion.Is31())
	defer bc.release()

	doc := &ir.Document{
		Version:        ir.FormatVersion,
		OpenAPIVersion: parsed.Version,
	}
	if info := parsed.Document.Info; info != nil {
		doc.Info = ir.Info{
			Title:       info.Title,
			Version:     info.Version,
			Description: info.Description,
		}
	}
	for _, srv := range parsed.Document.Servers {
		if srv == nil {
			continue
		}
		doc.Servers = append(doc.Servers, ir.Server{URL: srv.URL, Description: srv.Description})
	}

	if err := bc.buildComponents(doc); err != nil {
		return nil, err
	}

	ops, err := bc.buildOperations()
	if err != nil {
		return nil, err
	}
	doc.Operations = ops

	doc.Security = flattenSecurity(parsed.Document.Security)

	// The graph runs once, after every schema component exists, so edges
	// to later-declared components are never missed.
	doc.DependencyGraph = depgraph.Build(doc.Components)
	stampDependencyInfo(doc.Components, doc.DependencyGraph)

	b.logger.Debug("built IR document",
		"components", len(doc.Components), "operations", len(doc.Operations))
	return doc, nil
}

// componentSource is one components table to harvest: the main document's
// table or one bundled x-ext bucket.
type componentSource struct {
	// hash is empty for the main document and the source file hash for
	// x-ext buckets.
	hash       string
	components *parser.Components
}

// ref returns the canonical ref of a named component in this source.
func (s componentSource) ref(t parser.ComponentType, name string) string {
	return parser.Ref{Type: t, Name: name, SourceHash: s.hash}.String()
}

// componentSources lists the tables to harvest in deterministic order: the
// main document first, then x-ext buckets sorted by hash.
func (bc *buildContext) componentSources() []componentSource {
	var out []componentSource
	if bc.doc.Components != nil {
		out = append(out, componentSource{components: bc.doc.Components})
	}
	for _, hash := range maputil.SortedKeys(bc.doc.XExt) {
		bucket := bc.doc.XExt[hash]
		if bucket == nil || bucket.Components == nil {
			continue
		}
		out = append(out, componentSource{hash: hash, components: bucket.Components})
	}
	return out
}

// sectionOrder picks the declaration order the parser recorded, or sorted
// names for hand-constructed documents that never went through unmarshaling.
func sectionOrder[V any](recorded []string, section map[string]V) []string {
	if len(recorded) > 0 {
		return recorded
	}
	return maputil.SortedKeys(section)
}

// pushComponent sets the diagnostics path to a named component and returns
// the number of segments to pop afterwards.
func (bc *buildContext) pushComponent(hash string, section parser.ComponentType, name string) int {
	n := 3
	if hash != "" {
		bc.path.Push("x-ext")
		bc.path.Push(hash)
		n = 5
	}
	bc.path.Push("components")
	bc.path.Push(string(section))
	bc.path.Push(name)
	return n
}

func (bc *buildContext) popComponent(n int) {
	for i := 0; i < n; i++ {
		bc.path.Pop()
	}
}

// buildComponents builds every named component into doc. Sections run in
// fixed order (schemas, parameters, headers, responses, requestBodies,
// securitySchemes), each covering the main document and then the buckets,
// so Document.Components has a stable layout regardless of source shape.
func (bc *buildContext) buildComponents(doc *ir.Document) error {
	sources := bc.componentSources()
	sections := []func(*ir.Document, componentSource) error{
		bc.buildSchemaComponents,
		bc.buildParameterComponents,
		bc.buildHeaderComponents,
		bc.buildResponseComponents,
		bc.buildRequestBodyComponents,
		bc.buildSecuritySchemeComponents,
	}
	for _, section := range sections {
		for _, src := range sources {
			if err := section(doc, src); err != nil {
				return err
			}
		}
	}
	return nil
}

func (bc *buildContext) buildSchemaComponents(doc *ir.Document, src componentSource) error {
	for _, name := range sectionOrder(src.components.SchemaOrder, src.components.Schemas) {
		raw := src.components.Schemas[name]
		if raw == nil {
			continue
		}
		canonical := src.ref(parser.ComponentSchemas, name)
		n := bc.pushComponent(src.hash, parser.ComponentSchemas, name)
		bc.beginComponent(canonical)
		schema, err := bc.buildSchema(raw, memberSite())
		bc.popComponent(n)
		if err != nil {
			return err
		}
		doc.Components = append(doc.Components, &ir.Component{
			Kind:   ir.ComponentSchema,
			Name:   name,
			Ref:    canonical,
			Schema: schema,
		})
		doc.SchemaNames = append(doc.SchemaNames, name)
		registerEnum(doc, name, canonical, schema)
	}
	return nil
}

// registerEnum records named primitive enum components in the document's
// enum registry. When a bucket component shares a name with an earlier one
// the earlier definition wins, so main document names shadow bucket names.
func registerEnum(doc *ir.Document, name, canonical string, schema *ir.Schema) {
	if schema.Kind != ir.KindPrimitive || len(schema.Enum) == 0 {
		return
	}
	if _, taken := doc.Enums[name]; taken {
		return
	}
	if doc.Enums == nil {
		doc.Enums = make(map[string]*ir.Enum)
	}
	doc.Enums[name] = &ir.Enum{
		Name:   name,
		Ref:    canonical,
		Type:   schema.Type,
		Values: schema.Enum,
	}
}

func (bc *buildContext) buildParameterComponents(doc *ir.Document, src componentSource) error {
	for _, name := range sectionOrder(src.components.ParameterOrder, src.components.Parameters) {
		raw := src.components.Parameters[name]
		if raw == nil {
			continue
		}
		canonical := src.ref(parser.ComponentParameters, name)
		n := bc.pushComponent(src.hash, parser.ComponentParameters, name)
		bc.beginComponent(canonical)
		built, err := bc.buildParameterComponent(raw)
		bc.popComponent(n)
		if err != nil {
			return err
		}
		doc.Components = append(doc.Components, &ir.Component{
			Kind:      ir.ComponentParameter,
			Name:      name,
			Ref:       canonical,
			Parameter: built,
		})
	}
	return nil
}

func (bc *buildContext) buildParameterComponent(raw *parser.Parameter) (*ir.Parameter, error) {
	resolved, err := bc.resolveParameter(raw)
	if err != nil {
		return nil, err
	}
	return bc.buildParameter(resolved)
}

// buildHeaderComponents builds named headers as header-located parameters,
// the same shape response headers take, so writers handle both through one
// path.
func (bc *buildContext) buildHeaderComponents(doc *ir.Document, src componentSource) error {
	for _, name := range sectionOrder(src.components.HeaderOrder, src.components.Headers) {
		raw := src.components.Headers[name]
		if raw == nil {
			continue
		}
		canonical := src.ref(parser.ComponentHeaders, name)
		n := bc.pushComponent(src.hash, parser.ComponentHeaders, name)
		bc.beginComponent(canonical)
		built, err := bc.buildHeaderComponent(name, raw)
		bc.popComponent(n)
		if err != nil {
			return err
		}
		doc.Components = append(doc.Components, &ir.Component{
			Kind:      ir.ComponentHeader,
			Name:      name,
			Ref:       canonical,
			Parameter: built,
		})
	}
	return nil
}

func (bc *buildContext) buildHeaderComponent(name string, raw *parser.Header) (*ir.Parameter, error) {
	if raw.Ref != "" {
		ref, err := parser.ParseRef(raw.Ref)
		if err != nil {
			return nil, err
		}
		resolved, err := bc.resolver.Header(ref)
		if err != nil {
			return nil, bc.withLocation(err)
		}
		raw = resolved
	}
	out := &ir.Parameter{
		Name:        name,
		In:          ir.LocationHeader,
		Required:    raw.Required,
		Deprecated:  raw.Deprecated,
		Description: raw.Description,
		Style:       raw.Style,
		Explode:     boolPtr(raw.Explode),
	}
	if raw.Schema != nil {
		schema, err := bc.buildAt("schema", raw.Schema, propertySite(raw.Required))
		if err != nil {
			return nil, err
		}
		out.Schema = schema
	}
	return out, nil
}

func (bc *buildContext) buildResponseComponents(doc *ir.Document, src componentSource) error {
	for _, name := range sectionOrder(src.components.ResponseOrder, src.components.Responses) {
		raw := src.components.Responses[name]
		if raw == nil {
			continue
		}
		canonical := src.ref(parser.ComponentResponses, name)
		n := bc.pushComponent(src.hash, parser.ComponentResponses, name)
		bc.beginComponent(canonical)
		// Component responses carry no status code; the code belongs to
		// the operation position referencing them.
		built, err := bc.buildResponse("", raw)
		bc.popComponent(n)
		if err != nil {
			return err
		}
		doc.Components = append(doc.Components, &ir.Component{
			Kind:     ir.ComponentResponse,
			Name:     name,
			Ref:      canonical,
			Response: built,
		})
	}
	return nil
}

func (bc *buildContext) buildRequestBodyComponents(doc *ir.Document, src componentSource) error {
	for _, name := range sectionOrder(src.components.RequestBodyOrder, src.components.RequestBodies) {
		raw := src.components.RequestBodies[name]
		if raw == nil {
			continue
		}
		canonical := src.ref(parser.ComponentRequestBodies, name)
		n := bc.pushComponent(src.hash, parser.ComponentRequestBodies, name)
		bc.beginComponent(canonical)
		built, err := bc.buildRequestBody(raw)
		bc.popComponent(n)
		if err != nil {
			return err
		}
		doc.Components = append(doc.Components, &ir.Component{
			Kind:        ir.ComponentRequestBody,
			Name:        name,
			Ref:         canonical,
			RequestBody: built,
		})
	}
	return nil
}

func (bc *buildContext) buildSecuritySchemeComponents(doc *ir.Document, src componentSource) error {
	for _, name := range sectionOrder(src.components.SecuritySchemeOrder, src.components.SecuritySchemes) {
		raw := src.components.SecuritySchemes[name]
		if raw == nil {
			continue
		}
		canonical := src.ref(parser.ComponentSecuritySchemes, name)
		n := bc.pushComponent(src.hash, parser.ComponentSecuritySchemes, name)
		bc.beginComponent(canonical)
		built, err := bc.buildSecurityScheme(raw)
		bc.popComponent(n)
		if err != nil {
			return err
		}
		doc.Components = append(doc.Components, &ir.Component{
			Kind:           ir.ComponentSecurityScheme,
			Name:           name,
			Ref:            canonical,
			SecurityScheme: built,
		})
	}
	return nil
}

func (bc *buildContext) buildSecurityScheme(raw *parser.SecurityScheme) (*ir.SecurityScheme, error) {
	if raw.Ref != "" {
		ref, err := parser.ParseRef(raw.Ref)
		if err != nil {
			return nil, err
		}
		resolved, err := bc.resolver.SecurityScheme(ref)
		if err != nil {
			return nil, bc.withLocation(err)
		}
		raw = resolved
	}
	return &ir.SecurityScheme{
		Type:             raw.Type,
		Description:      raw.Description,
		Name:             raw.Name,
		In:               raw.In,
		Scheme:           raw.Scheme,
		BearerFormat:     raw.BearerFormat,
		Flows:            flowMap(raw.Flows),
		OpenIDConnectURL: raw.OpenIDConnectURL,
	}, nil
}

// flowMap converts the fixed OAuth flow fields to the IR's map form, keyed
// by flow name.
func flowMap(flows *parser.OAuthFlows) map[string]*ir.OAuthFlow {
	if flows == nil {
		return nil
	}
	out := make(map[string]*ir.OAuthFlow, 4)
	add := func(name string, f *parser.OAuthFlow) {
		if f == nil {
			return
		}
		flow := &ir.OAuthFlow{
			AuthorizationURL: f.AuthorizationURL,
			TokenURL:         f.TokenURL,
			RefreshURL:       f.RefreshURL,
		}
		if len(f.Scopes) > 0 {
			flow.Scopes = make(map[string]string, len(f.Scopes))
			for k, v := range f.Scopes {
				flow.Scopes[k] = v
			}
		}
		out[name] = flow
	}
	add("implicit", flows.Implicit)
	add("password", flows.Password)
	add("clientCredentials", flows.ClientCredentials)
	add("authorizationCode", flows.AuthorizationCode)
	if len(out) == 0 {
		return nil
	}
	return out
}

// stampDependencyInfo copies each schema component's graph edges onto its
// root node metadata so writers can consult them without walking the graph.
// Isolated components are left unstamped.
func stampDependencyInfo(components []*ir.Component, g *ir.DependencyGraph) {
	if g == nil || len(g.Nodes) == 0 {
		return
	}
	for _, c := range components {
		if c.Kind != ir.ComponentSchema || c.Schema == nil || c.Schema.Metadata == nil {
			continue
		}
		node := g.Nodes[c.Ref]
		if node == nil || (len(node.Dependencies) == 0 && len(node.Dependents) == 0) {
			continue
		}
		c.Schema.Metadata.DependencyGraph = &ir.DependencyInfo{
			References:   node.Dependencies,
			ReferencedBy: node.Dependents,
			Depth:        node.Depth,
		}
	}
}
