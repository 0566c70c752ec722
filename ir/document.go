package ir

// FormatVersion identifies the serialized IR layout. Bumped when the shape
// of the serialized document changes incompatibly.
const FormatVersion = "1"

// Document is the complete intermediate representation of one OpenAPI
// document: every component and operation built into normalized schema
// trees, plus the dependency graph over the named components.
//
// All slices are in source document order unless stated otherwise, and the
// same input always produces the same Document.
type Document struct {
	// Version is the IR format version (FormatVersion at build time).
	Version string `json:"version" yaml:"version"`
	// OpenAPIVersion is the source document's literal openapi value.
	OpenAPIVersion string `json:"openapiVersion" yaml:"openapiVersion"`

	Info    Info     `json:"info" yaml:"info"`
	Servers []Server `json:"servers,omitempty" yaml:"servers,omitempty"`

	// Components holds every built component in source declaration order,
	// sections in fixed order (schemas, parameters, headers, responses,
	// requestBodies, securitySchemes).
	Components []*Component `json:"components,omitempty" yaml:"components,omitempty"`

	// Operations holds every built operation, ordered by path declaration
	// then method.
	Operations []*Operation `json:"operations,omitempty" yaml:"operations,omitempty"`

	// DependencyGraph covers the named schema components.
	DependencyGraph *DependencyGraph `json:"dependencyGraph,omitempty" yaml:"dependencyGraph,omitempty"`

	// SchemaNames lists the schema component names in source order.
	SchemaNames []string `json:"schemaNames,omitempty" yaml:"schemaNames,omitempty"`

	// Enums registers every named enum component by component name.
	Enums map[string]*Enum `json:"enums,omitempty" yaml:"enums,omitempty"`

	// Security is the document-level default requirement list. Nil when the
	// document declares none, empty when it declares `security: []`. Same
	// no-omitempty treatment as Operation.Security.
	Security []SecurityRequirement `json:"security" yaml:"security"`
}

// Info is the source document's info block.
type Info struct {
	Title       string `json:"title" yaml:"title"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Server is one servers entry.
type Server struct {
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ComponentKind names which components section a Component came from.
type ComponentKind string

// Component kinds, matching the source sections.
const (
	ComponentSchema         ComponentKind = "schema"
	ComponentParameter      ComponentKind = "parameter"
	ComponentHeader         ComponentKind = "header"
	ComponentResponse       ComponentKind = "response"
	ComponentRequestBody    ComponentKind = "requestBody"
	ComponentSecurityScheme ComponentKind = "securityScheme"
)

// Component is one named components entry in built form. Exactly one payload
// field matching Kind is set; component headers are built as Parameter
// values with In set to LocationHeader.
type Component struct {
	Kind ComponentKind `json:"kind" yaml:"kind"`
	Name string        `json:"name" yaml:"name"`
	// Ref is the canonical reference other nodes use to point here.
	Ref string `json:"ref" yaml:"ref"`

	Schema         *Schema         `json:"schema,omitempty" yaml:"schema,omitempty"`
	Parameter      *Parameter      `json:"parameter,omitempty" yaml:"parameter,omitempty"`
	Response       *Response       `json:"response,omitempty" yaml:"response,omitempty"`
	RequestBody    *RequestBody    `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	SecurityScheme *SecurityScheme `json:"securityScheme,omitempty" yaml:"securityScheme,omitempty"`
}

// Enum is a named enum component: a schema component whose built form is a
// primitive with an enum facet. Writers emit these once and reference them.
type Enum struct {
	Name string `json:"name" yaml:"name"`
	// Ref is the canonical reference of the defining component.
	Ref string `json:"ref" yaml:"ref"`
	// Type is the member primitive type name ("string", "integer", ...).
	Type   string `json:"type" yaml:"type"`
	Values []any  `json:"values" yaml:"values"`
}

// SecurityScheme is the built form of a components.securitySchemes entry.
type SecurityScheme struct {
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// apiKey
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	In   string `json:"in,omitempty" yaml:"in,omitempty"`

	// http
	Scheme       string `json:"scheme,omitempty" yaml:"scheme,omitempty"`
	BearerFormat string `json:"bearerFormat,omitempty" yaml:"bearerFormat,omitempty"`

	// oauth2, keyed by flow name ("implicit", "password",
	// "clientCredentials", "authorizationCode")
	Flows map[string]*OAuthFlow `json:"flows,omitempty" yaml:"flows,omitempty"`

	// openIdConnect
	OpenIDConnectURL string `json:"openIdConnectUrl,omitempty" yaml:"openIdConnectUrl,omitempty"`
}

// OAuthFlow is one OAuth2 flow configuration.
type OAuthFlow struct {
	AuthorizationURL string            `json:"authorizationUrl,omitempty" yaml:"authorizationUrl,omitempty"`
	TokenURL         string            `json:"tokenUrl,omitempty" yaml:"tokenUrl,omitempty"`
	RefreshURL       string            `json:"refreshUrl,omitempty" yaml:"refreshUrl,omitempty"`
	Scopes           map[string]string `json:"scopes,omitempty" yaml:"scopes,omitempty"`
}

// DependencyGraph is the reference graph over named schema components.
type DependencyGraph struct {
	// Nodes maps canonical ref to its graph node.
	Nodes map[string]*DependencyNode `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	// TopologicalOrder lists every node leaves-first; members of cycles
	// appear in it too, flagged via their node's IsCircular.
	TopologicalOrder []string `json:"topologicalOrder,omitempty" yaml:"topologicalOrder,omitempty"`
	// CircularReferences lists each cycle as an ordered ref list, rotated to
	// start at the cycle's first-appearing ref.
	CircularReferences [][]string `json:"circularReferences,omitempty" yaml:"circularReferences,omitempty"`
}

// DependencyNode is one named component in the dependency graph.
type DependencyNode struct {
	Ref string `json:"ref" yaml:"ref"`
	// Dependencies lists refs this component uses, in first-appearance order.
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	// Dependents lists refs that use this component, in first-appearance
	// order.
	Dependents []string `json:"dependents,omitempty" yaml:"dependents,omitempty"`
	// Depth is the longest distance from a leaf. Leaves are depth 0.
	Depth int `json:"depth" yaml:"depth"`
	// IsCircular marks members of at least one cycle.
	IsCircular bool `json:"isCircular,omitempty" yaml:"isCircular,omitempty"`
}

// ComponentByRef returns the component with the given canonical ref, or nil.
func (d *Document) ComponentByRef(ref string) *Component {
	for _, c := range d.Components {
		if c.Ref == ref {
			return c
		}
	}
	return nil
}

// SchemaComponent returns the named schema component, or nil.
func (d *Document) SchemaComponent(name string) *Component {
	for _, c := range d.Components {
		if c.Kind == ComponentSchema && c.Name == name {
			return c
		}
	}
	return nil
}

// OperationByID returns the operation with the given operationId, or nil.
func (d *Document) OperationByID(id string) *Operation {
	if id == "" {
		return nil
	}
	for _, op := range d.Operations {
		if op.OperationID == id {
			return op
		}
	}
	return nil
}
