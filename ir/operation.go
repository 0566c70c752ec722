package ir

import "github.com/castrlabs/castr/internal/httputil"

// ParameterLocation is an OpenAPI parameter location.
type ParameterLocation string

// Parameter locations.
const (
	LocationPath   ParameterLocation = "path"
	LocationQuery  ParameterLocation = "query"
	LocationHeader ParameterLocation = "header"
	LocationCookie ParameterLocation = "cookie"
)

// Operation is one built HTTP operation. Parameters holds every parameter in
// resolution order (path-item parameters first, then operation parameters,
// with operation-level entries overriding same name+location pairs);
// ParametersByLocation is a grouped view over the same pointers, rebuilt
// after deserialization rather than serialized twice.
type Operation struct {
	OperationID string   `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Method      string   `json:"method" yaml:"method"`
	Path        string   `json:"path" yaml:"path"`
	Summary     string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Deprecated  bool     `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`

	Parameters           []*Parameter                       `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	ParametersByLocation map[ParameterLocation][]*Parameter `json:"-" yaml:"-"`
	RequestBody          *RequestBody                       `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses            []*Response                        `json:"responses,omitempty" yaml:"responses,omitempty"`

	// Security is nil when the operation inherits the document default, and
	// non-nil (possibly empty, for `security: []` opt-outs) when the
	// operation declares its own requirements. The distinction is load
	// bearing for clients, so no omitempty.
	Security []SecurityRequirement `json:"security" yaml:"security"`
}

// GroupParameters rebuilds ParametersByLocation from Parameters. The grouped
// slices share pointers with Parameters.
func (op *Operation) GroupParameters() {
	if len(op.Parameters) == 0 {
		op.ParametersByLocation = nil
		return
	}
	grouped := make(map[ParameterLocation][]*Parameter, 4)
	for _, p := range op.Parameters {
		grouped[p.In] = append(grouped[p.In], p)
	}
	op.ParametersByLocation = grouped
}

// PathParameters returns the path-location parameters in declaration order.
func (op *Operation) PathParameters() []*Parameter {
	return op.ParametersByLocation[LocationPath]
}

// Response returns the response for an exact status code string ("200",
// "404", "default"), or nil.
func (op *Operation) Response(status string) *Response {
	for _, r := range op.Responses {
		if r.Status == status {
			return r
		}
	}
	return nil
}

// Parameter is one built operation parameter.
type Parameter struct {
	Name        string            `json:"name" yaml:"name"`
	In          ParameterLocation `json:"in" yaml:"in"`
	Required    bool              `json:"required" yaml:"required"`
	Deprecated  bool              `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Style       string            `json:"style,omitempty" yaml:"style,omitempty"`
	Explode     *bool             `json:"explode,omitempty" yaml:"explode,omitempty"`
	Schema      *Schema           `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// RequestBody is a built request body. Content maps media type to schema in
// document order.
type RequestBody struct {
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool        `json:"required" yaml:"required"`
	Content     *ContentMap `json:"content,omitempty" yaml:"content,omitempty"`
}

// JSONSchema returns the schema of the first JSON media type in Content, or
// nil when the body has none.
func (rb *RequestBody) JSONSchema() *Schema {
	if rb == nil {
		return nil
	}
	return firstJSON(rb.Content)
}

// Response is one built response. Status is the literal response key from
// the document ("200", "4XX", "default").
type Response struct {
	Status      string      `json:"status" yaml:"status"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Content     *ContentMap `json:"content,omitempty" yaml:"content,omitempty"`
	Headers     *ContentMap `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// JSONSchema returns the schema of the first JSON media type in Content, or
// nil when the response has none.
func (r *Response) JSONSchema() *Schema {
	if r == nil {
		return nil
	}
	return firstJSON(r.Content)
}

// SecurityRequirement names one security scheme an operation accepts, with
// any scopes it demands.
type SecurityRequirement struct {
	SchemeName string   `json:"schemeName" yaml:"schemeName"`
	Scopes     []string `json:"scopes,omitempty" yaml:"scopes,omitempty"`
}

func firstJSON(content *ContentMap) *Schema {
	if content == nil {
		return nil
	}
	for _, mediaType := range content.Keys() {
		if httputil.IsJSONMediaType(mediaType) {
			s, _ := content.Get(mediaType)
			return s
		}
	}
	return nil
}
