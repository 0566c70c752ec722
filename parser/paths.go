package parser

import (
	"fmt"

	"go.yaml.in/yaml/v4"

	"github.com/castrlabs/castr/internal/httputil"
)

// Paths holds the relative paths to individual endpoints
type Paths map[string]*PathItem

// PathItem describes the operations available on a single path
type PathItem struct {
	Ref         string       `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Summary     string       `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Get         *Operation   `yaml:"get,omitempty" json:"get,omitempty"`
	Put         *Operation   `yaml:"put,omitempty" json:"put,omitempty"`
	Post        *Operation   `yaml:"post,omitempty" json:"post,omitempty"`
	Delete      *Operation   `yaml:"delete,omitempty" json:"delete,omitempty"`
	Options     *Operation   `yaml:"options,omitempty" json:"options,omitempty"`
	Head        *Operation   `yaml:"head,omitempty" json:"head,omitempty"`
	Patch       *Operation   `yaml:"patch,omitempty" json:"patch,omitempty"`
	Trace       *Operation   `yaml:"trace,omitempty" json:"trace,omitempty"`
	Servers     []*Server    `yaml:"servers,omitempty" json:"servers,omitempty"`
	Parameters  []*Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`

	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Operations returns the operations declared on this path item keyed by
// lowercase HTTP method, in the canonical method order of
// [httputil.MethodOrder]. Nil operations are omitted.
func (pi *PathItem) Operations() []MethodOperation {
	byMethod := map[string]*Operation{
		httputil.MethodGet:     pi.Get,
		httputil.MethodPut:     pi.Put,
		httputil.MethodPost:    pi.Post,
		httputil.MethodDelete:  pi.Delete,
		httputil.MethodOptions: pi.Options,
		httputil.MethodHead:    pi.Head,
		httputil.MethodPatch:   pi.Patch,
		httputil.MethodTrace:   pi.Trace,
	}
	out := make([]MethodOperation, 0, len(byMethod))
	for _, m := range httputil.MethodOrder {
		if op := byMethod[m]; op != nil {
			out = append(out, MethodOperation{Method: m, Operation: op})
		}
	}
	return out
}

// MethodOperation pairs an HTTP method with its operation.
type MethodOperation struct {
	Method    string
	Operation *Operation
}

// Operation describes a single API operation on a path
type Operation struct {
	Tags         []string             `yaml:"tags,omitempty" json:"tags,omitempty"`
	Summary      string               `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description  string               `yaml:"description,omitempty" json:"description,omitempty"`
	ExternalDocs *ExternalDocs        `yaml:"externalDocs,omitempty" json:"externalDocs,omitempty"`
	OperationID  string               `yaml:"operationId,omitempty" json:"operationId,omitempty"`
	Parameters   []*Parameter         `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	RequestBody  *RequestBody         `yaml:"requestBody,omitempty" json:"requestBody,omitempty"`
	Responses    *Responses           `yaml:"responses" json:"responses"`
	Callbacks    map[string]*Callback `yaml:"callbacks,omitempty" json:"callbacks,omitempty"`
	Deprecated   bool                 `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`

	// Security is nil when the operation declares no security field (the
	// document default applies) and non-nil but empty for an explicit
	// "security: []" opt-out. The distinction is preserved into the IR.
	Security []SecurityRequirement `yaml:"security,omitempty" json:"security,omitempty"`

	Servers []*Server `yaml:"servers,omitempty" json:"servers,omitempty"`

	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Responses holds the possible responses of an operation.
// The default response is kept separate from the status-code map.
type Responses struct {
	Default *Response            `yaml:"default,omitempty" json:"default,omitempty"`
	Codes   map[string]*Response `yaml:",inline" json:"-"` // Handled by custom unmarshaler

	// CodeOrder records the declaration order of status codes as they
	// appeared in the source document.
	CodeOrder []string `yaml:"-" json:"-"`
}

// UnmarshalYAML implements custom unmarshaling for Responses to validate
// status codes during parsing and to record their declaration order.
func (r *Responses) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("responses must be a mapping, got %v", node.Kind)
	}

	r.Codes = make(map[string]*Response)
	r.CodeOrder = make([]string, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]

		if key == "default" {
			var defaultResp Response
			if err := val.Decode(&defaultResp); err != nil {
				return fmt.Errorf("failed to unmarshal default response: %w", err)
			}
			r.Default = &defaultResp
			r.CodeOrder = append(r.CodeOrder, key)
			continue
		}

		if !httputil.ValidateStatusCode(key) {
			return fmt.Errorf("invalid status code '%s' in responses: must be a valid HTTP status code (e.g., \"200\", \"404\"), wildcard pattern (e.g., \"2XX\"), or extension field (e.g., \"x-custom\")", key)
		}
		var resp Response
		if err := val.Decode(&resp); err != nil {
			return fmt.Errorf("failed to unmarshal response for status code %s: %w", key, err)
		}
		r.Codes[key] = &resp
		r.CodeOrder = append(r.CodeOrder, key)
	}

	return nil
}

// Response describes a single response from an API operation
type Response struct {
	Ref         string                `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Headers     map[string]*Header    `yaml:"headers,omitempty" json:"headers,omitempty"`
	Content     map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"`
	Links       map[string]*Link      `yaml:"links,omitempty" json:"links,omitempty"`

	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Callback is a map of runtime expressions to path items (OAS 3.0+)
type Callback map[string]*PathItem

// Link represents a design-time link for a response (OAS 3.0+)
type Link struct {
	Ref          string         `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	OperationRef string         `yaml:"operationRef,omitempty" json:"operationRef,omitempty"`
	OperationID  string         `yaml:"operationId,omitempty" json:"operationId,omitempty"`
	Parameters   map[string]any `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	RequestBody  any            `yaml:"requestBody,omitempty" json:"requestBody,omitempty"`
	Description  string         `yaml:"description,omitempty" json:"description,omitempty"`
	Server       *Server        `yaml:"server,omitempty" json:"server,omitempty"`
	Extra        map[string]any `yaml:",inline" json:"-"`
}

// MediaType provides schema and examples for one media type
type MediaType struct {
	Schema   *Schema              `yaml:"schema,omitempty" json:"schema,omitempty"`
	Example  any                  `yaml:"example,omitempty" json:"example,omitempty"`
	Examples map[string]*Example  `yaml:"examples,omitempty" json:"examples,omitempty"`
	Encoding map[string]*Encoding `yaml:"encoding,omitempty" json:"encoding,omitempty"`
	Extra    map[string]any       `yaml:",inline" json:"-"`
}

// Encoding describes how a single request body property is serialized
type Encoding struct {
	ContentType   string             `yaml:"contentType,omitempty" json:"contentType,omitempty"`
	Headers       map[string]*Header `yaml:"headers,omitempty" json:"headers,omitempty"`
	Style         string             `yaml:"style,omitempty" json:"style,omitempty"`
	Explode       *bool              `yaml:"explode,omitempty" json:"explode,omitempty"`
	AllowReserved bool               `yaml:"allowReserved,omitempty" json:"allowReserved,omitempty"`
	Extra         map[string]any     `yaml:",inline" json:"-"`
}
