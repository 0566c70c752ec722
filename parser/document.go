package parser

import (
	"go.yaml.in/yaml/v4"
)

// Document represents an OpenAPI 3.x document.
// References:
// - OAS 3.0.x: https://spec.openapis.org/oas/v3.0.4.html
// - OAS 3.1.x: https://spec.openapis.org/oas/v3.1.1.html
type Document struct {
	OpenAPI      string                `yaml:"openapi" json:"openapi"` // Required: "3.0.x" or "3.1.x"
	Info         *Info                 `yaml:"info" json:"info"`       // Required
	Servers      []*Server             `yaml:"servers,omitempty" json:"servers,omitempty"`
	Paths        Paths                 `yaml:"paths,omitempty" json:"paths,omitempty"` // Required in 3.0, optional in 3.1+
	Webhooks     map[string]*PathItem  `yaml:"webhooks,omitempty" json:"webhooks,omitempty"` // OAS 3.1+
	Components   *Components           `yaml:"components,omitempty" json:"components,omitempty"`
	Security     []SecurityRequirement `yaml:"security,omitempty" json:"security,omitempty"`
	Tags         []*Tag                `yaml:"tags,omitempty" json:"tags,omitempty"`
	ExternalDocs *ExternalDocs         `yaml:"externalDocs,omitempty" json:"externalDocs,omitempty"`
	OASVersion   OASVersion            `yaml:"-" json:"-"`

	// OAS 3.1+ additions
	JSONSchemaDialect string `yaml:"jsonSchemaDialect,omitempty" json:"jsonSchemaDialect,omitempty"`

	// XExt holds components bundled in from other source files, keyed by the
	// originating file's hash. Refs of the form
	// "#/x-ext/{hash}/components/{type}/{name}" resolve into these buckets.
	XExt map[string]*XExtBucket `yaml:"x-ext,omitempty" json:"x-ext,omitempty"`

	// PathOrder records the declaration order of Paths keys as they appeared
	// in the source document. Populated by UnmarshalYAML.
	PathOrder []string `yaml:"-" json:"-"`

	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// UnmarshalYAML implements custom unmarshaling for Document to record the
// declaration order of paths. Go maps lose key order; the IR builder emits
// operations in source order.
func (d *Document) UnmarshalYAML(node *yaml.Node) error {
	type plain Document
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*d = Document(p)
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "paths" {
			continue
		}
		val := node.Content[i+1]
		if val.Kind == yaml.AliasNode && val.Alias != nil {
			val = val.Alias
		}
		if val.Kind != yaml.MappingNode {
			continue
		}
		d.PathOrder = make([]string, 0, len(val.Content)/2)
		for j := 0; j+1 < len(val.Content); j += 2 {
			d.PathOrder = append(d.PathOrder, val.Content[j].Value)
		}
	}
	return nil
}

// XExtBucket holds the components bundled from one external source file.
type XExtBucket struct {
	// Source is the original file path or URL, recorded by the bundler
	Source     string      `yaml:"source,omitempty" json:"source,omitempty"`
	Components *Components `yaml:"components,omitempty" json:"components,omitempty"`
	Extra      map[string]any `yaml:",inline" json:"-"`
}

// Components holds reusable objects for different aspects of the OAS (OAS 3.x).
// The *Order fields record declaration order for each section, captured during
// unmarshaling; the IR assembler preserves it in the built document.
type Components struct {
	Schemas         map[string]*Schema         `yaml:"schemas,omitempty" json:"schemas,omitempty"`
	Responses       map[string]*Response       `yaml:"responses,omitempty" json:"responses,omitempty"`
	Parameters      map[string]*Parameter      `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Examples        map[string]*Example        `yaml:"examples,omitempty" json:"examples,omitempty"`
	RequestBodies   map[string]*RequestBody    `yaml:"requestBodies,omitempty" json:"requestBodies,omitempty"`
	Headers         map[string]*Header         `yaml:"headers,omitempty" json:"headers,omitempty"`
	SecuritySchemes map[string]*SecurityScheme `yaml:"securitySchemes,omitempty" json:"securitySchemes,omitempty"`
	Links           map[string]*Link           `yaml:"links,omitempty" json:"links,omitempty"`
	Callbacks       map[string]*Callback       `yaml:"callbacks,omitempty" json:"callbacks,omitempty"`

	SchemaOrder         []string `yaml:"-" json:"-"`
	ResponseOrder       []string `yaml:"-" json:"-"`
	ParameterOrder      []string `yaml:"-" json:"-"`
	RequestBodyOrder    []string `yaml:"-" json:"-"`
	HeaderOrder         []string `yaml:"-" json:"-"`
	SecuritySchemeOrder []string `yaml:"-" json:"-"`

	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// UnmarshalYAML implements custom unmarshaling for Components to record the
// declaration order of each component section.
func (c *Components) UnmarshalYAML(node *yaml.Node) error {
	type plain Components
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*c = Components(p)
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		section := node.Content[i].Value
		val := node.Content[i+1]
		if val.Kind == yaml.AliasNode && val.Alias != nil {
			val = val.Alias
		}
		if val.Kind != yaml.MappingNode {
			continue
		}
		switch section {
		case "schemas":
			c.SchemaOrder = mappingKeys(val)
		case "responses":
			c.ResponseOrder = mappingKeys(val)
		case "parameters":
			c.ParameterOrder = mappingKeys(val)
		case "requestBodies":
			c.RequestBodyOrder = mappingKeys(val)
		case "headers":
			c.HeaderOrder = mappingKeys(val)
		case "securitySchemes":
			c.SecuritySchemeOrder = mappingKeys(val)
		}
	}
	return nil
}

// mappingKeys returns the keys of a YAML mapping node in declaration order.
func mappingKeys(node *yaml.Node) []string {
	keys := make([]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys = append(keys, node.Content[i].Value)
	}
	return keys
}
