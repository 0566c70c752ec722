package parser

// Info provides metadata about the API (OAS 3.0+)
type Info struct {
	Title          string   `yaml:"title" json:"title"`
	Summary        string   `yaml:"summary,omitempty" json:"summary,omitempty"` // OAS 3.1+
	Description    string   `yaml:"description,omitempty" json:"description,omitempty"`
	TermsOfService string   `yaml:"termsOfService,omitempty" json:"termsOfService,omitempty"`
	Contact        *Contact `yaml:"contact,omitempty" json:"contact,omitempty"`
	License        *License `yaml:"license,omitempty" json:"license,omitempty"`
	Version        string   `yaml:"version" json:"version"`

	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Contact information for the exposed API
type Contact struct {
	Name  string         `yaml:"name,omitempty" json:"name,omitempty"`
	URL   string         `yaml:"url,omitempty" json:"url,omitempty"`
	Email string         `yaml:"email,omitempty" json:"email,omitempty"`
	Extra map[string]any `yaml:",inline" json:"-"`
}

// License information for the exposed API
type License struct {
	Name       string         `yaml:"name" json:"name"`
	Identifier string         `yaml:"identifier,omitempty" json:"identifier,omitempty"` // OAS 3.1+
	URL        string         `yaml:"url,omitempty" json:"url,omitempty"`
	Extra      map[string]any `yaml:",inline" json:"-"`
}

// Server represents a server hosting the API (OAS 3.0+)
type Server struct {
	URL         string                     `yaml:"url" json:"url"`
	Description string                     `yaml:"description,omitempty" json:"description,omitempty"`
	Variables   map[string]*ServerVariable `yaml:"variables,omitempty" json:"variables,omitempty"`
	Extra       map[string]any             `yaml:",inline" json:"-"`
}

// ServerVariable represents a server URL template variable (OAS 3.0+)
type ServerVariable struct {
	Enum        []string       `yaml:"enum,omitempty" json:"enum,omitempty"`
	Default     string         `yaml:"default" json:"default"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Extra       map[string]any `yaml:",inline" json:"-"`
}

// Tag adds metadata to a single tag used by operations
type Tag struct {
	Name         string         `yaml:"name" json:"name"`
	Description  string         `yaml:"description,omitempty" json:"description,omitempty"`
	ExternalDocs *ExternalDocs  `yaml:"externalDocs,omitempty" json:"externalDocs,omitempty"`
	Extra        map[string]any `yaml:",inline" json:"-"`
}

// ExternalDocs points to additional external documentation
type ExternalDocs struct {
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	URL         string         `yaml:"url" json:"url"`
	Extra       map[string]any `yaml:",inline" json:"-"`
}

// Example represents an example object (OAS 3.0+)
type Example struct {
	Ref           string         `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Summary       string         `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description   string         `yaml:"description,omitempty" json:"description,omitempty"`
	Value         any            `yaml:"value,omitempty" json:"value,omitempty"`
	ExternalValue string         `yaml:"externalValue,omitempty" json:"externalValue,omitempty"`
	Extra         map[string]any `yaml:",inline" json:"-"`
}
