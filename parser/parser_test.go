package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const petstoreYAML = `openapi: 3.0.3
info:
  title: Petstore API
  version: 1.0.0
paths:
  /pets:
    get:
      operationId: listPets
      parameters:
        - name: limit
          in: query
          schema:
            type: integer
      responses:
        '200':
          description: a paged array of pets
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Pet'
    post:
      operationId: createPet
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Pet'
      responses:
        '201':
          description: created
  /pets/{petId}:
    get:
      operationId: getPet
      parameters:
        - name: petId
          in: path
          required: true
          schema:
            type: string
      responses:
        '200':
          description: a single pet
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
        '404':
          $ref: '#/components/responses/NotFound'
components:
  schemas:
    Pet:
      type: object
      required:
        - name
      properties:
        name:
          type: string
        tag:
          type: string
        status:
          $ref: '#/components/schemas/Status'
    Status:
      type: string
      enum:
        - available
        - pending
        - sold
    Error:
      type: object
      properties:
        code:
          type: integer
        message:
          type: string
  responses:
    NotFound:
      description: pet not found
      content:
        application/json:
          schema:
            $ref: '#/components/schemas/Error'
`

func TestParseBytesOAS30(t *testing.T) {
	p := New()
	result, err := p.ParseBytes([]byte(petstoreYAML))
	if err != nil {
		t.Fatalf("ParseBytes failed: %v", err)
	}

	if result.Version != "3.0.3" {
		t.Errorf("Expected version 3.0.3, got %s", result.Version)
	}
	if result.OASVersion != OASVersion303 {
		t.Errorf("Expected OASVersion303, got %v", result.OASVersion)
	}
	if result.SourceFormat != SourceFormatYAML {
		t.Errorf("Expected yaml source format, got %s", result.SourceFormat)
	}
	if result.SourcePath != "ParseBytes.yaml" {
		t.Errorf("Expected synthetic source path ParseBytes.yaml, got %s", result.SourcePath)
	}
	if result.SourceSize != int64(len(petstoreYAML)) {
		t.Errorf("Expected source size %d, got %d", len(petstoreYAML), result.SourceSize)
	}

	doc := result.Document
	if doc == nil {
		t.Fatal("Document should not be nil")
	}
	if doc.Info == nil || doc.Info.Title != "Petstore API" {
		t.Errorf("Expected title 'Petstore API', got %+v", doc.Info)
	}
	if doc.OASVersion != OASVersion303 {
		t.Errorf("Document OASVersion not stamped: %v", doc.OASVersion)
	}
	if len(doc.Paths) != 2 {
		t.Errorf("Expected 2 paths, got %d", len(doc.Paths))
	}
	if doc.Components == nil || len(doc.Components.Schemas) != 3 {
		t.Fatalf("Expected 3 component schemas, got %+v", doc.Components)
	}

	if len(result.Errors) > 0 {
		t.Errorf("Unexpected validation errors: %v", result.Errors)
	}
	if len(result.Warnings) > 0 {
		t.Errorf("Unexpected warnings: %v", result.Warnings)
	}
}

func TestParseFile(t *testing.T) {
	specPath := filepath.Join(t.TempDir(), "petstore.yaml")
	if err := os.WriteFile(specPath, []byte(petstoreYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	p := New()
	result, err := p.Parse(specPath)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if result.SourcePath != specPath {
		t.Errorf("Expected source path %s, got %s", specPath, result.SourcePath)
	}
	if result.SourceFormat != SourceFormatYAML {
		t.Errorf("Expected yaml source format, got %s", result.SourceFormat)
	}
	if result.SourceSize != int64(len(petstoreYAML)) {
		t.Errorf("Expected source size %d, got %d", len(petstoreYAML), result.SourceSize)
	}
}

func TestParseFileNotFound(t *testing.T) {
	p := New()
	_, err := p.Parse(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestParseReader(t *testing.T) {
	p := New()
	result, err := p.ParseReader(strings.NewReader(petstoreYAML))
	if err != nil {
		t.Fatalf("ParseReader failed: %v", err)
	}

	if result.SourcePath != "ParseReader.yaml" {
		t.Errorf("Expected synthetic source path ParseReader.yaml, got %s", result.SourcePath)
	}
	if result.Version != "3.0.3" {
		t.Errorf("Expected version 3.0.3, got %s", result.Version)
	}
}

func TestParseJSONDocument(t *testing.T) {
	jsonSpec := `{
  "openapi": "3.1.0",
  "info": {"title": "Test API", "version": "1.0.0"},
  "paths": {}
}`

	p := New()
	result, err := p.ParseBytes([]byte(jsonSpec))
	if err != nil {
		t.Fatalf("ParseBytes failed for JSON input: %v", err)
	}

	if result.SourceFormat != SourceFormatJSON {
		t.Errorf("Expected json source format, got %s", result.SourceFormat)
	}
	if result.SourcePath != "ParseBytes.json" {
		t.Errorf("Expected synthetic source path ParseBytes.json, got %s", result.SourcePath)
	}
	if result.OASVersion != OASVersion310 {
		t.Errorf("Expected OASVersion310, got %v", result.OASVersion)
	}
}

// TestParseFormatFromExtension verifies that a file extension wins over
// content sniffing, and that content sniffing fills in when the extension
// is unknown.
func TestParseFormatFromExtension(t *testing.T) {
	yamlSpec := "openapi: 3.0.3\ninfo:\n  title: T\n  version: \"1\"\npaths: {}\n"
	jsonSpec := `{"openapi": "3.0.3", "info": {"title": "T", "version": "1"}, "paths": {}}`
	dir := t.TempDir()

	// YAML content under a .json name: the extension decides.
	conflictPath := filepath.Join(dir, "spec.json")
	if err := os.WriteFile(conflictPath, []byte(yamlSpec), 0o600); err != nil {
		t.Fatal(err)
	}
	unknownPath := filepath.Join(dir, "spec.txt")
	if err := os.WriteFile(unknownPath, []byte(jsonSpec), 0o600); err != nil {
		t.Fatal(err)
	}

	p := New()

	result, err := p.Parse(conflictPath)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if result.SourceFormat != SourceFormatJSON {
		t.Errorf("Expected json from extension, got %s", result.SourceFormat)
	}

	result, err = p.Parse(unknownPath)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if result.SourceFormat != SourceFormatJSON {
		t.Errorf("Expected json from content sniffing, got %s", result.SourceFormat)
	}
}

func TestParseInvalidYAML(t *testing.T) {
	p := New()
	_, err := p.ParseBytes([]byte("invalid: yaml: content: ["))
	if err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestParseSwagger2Rejected(t *testing.T) {
	p := New()
	data := []byte(`
swagger: "2.0"
info:
  title: Legacy API
  version: 1.0.0
paths: {}
`)
	_, err := p.ParseBytes(data)
	if err == nil {
		t.Fatal("Expected error for swagger 2.0 document")
	}
	if !strings.Contains(err.Error(), "not supported") {
		t.Errorf("Error should say 2.0 is unsupported, got: %v", err)
	}
	if !strings.Contains(err.Error(), "convert to OpenAPI 3.x") {
		t.Errorf("Error should point at conversion, got: %v", err)
	}
}

func TestParseMissingVersion(t *testing.T) {
	p := New()
	data := []byte(`
info:
  title: Test API
  version: 1.0.0
paths: {}
`)
	_, err := p.ParseBytes(data)
	if err == nil {
		t.Fatal("Expected error for missing openapi field")
	}
	if !strings.Contains(err.Error(), "unable to detect OpenAPI version") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestParseUnsupportedVersion(t *testing.T) {
	p := New()
	data := []byte(`
openapi: 4.0.0
info:
  title: Test API
  version: 1.0.0
paths: {}
`)
	_, err := p.ParseBytes(data)
	if err == nil {
		t.Fatal("Expected error for unsupported version")
	}
	if !strings.Contains(err.Error(), "unsupported OpenAPI version") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestParseValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		errText string
	}{
		{
			name:    "missing info",
			doc:     "openapi: 3.0.3\npaths: {}\n",
			errText: "missing required root field 'info'",
		},
		{
			name:    "missing info title",
			doc:     "openapi: 3.0.3\ninfo:\n  version: 1.0.0\npaths: {}\n",
			errText: "info.title",
		},
		{
			name:    "missing info version",
			doc:     "openapi: 3.0.3\ninfo:\n  title: T\npaths: {}\n",
			errText: "info.version",
		},
		{
			name:    "missing paths in 3.0",
			doc:     "openapi: 3.0.3\ninfo:\n  title: T\n  version: 1.0.0\n",
			errText: "missing required root field 'paths'",
		},
		{
			name:    "empty 3.1 document",
			doc:     "openapi: 3.1.0\ninfo:\n  title: T\n  version: 1.0.0\n",
			errText: "at least one of 'paths', 'webhooks', or 'components'",
		},
		{
			name: "path without leading slash",
			doc: `openapi: 3.0.3
info:
  title: T
  version: 1.0.0
paths:
  pets:
    get:
      responses:
        '200':
          description: ok
`,
			errText: "path must begin with '/'",
		},
		{
			name: "duplicate operationId",
			doc: `openapi: 3.0.3
info:
  title: T
  version: 1.0.0
paths:
  /a:
    get:
      operationId: sameName
      responses:
        '200':
          description: ok
  /b:
    get:
      operationId: sameName
      responses:
        '200':
          description: ok
`,
			errText: "duplicate operationId 'sameName'",
		},
		{
			name: "missing responses",
			doc: `openapi: 3.0.3
info:
  title: T
  version: 1.0.0
paths:
  /a:
    get:
      operationId: getA
`,
			errText: "Operation must have a responses object",
		},
		{
			name: "parameter without name",
			doc: `openapi: 3.0.3
info:
  title: T
  version: 1.0.0
paths:
  /a:
    get:
      parameters:
        - in: query
      responses:
        '200':
          description: ok
`,
			errText: "Parameter must have a name",
		},
		{
			name: "parameter without location",
			doc: `openapi: 3.0.3
info:
  title: T
  version: 1.0.0
paths:
  /a:
    get:
      parameters:
        - name: q
      responses:
        '200':
          description: ok
`,
			errText: "must specify location",
		},
		{
			name: "parameter with bad location",
			doc: `openapi: 3.0.3
info:
  title: T
  version: 1.0.0
paths:
  /a:
    get:
      parameters:
        - name: q
          in: body
      responses:
        '200':
          description: ok
`,
			errText: "not a valid parameter location",
		},
		{
			name: "optional path parameter",
			doc: `openapi: 3.0.3
info:
  title: T
  version: 1.0.0
paths:
  /a/{id}:
    get:
      parameters:
        - name: id
          in: path
      responses:
        '200':
          description: ok
`,
			errText: "path parameters must set required: true",
		},
	}

	p := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.ParseBytes([]byte(tt.doc))
			if err != nil {
				t.Fatalf("Parse failed outright: %v", err)
			}
			if len(result.Errors) == 0 {
				t.Fatalf("Expected validation errors, got none")
			}
			found := false
			for _, e := range result.Errors {
				if strings.Contains(e.Error(), tt.errText) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("Expected an error containing %q, got: %v", tt.errText, result.Errors)
			}
		})
	}
}

func TestParse31ComponentsOnly(t *testing.T) {
	data := []byte(`
openapi: 3.1.0
info:
  title: Shared Models
  version: 1.0.0
components:
  schemas:
    Pet:
      type: object
`)
	p := New()
	result, err := p.ParseBytes(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Errors) > 0 {
		t.Errorf("A 3.1 document with only components should validate, got: %v", result.Errors)
	}
}

func TestParseWithValidationDisabled(t *testing.T) {
	p := New()
	p.ValidateStructure = false

	data := []byte("openapi: 3.0.3\npaths: {}\n")
	result, err := p.ParseBytes(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Errors) > 0 {
		t.Errorf("Should not collect validation errors when validation is disabled, got: %v", result.Errors)
	}
}

func TestParseWarningsNonStandardStatusCode(t *testing.T) {
	data := []byte(`
openapi: 3.0.3
info:
  title: T
  version: 1.0.0
paths:
  /things:
    get:
      operationId: listThings
      responses:
        '299':
          description: almost ok
        '2XX':
          description: wildcard is fine
        '200':
          description: ok
`)
	p := New()
	result, err := p.ParseBytes(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Errors) > 0 {
		t.Fatalf("299 is a legal code and should not be an error: %v", result.Errors)
	}

	if len(result.Warnings) != 1 {
		t.Fatalf("Expected exactly one warning, got %v", result.Warnings)
	}
	w := result.Warnings[0]
	if !strings.Contains(w, "non-standard status code") || !strings.Contains(w, "299") {
		t.Errorf("Warning should name the non-standard code, got: %s", w)
	}
	if !strings.Contains(w, "paths./things.get.responses.299") {
		t.Errorf("Warning should carry the document path, got: %s", w)
	}
}

func TestParseWarningsInvalidMediaType(t *testing.T) {
	data := []byte(`
openapi: 3.0.3
info:
  title: T
  version: 1.0.0
paths:
  /things:
    post:
      operationId: createThing
      requestBody:
        content:
          /json:
            schema:
              type: object
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                type: object
`)
	p := New()
	result, err := p.ParseBytes(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(result.Warnings) != 1 {
		t.Fatalf("Expected exactly one warning, got %v", result.Warnings)
	}
	w := result.Warnings[0]
	if !strings.Contains(w, "invalid media type") || !strings.Contains(w, "/json") {
		t.Errorf("Warning should name the bad media type, got: %s", w)
	}
	if !strings.Contains(w, "requestBody.content") {
		t.Errorf("Warning should locate the content map, got: %s", w)
	}
}

func TestParseWarningsSkippedWhenValidationDisabled(t *testing.T) {
	data := []byte(`
openapi: 3.0.3
info:
  title: T
  version: 1.0.0
paths:
  /things:
    get:
      responses:
        '299':
          description: almost ok
`)
	p := New()
	p.ValidateStructure = false
	result, err := p.ParseBytes(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Warnings should be suppressed with validation disabled, got: %v", result.Warnings)
	}
}

func TestDetectFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want SourceFormat
	}{
		{"spec.yaml", SourceFormatYAML},
		{"spec.yml", SourceFormatYAML},
		{"SPEC.YAML", SourceFormatYAML},
		{"spec.json", SourceFormatJSON},
		{"spec.txt", SourceFormatUnknown},
		{"spec", SourceFormatUnknown},
		{"", SourceFormatUnknown},
	}

	for _, tt := range tests {
		if got := detectFormatFromPath(tt.path); got != tt.want {
			t.Errorf("detectFormatFromPath(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestDetectFormatFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    SourceFormat
	}{
		{"json object", `{"openapi": "3.0.3"}`, SourceFormatJSON},
		{"json array", `[1, 2]`, SourceFormatJSON},
		{"json with leading whitespace", "\n\t  {\"a\": 1}", SourceFormatJSON},
		{"yaml mapping", "openapi: 3.0.3\n", SourceFormatYAML},
		{"yaml comment", "# a comment\nopenapi: 3.0.3\n", SourceFormatYAML},
		{"empty", "", SourceFormatUnknown},
		{"whitespace only", " \t\r\n", SourceFormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFormatFromContent([]byte(tt.content)); got != tt.want {
				t.Errorf("detectFormatFromContent(%q) = %s, want %s", tt.content, got, tt.want)
			}
		})
	}
}

func TestSyntheticSourcePath(t *testing.T) {
	if got := syntheticSourcePath("ParseBytes", SourceFormatJSON); got != "ParseBytes.json" {
		t.Errorf("Expected ParseBytes.json, got %s", got)
	}
	if got := syntheticSourcePath("ParseReader", SourceFormatYAML); got != "ParseReader.yaml" {
		t.Errorf("Expected ParseReader.yaml, got %s", got)
	}
	if got := syntheticSourcePath("ParseBytes", SourceFormatUnknown); got != "ParseBytes.yaml" {
		t.Errorf("Unknown format should default to yaml, got %s", got)
	}
}

func TestContentTypeJSON(t *testing.T) {
	tests := []struct {
		mediaType string
		want      bool
	}{
		{"application/json", true},
		{"application/problem+json", true},
		{"application/vnd.api+json", true},
		{"application/json; charset=utf-8", true},
		{"text/html", false},
		{"application/xml", false},
		{"application/octet-stream", false},
	}

	for _, tt := range tests {
		if got := ContentTypeJSON(tt.mediaType); got != tt.want {
			t.Errorf("ContentTypeJSON(%q) = %v, want %v", tt.mediaType, got, tt.want)
		}
	}
}
