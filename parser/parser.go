package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/castrlabs/castr/castrerrors"
	"github.com/castrlabs/castr/internal/httputil"
	"github.com/castrlabs/castr/internal/maputil"
)

// Parser handles OpenAPI document parsing.
type Parser struct {
	// ValidateStructure determines whether to perform basic structure validation
	ValidateStructure bool
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default).
	Logger Logger
}

// New creates a new Parser instance with default settings.
func New() *Parser {
	return &Parser{
		ValidateStructure: true,
	}
}

// log returns the configured logger, or a no-op logger if none is set.
func (p *Parser) log() Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return NopLogger{}
}

// SourceFormat represents the format of the source OpenAPI document.
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatUnknown indicates the source format could not be determined
	SourceFormatUnknown SourceFormat = "unknown"
)

// ParseResult contains the parsed OpenAPI document and metadata.
//
// Callers should treat the result as read-only after parsing. The IR builder
// reads from it without copying, so modifying the document between parsing
// and building leads to undefined results.
type ParseResult struct {
	// SourcePath is the document's input source path that it was read from.
	// Note: if the source was not a file path, this will be set to the name
	// of the method and end in '.yaml' or '.json' based on the detected format
	SourcePath string
	// SourceFormat is the format of the source file (JSON or YAML)
	SourceFormat SourceFormat
	// Version is the declared version string (e.g., "3.0.3", "3.1.0")
	Version string
	// OASVersion is the enumerated version of the OpenAPI specification
	OASVersion OASVersion
	// Document is the parsed document structure
	Document *Document
	// Errors contains structure validation errors. A non-empty slice means
	// the document is not suitable for IR construction.
	Errors []error
	// Warnings contains non-fatal issues noticed during parsing
	Warnings []string
	// LoadTime is the time taken to load the source data
	LoadTime time.Duration
	// SourceSize is the size of the source data in bytes
	SourceSize int64
}

// Parse parses an OpenAPI document from a file path.
func (p *Parser) Parse(specPath string) (*ParseResult, error) {
	loadStart := time.Now()
	data, err := os.ReadFile(specPath)
	loadTime := time.Since(loadStart)
	if err != nil {
		return nil, &castrerrors.ParseError{
			Path:    specPath,
			Message: "failed to read file",
			Cause:   err,
		}
	}

	res, err := p.parseBytes(data, specPath)
	if err != nil {
		return nil, err
	}
	res.SourcePath = specPath
	res.LoadTime = loadTime
	res.SourceSize = int64(len(data))

	if format := detectFormatFromPath(specPath); format != SourceFormatUnknown {
		res.SourceFormat = format
	}
	return res, nil
}

// ParseReader parses an OpenAPI document from an io.Reader.
// Note: since there is no actual source path, ParseResult.SourcePath will be
// set to ParseReader.yaml or ParseReader.json.
func (p *Parser) ParseReader(r io.Reader) (*ParseResult, error) {
	loadStart := time.Now()
	data, err := io.ReadAll(r)
	loadTime := time.Since(loadStart)
	if err != nil {
		return nil, &castrerrors.ParseError{
			Path:    "ParseReader",
			Message: "failed to read data",
			Cause:   err,
		}
	}
	res, err := p.parseBytes(data, "ParseReader")
	if err != nil {
		return nil, err
	}
	res.LoadTime = loadTime
	res.SourceSize = int64(len(data))
	res.SourcePath = syntheticSourcePath("ParseReader", res.SourceFormat)
	return res, nil
}

// ParseBytes parses an OpenAPI document from a byte slice.
// Note: since there is no actual source path, ParseResult.SourcePath will be
// set to ParseBytes.yaml or ParseBytes.json.
func (p *Parser) ParseBytes(data []byte) (*ParseResult, error) {
	res, err := p.parseBytes(data, "ParseBytes")
	if err != nil {
		return nil, err
	}
	res.SourceSize = int64(len(data))
	res.SourcePath = syntheticSourcePath("ParseBytes", res.SourceFormat)
	return res, nil
}

// parseBytes is the shared parsing core. The source argument names the input
// in error messages only; callers set ParseResult.SourcePath themselves.
//
// YAML is a superset of JSON, so a single yaml decode handles both formats.
// This also drives the custom unmarshalers that record declaration order for
// paths, component sections, object properties, and response codes.
func (p *Parser) parseBytes(data []byte, source string) (*ParseResult, error) {
	result := &ParseResult{
		Errors:       make([]error, 0),
		Warnings:     make([]string, 0),
		SourceFormat: detectFormatFromContent(data),
	}

	// Probe the version fields before committing to a full decode.
	var probe struct {
		Swagger string `yaml:"swagger"`
		OpenAPI string `yaml:"openapi"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, &castrerrors.ParseError{
			Path:    source,
			Message: "failed to parse YAML/JSON",
			Cause:   err,
		}
	}

	if probe.Swagger != "" {
		return nil, &castrerrors.ParseError{
			Path:    source,
			Message: fmt.Sprintf("OpenAPI 2.0 (swagger: %q) documents are not supported: convert to OpenAPI 3.x first", probe.Swagger),
		}
	}
	if probe.OpenAPI == "" {
		return nil, &castrerrors.ParseError{
			Path:    source,
			Message: "unable to detect OpenAPI version: document must contain 'openapi: \"3.x.x\"' at the root level",
		}
	}
	result.Version = probe.OpenAPI

	oasVersion, ok := ParseVersion(probe.OpenAPI)
	if !ok {
		return nil, &castrerrors.ParseError{
			Path:    source,
			Message: fmt.Sprintf("unsupported OpenAPI version: %s (supported: 3.0.x and 3.1.x)", probe.OpenAPI),
		}
	}
	result.OASVersion = oasVersion

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &castrerrors.ParseError{
			Path:    source,
			Message: fmt.Sprintf("failed to parse OAS %s document structure", probe.OpenAPI),
			Cause:   err,
		}
	}
	doc.OASVersion = oasVersion
	result.Document = &doc

	p.log().Debug("parsed document",
		"source", source,
		"version", probe.OpenAPI,
		"paths", len(doc.Paths))

	if p.ValidateStructure {
		result.Errors = append(result.Errors, p.validateDocument(&doc)...)
		result.Warnings = append(result.Warnings, p.collectWarnings(&doc)...)
	}

	return result, nil
}

// validateDocument performs basic structure validation on a parsed document.
func (p *Parser) validateDocument(doc *Document) []error {
	errors := make([]error, 0)
	version := doc.OpenAPI

	errors = append(errors, p.validateInfo(doc.Info, version)...)

	// Paths is required in 3.0.x. In 3.1+ a document may instead carry only
	// webhooks or components.
	if !doc.OASVersion.Is31() && doc.Paths == nil {
		errors = append(errors, fmt.Errorf("oas %s: missing required root field 'paths': Paths object is required in OAS 3.0.x", version))
	}
	if doc.OASVersion.Is31() && doc.Paths == nil && doc.Webhooks == nil && doc.Components == nil {
		errors = append(errors, fmt.Errorf("oas %s: document must contain at least one of 'paths', 'webhooks', or 'components'", version))
	}

	if doc.Paths != nil {
		errors = append(errors, p.validatePaths(doc.Paths, version)...)
	}

	return errors
}

func (p *Parser) validateInfo(info *Info, version string) []error {
	errors := make([]error, 0)
	if info == nil {
		errors = append(errors, fmt.Errorf("oas %s: missing required root field 'info': Info object is required", version))
		return errors
	}
	if info.Title == "" {
		errors = append(errors, fmt.Errorf("oas %s: missing required field 'info.title': Info object must have a title", version))
	}
	if info.Version == "" {
		errors = append(errors, fmt.Errorf("oas %s: missing required field 'info.version': Info object must have a version string", version))
	}
	return errors
}

func (p *Parser) validatePaths(paths Paths, version string) []error {
	errors := make([]error, 0)
	operationIDs := make(map[string]string)

	for pathPattern, pathItem := range paths {
		if pathItem == nil {
			continue
		}

		if pathPattern != "" && pathPattern[0] != '/' {
			errors = append(errors, fmt.Errorf("oas %s: invalid path pattern 'paths.%s': path must begin with '/'", version, pathPattern))
		}

		for _, mo := range pathItem.Operations() {
			errors = append(errors, p.validateOperation(mo.Operation, version, fmt.Sprintf("paths.%s.%s", pathPattern, mo.Method), operationIDs)...)
		}
	}

	return errors
}

func (p *Parser) validateOperation(op *Operation, version, opPath string, operationIDs map[string]string) []error {
	errors := make([]error, 0)

	if op.OperationID != "" {
		if existingPath, exists := operationIDs[op.OperationID]; exists {
			errors = append(errors, fmt.Errorf("oas %s: duplicate operationId '%s' at '%s': previously defined at '%s'",
				version, op.OperationID, opPath, existingPath))
		} else {
			operationIDs[op.OperationID] = opPath
		}
	}

	if op.Responses == nil {
		errors = append(errors, fmt.Errorf("oas %s: missing required field '%s.responses': Operation must have a responses object", version, opPath))
	}

	for i, param := range op.Parameters {
		if param == nil || param.Ref != "" {
			continue
		}
		paramPath := fmt.Sprintf("%s.parameters[%d]", opPath, i)
		if param.Name == "" {
			errors = append(errors, fmt.Errorf("oas %s: missing required field '%s.name': Parameter must have a name", version, paramPath))
		}
		switch param.In {
		case "":
			errors = append(errors, fmt.Errorf("oas %s: missing required field '%s.in': Parameter must specify location (query, header, path, cookie)", version, paramPath))
		case ParamInQuery, ParamInHeader, ParamInPath, ParamInCookie:
		default:
			errors = append(errors, fmt.Errorf("oas %s: invalid value for '%s.in': \"%s\" is not a valid parameter location (must be query, header, path, or cookie)", version, paramPath, param.In))
		}
		if param.In == ParamInPath && !param.Required {
			errors = append(errors, fmt.Errorf("oas %s: invalid field '%s.required': path parameters must set required: true", version, paramPath))
		}
	}

	return errors
}

// collectWarnings reports conditions that pass structure validation but
// usually indicate a mistake. Numeric status codes outside the HTTP RFCs and
// unparseable content map keys both decode fine, and IR construction silently
// skips content it cannot use, so this is the only place they surface.
func (p *Parser) collectWarnings(doc *Document) []string {
	warnings := make([]string, 0)
	version := doc.OpenAPI

	for _, pathPattern := range doc.PathOrder {
		pathItem := doc.Paths[pathPattern]
		if pathItem == nil {
			continue
		}
		for _, mo := range pathItem.Operations() {
			opPath := fmt.Sprintf("paths.%s.%s", pathPattern, mo.Method)
			warnings = append(warnings, p.operationWarnings(mo.Operation, version, opPath)...)
		}
	}

	return warnings
}

func (p *Parser) operationWarnings(op *Operation, version, opPath string) []string {
	warnings := make([]string, 0)

	if op.RequestBody != nil && op.RequestBody.Ref == "" {
		warnings = append(warnings, p.contentWarnings(op.RequestBody.Content, version, opPath+".requestBody")...)
	}

	if op.Responses == nil {
		return warnings
	}
	for _, code := range op.Responses.CodeOrder {
		if httputil.IsNumericStatusCode(code) && !httputil.IsStandardStatusCode(code) {
			warnings = append(warnings, fmt.Sprintf("oas %s: non-standard status code '%s.responses.%s': %s is not defined by the HTTP RFCs",
				version, opPath, code, code))
		}
		resp := op.Responses.Codes[code]
		if code == "default" {
			resp = op.Responses.Default
		}
		if resp == nil || resp.Ref != "" {
			continue
		}
		warnings = append(warnings, p.contentWarnings(resp.Content, version, fmt.Sprintf("%s.responses.%s", opPath, code))...)
	}

	return warnings
}

func (p *Parser) contentWarnings(content map[string]*MediaType, version, parentPath string) []string {
	warnings := make([]string, 0)
	for _, mediaType := range maputil.SortedKeys(content) {
		if !httputil.IsValidMediaType(mediaType) {
			warnings = append(warnings, fmt.Sprintf("oas %s: invalid media type '%s.content.%s': %q cannot be parsed as type/subtype",
				version, parentPath, mediaType, mediaType))
		}
	}
	return warnings
}

// detectFormatFromPath detects the source format from a file extension.
func detectFormatFromPath(path string) SourceFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return SourceFormatYAML
	case ".json":
		return SourceFormatJSON
	default:
		return SourceFormatUnknown
	}
}

// detectFormatFromContent detects the source format by inspecting the first
// non-whitespace byte. JSON documents open with '{' (or '[', which is not a
// valid OpenAPI root but still JSON); everything else is treated as YAML.
func detectFormatFromContent(data []byte) SourceFormat {
	trimmed := strings.TrimLeftFunc(string(data), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\r' || r == '\n'
	})
	if trimmed == "" {
		return SourceFormatUnknown
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return SourceFormatJSON
	}
	return SourceFormatYAML
}

// syntheticSourcePath names a non-file input source by the method that read
// it, with an extension matching the detected format.
func syntheticSourcePath(method string, format SourceFormat) string {
	if format == SourceFormatJSON {
		return method + ".json"
	}
	return method + ".yaml"
}

// ContentTypeJSON reports whether a media type key denotes a JSON payload,
// such as "application/json" or "application/problem+json".
func ContentTypeJSON(mediaType string) bool {
	return httputil.IsJSONMediaType(mediaType)
}
