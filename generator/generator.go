package generator

import (
	"time"

	"github.com/castrlabs/castr/castrerrors"
	"github.com/castrlabs/castr/internal/issues"
	"github.com/castrlabs/castr/internal/severity"
	"github.com/castrlabs/castr/ir"
)

// Severity indicates the severity level of a generation issue.
type Severity = severity.Severity

const (
	// SeverityInfo indicates informational messages about generation choices
	SeverityInfo = severity.SeverityInfo
	// SeverityWarning indicates constructs that do not map cleanly to Go
	SeverityWarning = severity.SeverityWarning
	// SeverityError indicates invalid input that was skipped
	SeverityError = severity.SeverityError
	// SeverityCritical indicates constructs that cannot be generated
	SeverityCritical = severity.SeverityCritical
)

// GenerateIssue represents a single generation issue or limitation.
type GenerateIssue = issues.Issue

// GeneratedFile represents a single generated file.
type GeneratedFile struct {
	// Name is the file name (e.g., "types.go", "operations.go")
	Name string
	// Content is the generated Go source code
	Content []byte
}

// GenerateResult contains the results of rendering an IR document.
type GenerateResult struct {
	// Files contains all generated files
	Files []GeneratedFile
	// PackageName is the Go package name used in generation
	PackageName string
	// Issues contains all generation issues
	Issues []GenerateIssue
	// InfoCount is the total number of info messages
	InfoCount int
	// WarningCount is the total number of warnings
	WarningCount int
	// CriticalCount is the total number of critical issues
	CriticalCount int
	// Success is true if generation completed without critical issues
	Success bool
	// GeneratedTypes is the count of type declarations generated
	GeneratedTypes int
	// GeneratedEnums is the count of enum declarations generated
	GeneratedEnums int
	// GeneratedOperations is the count of endpoint entries generated
	GeneratedOperations int
	// GenerateTime is the time taken to render and format output
	GenerateTime time.Duration
}

// HasCriticalIssues returns true if there are any critical issues.
func (r *GenerateResult) HasCriticalIssues() bool {
	return r.CriticalCount > 0
}

// HasWarnings returns true if there are any warnings.
func (r *GenerateResult) HasWarnings() bool {
	return r.WarningCount > 0
}

// GetFile returns the generated file with the given name, or nil if not found.
func (r *GenerateResult) GetFile(name string) *GeneratedFile {
	for i := range r.Files {
		if r.Files[i].Name == name {
			return &r.Files[i]
		}
	}
	return nil
}

// Generator renders IR documents into Go source files. The zero value is not
// usable; construct with New.
type Generator struct {
	cfg *config
}

// New creates a Generator with the given options applied. Option errors are
// deferred and returned by Generate.
func New(opts ...Option) *Generator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Generator{cfg: cfg}
}

// Generate renders doc into Go source using a Generator configured with opts.
func Generate(doc *ir.Document, opts ...Option) (*GenerateResult, error) {
	return New(opts...).Generate(doc)
}

// Generate renders doc into Go source files: a types.go with one declaration
// per schema component in dependency order, and an operations.go endpoint
// table when the document has operations. The same document always produces
// byte-identical output.
func (g *Generator) Generate(doc *ir.Document) (*GenerateResult, error) {
	if g.cfg.err != nil {
		return nil, g.cfg.err
	}
	if doc == nil {
		return nil, &castrerrors.ConfigError{
			Option:  "document",
			Message: "nil IR document",
		}
	}

	start := time.Now()
	result := &GenerateResult{
		PackageName: g.cfg.packageName,
	}
	gen := newGenContext(g.cfg, doc, result)

	typesData := gen.buildTypesFileData()
	content, err := executeTemplate("types.go.tmpl", typesData)
	if err != nil {
		return nil, err
	}
	result.Files = append(result.Files, GeneratedFile{Name: "types.go", Content: content})

	if g.cfg.endpoints && len(doc.Operations) > 0 {
		opsData := gen.buildOperationsFileData()
		content, err := executeTemplate("operations.go.tmpl", opsData)
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, GeneratedFile{Name: "operations.go", Content: content})
	}

	updateCounts(result)
	result.Success = result.CriticalCount == 0
	result.GenerateTime = time.Since(start)
	g.cfg.logger.Debug("generation complete",
		"files", len(result.Files),
		"types", result.GeneratedTypes,
		"operations", result.GeneratedOperations)
	return result, nil
}

// updateCounts tallies issues by severity.
func updateCounts(result *GenerateResult) {
	for _, issue := range result.Issues {
		switch issue.Severity {
		case SeverityInfo:
			result.InfoCount++
		case SeverityWarning:
			result.WarningCount++
		case SeverityCritical:
			result.CriticalCount++
		}
	}
}
