package parser

import (
	"fmt"
	"io"

	"github.com/castrlabs/castr/internal/options"
)

// Option is a function that configures a parse operation
type Option func(*parseConfig) error

// parseConfig holds configuration for a parse operation
type parseConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	reader   io.Reader
	bytes    []byte

	// Configuration options
	validateStructure bool
	logger            Logger

	// Source identification
	sourceName *string // Override SourcePath in the result
}

// ParseWithOptions parses an OpenAPI document using functional options.
// This combines input source selection and configuration in a single call.
//
// Example:
//
//	result, err := parser.ParseWithOptions(
//	    parser.WithFilePath("openapi.yaml"),
//	)
func ParseWithOptions(opts ...Option) (*ParseResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("parser: invalid options: %w", err)
	}

	p := &Parser{
		ValidateStructure: cfg.validateStructure,
		Logger:            cfg.logger,
	}

	// Route to appropriate parsing method based on input source
	var result *ParseResult
	var parseErr error
	switch {
	case cfg.filePath != nil:
		result, parseErr = p.Parse(*cfg.filePath)
	case cfg.reader != nil:
		result, parseErr = p.ParseReader(cfg.reader)
	case cfg.bytes != nil:
		result, parseErr = p.ParseBytes(cfg.bytes)
	default:
		// Should never reach here due to validation in applyOptions
		return nil, fmt.Errorf("parser: no input source specified")
	}

	if parseErr != nil {
		return result, parseErr
	}

	// Apply source name override if specified
	if result != nil && cfg.sourceName != nil {
		result.SourcePath = *cfg.sourceName
	}

	return result, nil
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*parseConfig, error) {
	cfg := &parseConfig{
		validateStructure: true,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	// Validate exactly one input source is specified
	if err := options.ValidateSingleInputSource(
		"parser: must specify an input source (use WithFilePath, WithReader, or WithBytes)",
		"parser: must specify exactly one input source",
		cfg.filePath != nil, cfg.reader != nil, cfg.bytes != nil,
	); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithFilePath specifies a file path as the input source
func WithFilePath(path string) Option {
	return func(cfg *parseConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithReader specifies an io.Reader as the input source
func WithReader(r io.Reader) Option {
	return func(cfg *parseConfig) error {
		if r == nil {
			return fmt.Errorf("parser: reader cannot be nil")
		}
		cfg.reader = r
		return nil
	}
}

// WithBytes specifies a byte slice as the input source
func WithBytes(data []byte) Option {
	return func(cfg *parseConfig) error {
		if data == nil {
			return fmt.Errorf("parser: bytes cannot be nil")
		}
		cfg.bytes = data
		return nil
	}
}

// WithValidateStructure enables or disables basic structure validation
// Default: true
func WithValidateStructure(enabled bool) Option {
	return func(cfg *parseConfig) error {
		cfg.validateStructure = enabled
		return nil
	}
}

// WithLogger sets a structured logger for debug output during parsing.
// By default, no logging is performed (nil logger).
//
// Use NewSlogAdapter to wrap a *slog.Logger.
//
// Example:
//
//	logger := parser.NewSlogAdapter(slog.Default())
//	result, err := parser.ParseWithOptions(
//	    parser.WithFilePath("api.yaml"),
//	    parser.WithLogger(logger),
//	)
func WithLogger(l Logger) Option {
	return func(cfg *parseConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithSourceName specifies a meaningful name for the source document.
// This is particularly useful when parsing from bytes or reader, where
// the default names ("ParseBytes.yaml", "ParseReader.yaml") are not
// descriptive. The name is used in error messages and diagnostic output.
//
// Example:
//
//	result, err := parser.ParseWithOptions(
//	    parser.WithBytes(data),
//	    parser.WithSourceName("users-api"),
//	)
func WithSourceName(name string) Option {
	return func(cfg *parseConfig) error {
		if name == "" {
			return fmt.Errorf("parser: source name cannot be empty")
		}
		cfg.sourceName = &name
		return nil
	}
}
