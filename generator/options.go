package generator

import (
	"unicode"

	"github.com/castrlabs/castr/castrerrors"
	"github.com/castrlabs/castr/parser"
)

// Option configures a Generator instance.
// Options are applied when creating a new Generator with New().
type Option func(*config)

// config holds generator configuration applied via options.
type config struct {
	packageName    string
	logger         parser.Logger
	validationTags bool
	endpoints      bool
	err            error // stored option errors, returned by Generate
}

// defaultConfig returns a new config with default values: package "api",
// no logging, validation tags on, and endpoint table generation on.
func defaultConfig() *config {
	return &config{
		packageName:    "api",
		logger:         parser.NopLogger{},
		validationTags: true,
		endpoints:      true,
	}
}

// WithPackageName sets the Go package name used in generated files.
// The name must be a valid Go identifier. The default is "api".
func WithPackageName(name string) Option {
	return func(cfg *config) {
		if !isGoIdentifier(name) {
			cfg.err = &castrerrors.ConfigError{
				Option:  "packageName",
				Value:   name,
				Message: "must be a valid Go identifier",
			}
			return
		}
		cfg.packageName = name
	}
}

// WithLogger sets the logger used for generation diagnostics.
// The default is no logging. Use parser.SlogAdapter to bridge to *slog.Logger.
func WithLogger(logger parser.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithValidationTags controls whether struct fields carry validate tags
// rendered from their validation chains. Enabled by default.
func WithValidationTags(enabled bool) Option {
	return func(cfg *config) {
		cfg.validationTags = enabled
	}
}

// WithEndpoints controls whether an operations.go endpoint table is
// generated for documents that declare operations. Enabled by default.
func WithEndpoints(enabled bool) Option {
	return func(cfg *config) {
		cfg.endpoints = enabled
	}
}

// isGoIdentifier reports whether s is a non-empty valid Go identifier.
func isGoIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return !goReservedWords[s]
}
