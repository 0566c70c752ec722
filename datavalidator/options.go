package datavalidator

import (
	"github.com/castrlabs/castr/castrerrors"
	"github.com/castrlabs/castr/ir"
)

// Option configures a Validator created with New.
type Option func(*config)

// config holds validator configuration applied via options.
type config struct {
	doc          *ir.Document
	redactValues bool
	err          error // stored option errors, returned by New
}

// defaultConfig returns a new config with default values: no document and
// unredacted finding messages.
func defaultConfig() *config {
	return &config{}
}

// WithDocument supplies the IR document used to resolve reference nodes to
// their component schemas. Without a document every reference node produces
// a warning finding and its target goes unchecked.
func WithDocument(doc *ir.Document) Option {
	return func(cfg *config) {
		if doc == nil {
			cfg.err = &castrerrors.ConfigError{
				Option:  "document",
				Message: "document cannot be nil",
			}
			return
		}
		cfg.doc = doc
	}
}

// WithRedactValues controls whether finding messages include the offending
// values. Enable when validating payloads that may carry sensitive data.
// The default is false.
func WithRedactValues(redact bool) Option {
	return func(cfg *config) {
		cfg.redactValues = redact
	}
}
