package builder

import (
	"github.com/castrlabs/castr/castrerrors"
	"github.com/castrlabs/castr/parser"
)

// Option configures a Builder instance.
// Options are applied when creating a new Builder with New().
type Option func(*config)

// config holds builder configuration applied via options.
type config struct {
	logger      parser.Logger
	maxRefDepth int
	err         error // stored option errors, returned by BuildIR
}

// defaultConfig returns a new config with default values: no logging and
// the parser's reference depth limit.
func defaultConfig() *config {
	return &config{
		logger:      parser.NopLogger{},
		maxRefDepth: parser.MaxRefDepth,
	}
}

// WithLogger sets the logger used for build diagnostics. The builder logs
// at debug level while constructing nodes and at warn level for recoverable
// oddities (unauthoritative $ref siblings, unencodable default values).
// The default is no logging. Use parser.SlogAdapter to bridge to *slog.Logger.
func WithLogger(logger parser.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithMaxRefDepth overrides the maximum reference resolution depth used
// when chasing $ref chains through components. The default matches
// parser.MaxRefDepth. Values below 1 are rejected when BuildIR runs.
func WithMaxRefDepth(depth int) Option {
	return func(cfg *config) {
		if depth < 1 {
			cfg.err = &castrerrors.ConfigError{
				Option:  "maxRefDepth",
				Value:   depth,
				Message: "must be at least 1",
			}
			return
		}
		cfg.maxRefDepth = depth
	}
}
