// Package castrerrors provides structured error types for castr.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - ParseError: YAML/JSON parsing failures and structural issues
//   - UnresolvedReferenceError: a $ref not present in the component table
//   - MalformedRefError: a $ref string matching no accepted format
//   - UnsupportedSchemaTypeError: a schema matching no builder dispatch case
//   - InvalidCompositionError: malformed allOf/oneOf/anyOf input
//   - EmptyEnumError: an enum conversion with no values
//   - CircularReferenceError: runaway ref-chain resolution
//   - GenerateError: source rendering failures
//   - ValidationError: IR document or value validation failures
//   - ConfigError: invalid configuration or input options
//
// # Usage with errors.Is
//
//	doc, err := builder.BuildIR(parsed)
//	if err != nil {
//	    var refErr *castrerrors.UnresolvedReferenceError
//	    if errors.As(err, &refErr) {
//	        // refErr.Ref names the missing component,
//	        // refErr.Location the place in the document that used it
//	    }
//	}
package castrerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrUnresolvedReference indicates a $ref could not be resolved.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrMalformedRef indicates a $ref string matched no accepted format.
	ErrMalformedRef = errors.New("malformed reference")

	// ErrUnsupportedSchemaType indicates a schema matched no builder dispatch case.
	ErrUnsupportedSchemaType = errors.New("unsupported schema type")

	// ErrInvalidComposition indicates an empty or malformed allOf/oneOf/anyOf.
	ErrInvalidComposition = errors.New("invalid composition")

	// ErrEmptyEnum indicates an enum conversion with no values.
	ErrEmptyEnum = errors.New("empty enum")

	// ErrCircularReference indicates a circular $ref chain was detected
	// during resolution.
	ErrCircularReference = errors.New("circular reference")

	// ErrGenerate indicates a source rendering failure.
	ErrGenerate = errors.New("generate error")

	// ErrValidation indicates an IR document or value validation failure.
	ErrValidation = errors.New("validation error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// ParseError represents a failure to parse an OpenAPI document.
// This includes YAML/JSON deserialization errors and structural issues.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// UnresolvedReferenceError represents a $ref (schema, parameter, response,
// or request body) that is not present in the component table. The build
// fails outright on the first unresolved reference; there is no partial IR.
type UnresolvedReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// Location is the document path that used the reference
	// (e.g., "paths./pets.post.requestBody")
	Location string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *UnresolvedReferenceError) Error() string {
	msg := "unresolved reference"
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Location != "" {
		msg += " (at " + e.Location + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *UnresolvedReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *UnresolvedReferenceError) Is(target error) bool {
	return target == ErrUnresolvedReference
}

// MalformedRefError represents a $ref string that matches no accepted
// reference format.
type MalformedRefError struct {
	// Ref is the raw reference string
	Ref string
	// Message provides additional context about what is malformed
	Message string
}

// Error returns a human-readable error message naming the raw string and
// the canonical accepted formats.
func (e *MalformedRefError) Error() string {
	msg := fmt.Sprintf("malformed reference %q", e.Ref)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	msg += ` (expected "#/components/{type}/{name}" or "#/x-ext/{hash}/components/{type}/{name}")`
	return msg
}

// Unwrap returns nil as MalformedRefError has no underlying cause.
func (e *MalformedRefError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *MalformedRefError) Is(target error) bool {
	return target == ErrMalformedRef
}

// UnsupportedSchemaTypeError represents a schema that matched none of the
// builder's dispatch cases.
type UnsupportedSchemaTypeError struct {
	// Type is the offending type value as it appeared in the document
	Type any
	// Location is the document path of the schema
	Location string
}

// Error returns a human-readable error message.
func (e *UnsupportedSchemaTypeError) Error() string {
	msg := fmt.Sprintf("unsupported schema type %v", e.Type)
	if e.Location != "" {
		msg += " (at " + e.Location + ")"
	}
	return msg
}

// Unwrap returns nil as UnsupportedSchemaTypeError has no underlying cause.
func (e *UnsupportedSchemaTypeError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *UnsupportedSchemaTypeError) Is(target error) bool {
	return target == ErrUnsupportedSchemaType
}

// InvalidCompositionError represents an empty or otherwise malformed
// allOf/oneOf/anyOf array.
type InvalidCompositionError struct {
	// Kind is the composition keyword: "allOf", "oneOf", or "anyOf"
	Kind string
	// Location is the document path of the composition
	Location string
	// Message describes what is invalid
	Message string
}

// Error returns a human-readable error message.
func (e *InvalidCompositionError) Error() string {
	msg := "invalid composition"
	if e.Kind != "" {
		msg += ": " + e.Kind
	}
	if e.Location != "" {
		msg += " (at " + e.Location + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as InvalidCompositionError has no underlying cause.
func (e *InvalidCompositionError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *InvalidCompositionError) Is(target error) bool {
	return target == ErrInvalidComposition
}

// EmptyEnumError represents an enum-literal conversion with no enum values.
type EmptyEnumError struct {
	// Location is the document path of the schema
	Location string
}

// Error returns a human-readable error message.
func (e *EmptyEnumError) Error() string {
	msg := "empty enum"
	if e.Location != "" {
		msg += " (at " + e.Location + ")"
	}
	return msg
}

// Unwrap returns nil as EmptyEnumError has no underlying cause.
func (e *EmptyEnumError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *EmptyEnumError) Is(target error) bool {
	return target == ErrEmptyEnum
}

// CircularReferenceError represents a $ref chain that loops back on itself
// during resolution. Circular schemas are legal in the IR (they are recorded
// in metadata); this error only fires when the resolver is asked to follow
// a chain that never terminates.
type CircularReferenceError struct {
	// Ref is the reference where the cycle was detected
	Ref string
	// Chain is the sequence of refs followed before the cycle closed
	Chain []string
}

// Error returns a human-readable error message.
func (e *CircularReferenceError) Error() string {
	msg := "circular reference"
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if len(e.Chain) > 0 {
		msg += fmt.Sprintf(" (chain: %v)", e.Chain)
	}
	return msg
}

// Unwrap returns nil as CircularReferenceError has no underlying cause.
func (e *CircularReferenceError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *CircularReferenceError) Is(target error) bool {
	return target == ErrCircularReference
}

// GenerateError represents a failure while rendering IR into source text.
type GenerateError struct {
	// Template is the template name that failed, if any
	Template string
	// Message describes the rendering failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *GenerateError) Error() string {
	msg := "generate error"
	if e.Template != "" {
		msg += " in " + e.Template
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *GenerateError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *GenerateError) Is(target error) bool {
	return target == ErrGenerate
}

// ValidationError represents an IR document or data value that failed
// validation.
type ValidationError struct {
	// Path is the JSON path to the problematic field (e.g., "$.properties.id")
	Path string
	// Field is the specific field name with the issue
	Field string
	// Value is the problematic value (may be nil)
	Value any
	// Message describes the validation failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ValidationError) Error() string {
	msg := "validation error"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Field != "" {
		msg += "." + e.Field
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
