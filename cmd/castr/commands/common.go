// Package commands provides CLI command handlers for castr.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/castrlabs/castr/builder"
	"github.com/castrlabs/castr/internal/fileutil"
	"github.com/castrlabs/castr/ir"
	"github.com/castrlabs/castr/parser"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatDOT  = "dot"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured writes data in the specified format (json or yaml) to w.
// Returns an error if marshaling fails.
func OutputStructured(w io.Writer, data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	_, _ = fmt.Fprintln(w, string(bytes))
	return nil
}

// loadDocument runs the parse and build pipeline for a file path or '-'
// (stdin) and returns the IR document along with the parse result.
func loadDocument(specPath string) (*ir.Document, *parser.ParseResult, error) {
	var opts []parser.Option
	if specPath == StdinFilePath {
		opts = append(opts, parser.WithReader(os.Stdin), parser.WithSourceName("stdin"))
	} else {
		opts = append(opts, parser.WithFilePath(specPath))
	}

	parsed, err := parser.ParseWithOptions(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", specPath, err)
	}
	doc, err := builder.BuildIR(parsed)
	if err != nil {
		return nil, nil, fmt.Errorf("building IR from %s: %w", specPath, err)
	}
	return doc, parsed, nil
}

// writeOutput writes data to the given path, or to stdout when path is empty.
// Files are written owner-only since serialized IR carries the source
// document's API surface.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, _ = os.Stdout.Write(data)
		if len(data) > 0 && data[len(data)-1] != '\n' {
			fmt.Println()
		}
		return nil
	}
	if err := os.WriteFile(path, data, fileutil.OwnerReadWrite); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
