package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/castrlabs/castr/datavalidator"
)

// ValidateDataFlags contains flags for the validate-data command
type ValidateDataFlags struct {
	Schema string
	Data   string
	Format string
	Quiet  bool
}

// SetupValidateDataFlags creates and configures a FlagSet for the validate-data command.
// Returns the FlagSet and a ValidateDataFlags struct with bound flag variables.
func SetupValidateDataFlags() (*flag.FlagSet, *ValidateDataFlags) {
	fs := flag.NewFlagSet("validate-data", flag.ContinueOnError)
	flags := &ValidateDataFlags{}

	fs.StringVar(&flags.Schema, "s", "", "schema component name to validate against (required)")
	fs.StringVar(&flags.Schema, "schema", "", "schema component name to validate against (required)")
	fs.StringVar(&flags.Data, "d", "", "data file to validate, JSON or YAML, or '-' for stdin (required)")
	fs.StringVar(&flags.Data, "data", "", "data file to validate, JSON or YAML, or '-' for stdin (required)")
	fs.StringVar(&flags.Format, "f", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.BoolVar(&flags.Quiet, "q", false, "omit table headers (tab-separated rows for piping)")
	fs.BoolVar(&flags.Quiet, "quiet", false, "omit table headers (tab-separated rows for piping)")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: castr validate-data [flags] <file|->\n\n")
		Writef(output, "Validate a data payload against a named schema component.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  castr validate-data --schema Pet --data pet.json openapi.yaml\n")
		Writef(output, "  castr validate-data -s Order -d order.yaml -f json openapi.yaml\n")
		Writef(output, "  cat pet.json | castr validate-data -s Pet -d - openapi.yaml\n")
	}

	return fs, flags
}

// HandleValidateData executes the validate-data command
func HandleValidateData(args []string) error {
	fs, flags := SetupValidateDataFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("validate-data command requires exactly one file path or '-' for stdin")
	}
	if flags.Schema == "" {
		fs.Usage()
		return fmt.Errorf("schema component name is required (use -s or --schema)")
	}
	if flags.Data == "" {
		fs.Usage()
		return fmt.Errorf("data file is required (use -d or --data)")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	doc, _, err := loadDocument(fs.Arg(0))
	if err != nil {
		return err
	}

	comp := doc.SchemaComponent(flags.Schema)
	if comp == nil {
		return fmt.Errorf("schema component %q not found in %s", flags.Schema, fs.Arg(0))
	}

	var raw []byte
	if flags.Data == StdinFilePath {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(flags.Data)
	}
	if err != nil {
		return fmt.Errorf("reading data: %w", err)
	}

	// YAML is a JSON superset, so one decoder covers both payload formats.
	var value any
	if err := yaml.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("decoding data: %w", err)
	}

	v, err := datavalidator.New(datavalidator.WithDocument(doc))
	if err != nil {
		return err
	}
	findings := v.Validate(value, comp.Schema)

	var errorCount, warningCount int
	for _, f := range findings {
		switch f.Severity {
		case datavalidator.SeverityError, datavalidator.SeverityCritical:
			errorCount++
		case datavalidator.SeverityWarning:
			warningCount++
		}
	}

	if flags.Format != FormatText {
		type findingOut struct {
			Path     string `json:"path" yaml:"path"`
			Severity string `json:"severity" yaml:"severity"`
			Message  string `json:"message" yaml:"message"`
		}
		out := struct {
			Schema   string       `json:"schema" yaml:"schema"`
			Valid    bool         `json:"valid" yaml:"valid"`
			Errors   int          `json:"errors" yaml:"errors"`
			Warnings int          `json:"warnings" yaml:"warnings"`
			Findings []findingOut `json:"findings,omitempty" yaml:"findings,omitempty"`
		}{
			Schema:   flags.Schema,
			Valid:    errorCount == 0,
			Errors:   errorCount,
			Warnings: warningCount,
		}
		for _, f := range findings {
			out.Findings = append(out.Findings, findingOut{
				Path:     f.Path,
				Severity: f.Severity.String(),
				Message:  f.Message,
			})
		}
		if err := OutputStructured(os.Stdout, out, flags.Format); err != nil {
			return err
		}
	} else {
		rows := make([][]string, 0, len(findings))
		for _, f := range findings {
			rows = append(rows, []string{f.Path, f.Severity.String(), f.Message})
		}
		RenderSummaryTable(os.Stdout, []string{"PATH", "SEVERITY", "MESSAGE"}, rows, flags.Quiet)

		if errorCount == 0 {
			Writef(os.Stderr, "✓ Data is valid against %s\n", flags.Schema)
		} else {
			Writef(os.Stderr, "✗ Validation failed: %d error(s), %d warning(s)\n", errorCount, warningCount)
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("data does not validate against %s", flags.Schema)
	}
	return nil
}
