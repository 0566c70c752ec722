package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/castrlabs/castr/generator"
)

// GenerateFlags contains flags for the generate command
type GenerateFlags struct {
	Output       string
	PackageName  string
	NoValidation bool
	NoEndpoints  bool
	NoWarnings   bool
}

// SetupGenerateFlags creates and configures a FlagSet for the generate command.
// Returns the FlagSet and a GenerateFlags struct with bound flag variables.
func SetupGenerateFlags() (*flag.FlagSet, *GenerateFlags) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	flags := &GenerateFlags{}

	fs.StringVar(&flags.Output, "o", "", "output directory for generated files (required)")
	fs.StringVar(&flags.Output, "output", "", "output directory for generated files (required)")
	fs.StringVar(&flags.PackageName, "p", "api", "Go package name for generated code")
	fs.StringVar(&flags.PackageName, "package", "api", "Go package name for generated code")
	fs.BoolVar(&flags.NoValidation, "no-validation", false, "don't include validate struct tags")
	fs.BoolVar(&flags.NoEndpoints, "no-endpoints", false, "don't generate the endpoints metadata file")
	fs.BoolVar(&flags.NoWarnings, "no-warnings", false, "suppress warning and info messages")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: castr generate [flags] <file|->\n\n")
		Writef(output, "Generate Go source from an OpenAPI specification.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  castr generate -o ./api openapi.yaml\n")
		Writef(output, "  castr generate -o ./models -p petstore openapi.yaml\n")
		Writef(output, "  castr generate -o ./api --no-validation --no-endpoints openapi.yaml\n")
		Writef(output, "  cat openapi.yaml | castr generate -o ./api -\n")
	}

	return fs, flags
}

// HandleGenerate executes the generate command
func HandleGenerate(args []string) error {
	fs, flags := SetupGenerateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("generate command requires exactly one file path or '-' for stdin")
	}

	if flags.Output == "" {
		fs.Usage()
		return fmt.Errorf("output directory is required (use -o or --output)")
	}

	doc, _, err := loadDocument(fs.Arg(0))
	if err != nil {
		return err
	}

	opts := []generator.Option{
		generator.WithPackageName(flags.PackageName),
	}
	if flags.NoValidation {
		opts = append(opts, generator.WithValidationTags(false))
	}
	if flags.NoEndpoints {
		opts = append(opts, generator.WithEndpoints(false))
	}

	startTime := time.Now()
	result, err := generator.Generate(doc, opts...)
	if err != nil {
		return fmt.Errorf("generating code: %w", err)
	}

	if err := result.WriteFiles(flags.Output); err != nil {
		return fmt.Errorf("writing generated files: %w", err)
	}

	fmt.Printf("Generated %d file(s) in %s (package %s, %v)\n",
		len(result.Files), flags.Output, result.PackageName, time.Since(startTime).Round(time.Millisecond))
	for _, f := range result.Files {
		fmt.Printf("  %s (%d bytes)\n", f.Name, len(f.Content))
	}

	if !flags.NoWarnings {
		for _, issue := range result.Issues {
			Writef(os.Stderr, "%s\n", issue.String())
		}
	}

	if !result.Success {
		return fmt.Errorf("generation completed with %d critical issue(s)", result.CriticalCount)
	}
	return nil
}
