package commands

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/castrlabs/castr"
	"github.com/castrlabs/castr/ir"
	"github.com/castrlabs/castr/walker"
)

// BuildFlags contains flags for the build command
type BuildFlags struct {
	Output string
	Format string
	Quiet  bool
}

// SetupBuildFlags creates and configures a FlagSet for the build command.
// Returns the FlagSet and a BuildFlags struct with bound flag variables.
func SetupBuildFlags() (*flag.FlagSet, *BuildFlags) {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	flags := &BuildFlags{}

	fs.StringVar(&flags.Output, "o", "", "output file for the serialized IR (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file for the serialized IR (default: stdout)")
	fs.StringVar(&flags.Format, "f", "", "output format: text, json, or yaml (default: text, or inferred from -o)")
	fs.StringVar(&flags.Format, "format", "", "output format: text, json, or yaml (default: text, or inferred from -o)")
	fs.BoolVar(&flags.Quiet, "q", false, "suppress the summary header")
	fs.BoolVar(&flags.Quiet, "quiet", false, "suppress the summary header")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: castr build [flags] <file|->\n\n")
		Writef(output, "Parse an OpenAPI document and build its intermediate representation.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  castr build openapi.yaml\n")
		Writef(output, "  castr build -o api.ir.json openapi.yaml\n")
		Writef(output, "  castr build -f yaml openapi.yaml\n")
		Writef(output, "  cat openapi.yaml | castr build -\n")
	}

	return fs, flags
}

// HandleBuild executes the build command
func HandleBuild(args []string) error {
	fs, flags := SetupBuildFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("build command requires exactly one file path or '-' for stdin")
	}

	format := flags.Format
	if format == "" {
		format = FormatText
		if flags.Output != "" {
			format = FormatJSON
			if ext := strings.ToLower(filepath.Ext(flags.Output)); ext == ".yaml" || ext == ".yml" {
				format = FormatYAML
			}
		}
	}
	if err := ValidateOutputFormat(format); err != nil {
		return err
	}
	if format == FormatText && flags.Output != "" {
		return fmt.Errorf("text format cannot be written to a file; use -f json or -f yaml")
	}

	specPath := fs.Arg(0)
	doc, parsed, err := loadDocument(specPath)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		data, err := ir.Serialize(doc)
		if err != nil {
			return err
		}
		return writeOutput(flags.Output, data)
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshaling IR to yaml: %w", err)
		}
		return writeOutput(flags.Output, data)
	}

	// Text summary.
	if !flags.Quiet {
		fmt.Printf("castr IR Builder\n")
		fmt.Printf("================\n\n")
		fmt.Printf("castr version: %s\n", castr.Version())
	}
	fmt.Printf("Source: %s\n", specPath)
	fmt.Printf("OpenAPI Version: %s\n", doc.OpenAPIVersion)
	fmt.Printf("Source Size: %d bytes\n", parsed.SourceSize)
	fmt.Printf("Load Time: %v\n\n", parsed.LoadTime)

	fmt.Printf("Components: %d\n", len(doc.Components))
	for _, group := range componentKinds(doc) {
		fmt.Printf("  %s: %d\n", group.kind, group.count)
	}
	fmt.Printf("Operations: %d\n", len(doc.Operations))
	fmt.Printf("Enums: %d\n", len(doc.Enums))
	if census, err := walker.CollectSchemas(doc); err == nil {
		fmt.Printf("Schema Nodes: %d (%d embedded in operations)\n", len(census.All), len(census.Inline))
	}
	if g := doc.DependencyGraph; g != nil && len(g.CircularReferences) > 0 {
		fmt.Printf("Circular references: %d\n", len(g.CircularReferences))
		for _, cycle := range g.CircularReferences {
			fmt.Printf("  %s\n", strings.Join(cycle, " -> "))
		}
	}

	if len(parsed.Warnings) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, warning := range parsed.Warnings {
			fmt.Printf("  - %s\n", warning)
		}
	}

	return nil
}

type kindCount struct {
	kind  string
	count int
}

// componentKinds tallies components by kind in the fixed section order.
func componentKinds(doc *ir.Document) []kindCount {
	order := []ir.ComponentKind{
		ir.ComponentSchema, ir.ComponentParameter, ir.ComponentHeader,
		ir.ComponentResponse, ir.ComponentRequestBody, ir.ComponentSecurityScheme,
	}
	counts := make(map[ir.ComponentKind]int)
	for _, c := range doc.Components {
		counts[c.Kind]++
	}
	groups := make([]kindCount, 0, len(counts))
	for _, kind := range order {
		if n := counts[kind]; n > 0 {
			groups = append(groups, kindCount{kind: string(kind), count: n})
		}
	}
	return groups
}
