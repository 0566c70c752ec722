package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/castrlabs/castr/ir"
)

// GraphFlags contains flags for the graph command
type GraphFlags struct {
	Format     string
	CyclesOnly bool
	Quiet      bool
}

// SetupGraphFlags creates and configures a FlagSet for the graph command.
// Returns the FlagSet and a GraphFlags struct with bound flag variables.
func SetupGraphFlags() (*flag.FlagSet, *GraphFlags) {
	fs := flag.NewFlagSet("graph", flag.ContinueOnError)
	flags := &GraphFlags{}

	fs.StringVar(&flags.Format, "f", FormatText, "output format: text, json, yaml, or dot")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, yaml, or dot")
	fs.BoolVar(&flags.CyclesOnly, "cycles", false, "show only circular reference chains")
	fs.BoolVar(&flags.Quiet, "q", false, "omit table headers (tab-separated rows for piping)")
	fs.BoolVar(&flags.Quiet, "quiet", false, "omit table headers (tab-separated rows for piping)")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: castr graph [flags] <file|->\n\n")
		Writef(output, "Show the dependency graph over named schema components.\n")
		Writef(output, "Nodes are listed in topological order: leaves first, so every\n")
		Writef(output, "component appears after the components it depends on.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  castr graph openapi.yaml\n")
		Writef(output, "  castr graph --cycles openapi.yaml\n")
		Writef(output, "  castr graph -f dot openapi.yaml | dot -Tsvg > deps.svg\n")
		Writef(output, "  castr graph -f json openapi.yaml | jq '.nodes[].ref'\n")
	}

	return fs, flags
}

// graphNodeOut is one node in structured graph output.
type graphNodeOut struct {
	Ref          string   `json:"ref" yaml:"ref"`
	Depth        int      `json:"depth" yaml:"depth"`
	IsCircular   bool     `json:"isCircular,omitempty" yaml:"isCircular,omitempty"`
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Dependents   []string `json:"dependents,omitempty" yaml:"dependents,omitempty"`
}

// graphOut is the structured graph output document.
type graphOut struct {
	Nodes  []graphNodeOut `json:"nodes" yaml:"nodes"`
	Cycles [][]string     `json:"cycles,omitempty" yaml:"cycles,omitempty"`
}

// HandleGraph executes the graph command
func HandleGraph(args []string) error {
	fs, flags := SetupGraphFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("graph command requires exactly one file path or '-' for stdin")
	}

	switch flags.Format {
	case FormatText, FormatJSON, FormatYAML, FormatDOT:
	default:
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s, %s",
			flags.Format, FormatText, FormatJSON, FormatYAML, FormatDOT)
	}

	doc, _, err := loadDocument(fs.Arg(0))
	if err != nil {
		return err
	}

	g := doc.DependencyGraph
	if g == nil || len(g.Nodes) == 0 {
		if flags.Format == FormatText {
			fmt.Println("No named schema components.")
		}
		return nil
	}

	if flags.CyclesOnly {
		return renderCycles(g, flags.Format)
	}

	switch flags.Format {
	case FormatDOT:
		renderDOT(os.Stdout, g)
		return nil
	case FormatJSON, FormatYAML:
		out := graphOut{Cycles: g.CircularReferences}
		for _, ref := range g.TopologicalOrder {
			if node := g.Nodes[ref]; node != nil {
				out.Nodes = append(out.Nodes, graphNodeOut{
					Ref:          node.Ref,
					Depth:        node.Depth,
					IsCircular:   node.IsCircular,
					Dependencies: node.Dependencies,
					Dependents:   node.Dependents,
				})
			}
		}
		return OutputStructured(os.Stdout, out, flags.Format)
	}

	// Text table in topological order.
	headers := []string{"REF", "DEPTH", "DEPS", "DEPENDENTS", "CIRCULAR"}
	rows := make([][]string, 0, len(g.TopologicalOrder))
	for _, ref := range g.TopologicalOrder {
		node := g.Nodes[ref]
		if node == nil {
			continue
		}
		circular := ""
		if node.IsCircular {
			circular = "yes"
		}
		rows = append(rows, []string{
			node.Ref,
			strconv.Itoa(node.Depth),
			strconv.Itoa(len(node.Dependencies)),
			strconv.Itoa(len(node.Dependents)),
			circular,
		})
	}
	RenderSummaryTable(os.Stdout, headers, rows, flags.Quiet)

	if len(g.CircularReferences) > 0 && !flags.Quiet {
		fmt.Printf("\nCircular references:\n")
		for _, cycle := range g.CircularReferences {
			fmt.Printf("  %s\n", formatCycle(cycle))
		}
	}
	return nil
}

// renderCycles prints only the circular reference chains.
func renderCycles(g *ir.DependencyGraph, format string) error {
	switch format {
	case FormatJSON, FormatYAML:
		return OutputStructured(os.Stdout, graphOut{Cycles: g.CircularReferences}, format)
	case FormatDOT:
		return fmt.Errorf("dot format does not support --cycles; render the full graph instead")
	}
	if len(g.CircularReferences) == 0 {
		fmt.Println("No circular references.")
		return nil
	}
	for _, cycle := range g.CircularReferences {
		fmt.Println(formatCycle(cycle))
	}
	return nil
}

// formatCycle renders a cycle chain closed back on its first member.
func formatCycle(cycle []string) string {
	if len(cycle) == 0 {
		return ""
	}
	return strings.Join(cycle, " -> ") + " -> " + cycle[0]
}

// renderDOT writes the graph in Graphviz dot format. Node labels use the
// short component name; cycle members render red.
func renderDOT(w io.Writer, g *ir.DependencyGraph) {
	Writef(w, "digraph dependencies {\n")
	Writef(w, "  rankdir=LR;\n")
	Writef(w, "  node [shape=box];\n")
	for _, ref := range g.TopologicalOrder {
		node := g.Nodes[ref]
		if node == nil {
			continue
		}
		if node.IsCircular {
			Writef(w, "  %q [color=red];\n", shortRef(node.Ref))
		} else if len(node.Dependencies) == 0 && len(node.Dependents) == 0 {
			// Isolated nodes need an explicit declaration to appear.
			Writef(w, "  %q;\n", shortRef(node.Ref))
		}
	}
	for _, ref := range g.TopologicalOrder {
		node := g.Nodes[ref]
		if node == nil {
			continue
		}
		for _, dep := range node.Dependencies {
			Writef(w, "  %q -> %q;\n", shortRef(node.Ref), shortRef(dep))
		}
	}
	Writef(w, "}\n")
}

// shortRef strips the canonical ref prefix, leaving the component name.
func shortRef(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}
