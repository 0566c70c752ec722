package main

import (
	"fmt"
	"os"

	"github.com/castrlabs/castr"
	"github.com/castrlabs/castr/cmd/castr/commands"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Println(castr.BuildInfo())
	case "help", "-h", "--help":
		printUsage()
	case "build":
		run(commands.HandleBuild)
	case "graph":
		run(commands.HandleGraph)
	case "generate":
		run(commands.HandleGenerate)
	case "validate-data":
		run(commands.HandleValidateData)
	case "mcp":
		run(commands.HandleMCP)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean %q?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}
}

func run(handler func([]string) error) {
	if err := handler(os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var knownCommands = []string{"build", "graph", "generate", "validate-data", "mcp", "version", "help"}

// suggestCommand returns the closest known command within edit distance 2,
// or "" when nothing is close enough to suggest.
func suggestCommand(input string) string {
	best := ""
	bestDist := 3
	for _, cmd := range knownCommands {
		if d := editDistance(input, cmd); d < bestDist {
			best = cmd
			bestDist = d
		}
	}
	return best
}

// editDistance computes the Levenshtein distance between two strings.
func editDistance(a, b string) int {
	if a == b {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func printUsage() {
	fmt.Printf(`castr - OpenAPI to IR pipeline

Usage: castr <command> [flags] [arguments]

Commands:
  build          Parse an OpenAPI document and emit its intermediate representation
  graph          Show the dependency graph over named schema components
  generate       Generate Go source from an OpenAPI document
  validate-data  Validate a data payload against a schema component
  mcp            Run the MCP server over stdio
  version        Show version information
  help           Show this help message

Run 'castr <command> --help' for command-specific flags.

Examples:
  castr build openapi.yaml
  castr build -o api.ir.json openapi.yaml
  castr graph --cycles openapi.yaml
  castr graph --format dot openapi.yaml | dot -Tsvg > deps.svg
  castr generate -o ./api -p petstore openapi.yaml
  castr validate-data --schema Pet --data pet.json openapi.yaml
  castr mcp
`)
}
