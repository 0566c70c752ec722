package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/castrlabs/castr/mcptools"
)

// MCPFlags contains flags for the mcp command
type MCPFlags struct {
	Name string
}

// SetupMCPFlags creates and configures a FlagSet for the mcp command.
func SetupMCPFlags() (*flag.FlagSet, *MCPFlags) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	flags := &MCPFlags{}

	fs.StringVar(&flags.Name, "name", "castr", "server name reported to MCP clients")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: castr mcp [flags]\n\n")
		Writef(output, "Serve castr tools over the Model Context Protocol on stdio.\n")
		Writef(output, "Intended to be launched by an MCP client (Claude, editors, agents),\n")
		Writef(output, "not invoked interactively.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nConfiguration is read from CASTR_* environment variables; see the\n")
		Writef(output, "mcptools package documentation for the full list.\n")
	}

	return fs, flags
}

// HandleMCP executes the mcp command. It blocks until the client
// disconnects or the process receives SIGINT or SIGTERM.
func HandleMCP(args []string) error {
	fs, flags := SetupMCPFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("mcp command takes no positional arguments")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return mcptools.Run(ctx, mcptools.WithServerName(flags.Name))
}
