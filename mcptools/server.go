package mcptools

import (
	"context"
	"regexp"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/castrlabs/castr"
	"github.com/castrlabs/castr/castrerrors"
)

const serverInstructions = `castr MCP server — parses OpenAPI documents into castr's intermediate representation (IR) and answers questions about it: build summaries, dependency graphs, individual schema nodes, and generated Go code.

Configuration: All defaults are configurable via CASTR_* environment variables set in your MCP client config. The Go MCP SDK does not support initializationOptions; use env vars instead.

Key settings:
- CASTR_CACHE_FILE_TTL (default: 15m) — cache TTL for local file documents
- CASTR_CACHE_URL_TTL (default: 5m) — cache TTL for URL-fetched documents
- CASTR_CACHE_ENABLED (default: true) — disable IR caching entirely
- CASTR_GRAPH_LIMIT (default: 100) — default page size for castr_graph order listings
- CASTR_MAX_INLINE_SIZE (default: 10485760) — maximum inline content and inline generate output, in bytes
- CASTR_MAX_FETCH_SIZE (default: 20971520) — maximum URL download size in bytes
- CASTR_ALLOW_PRIVATE_IPS (default: false) — allow URL fetches from private/loopback networks

Caching: Built IR documents are cached per session, so repeated tool calls against the same document skip the parse and build. File entries use path+mtime as key (auto-invalidated on change). URL entries are cached with a shorter TTL. A background sweeper removes expired entries every 60s.`

// Option configures the MCP server.
type Option func(*options)

type options struct {
	name string
	err  error
}

func defaultOptions() *options {
	return &options{name: "castr"}
}

// WithServerName sets the server name reported to MCP clients during
// initialization. The default is "castr".
func WithServerName(name string) Option {
	return func(o *options) {
		if name == "" {
			o.err = &castrerrors.ConfigError{
				Option:  "server name",
				Message: "server name cannot be empty",
			}
			return
		}
		o.name = name
	}
}

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context, opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.err != nil {
		return o.err
	}

	if cfg.CacheEnabled {
		docCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: o.name, Version: castr.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "castr_build",
		Description: "Parse an OpenAPI document (3.0.x or 3.1.x) and build its intermediate representation. Returns a structural summary: title, version, component counts by kind, operation count, schema and enum counts, dependency cycles, and parse warnings. Use include_ir=true only for small documents; for large ones use castr_graph and castr_schema to explore specific parts.",
	}, handleBuild)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "castr_graph",
		Description: "Build the dependency graph over an OpenAPI document's named schema components. Returns nodes in topological order (leaves first, so a node always appears after everything it depends on) with per-node depth, dependencies, and dependents, plus every circular reference chain. Use offset/limit to paginate the order listing; cycles_only=true skips the order entirely. Default limit is configurable via CASTR_GRAPH_LIMIT (default 100).",
	}, handleGraph)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "castr_schema",
		Description: "Look up one named schema component in an OpenAPI document and return its built IR node as JSON, along with its dependency-graph neighborhood (dependencies, dependents, depth, cycle membership) and enum values when the component defines an enum. Set exactly one of name (e.g. Pet) or ref (e.g. #/components/schemas/Pet).",
	}, handleSchema)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "castr_generate",
		Description: "Generate Go source from an OpenAPI document: typed structs, enum constant sets, union wrappers, and an endpoints metadata table. Omit output_dir to get file contents inline (subject to CASTR_MAX_INLINE_SIZE); set it to write files to disk and get a manifest. package_name defaults to api. Use no_validation_tags / no_endpoints to trim the output.",
	}, handleGenerate)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.GraphLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.GraphLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// groupCount represents one group in a grouped count listing.
type groupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// groupAndSort groups items by key, sorts by count descending (ties
// broken alphabetically by key), and returns the sorted groups.
func groupAndSort[T any](items []T, keyFn func(T) string) []groupCount {
	counts := make(map[string]int)
	for _, item := range items {
		counts[keyFn(item)]++
	}
	groups := make([]groupCount, 0, len(counts))
	for key, count := range counts {
		groups = append(groups, groupCount{Key: key, Count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}
