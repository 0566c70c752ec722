// Package mcptools implements an MCP (Model Context Protocol) server that
// exposes the castr pipeline as MCP tools over stdio.
//
// Four tools are registered:
//
//   - castr_build: parse an OpenAPI document and build its IR, returning a
//     structural summary and optionally the serialized IR itself
//   - castr_graph: the dependency graph over named schema components, in
//     topological order with cycles flagged
//   - castr_schema: one named schema component's IR node with its graph
//     neighborhood
//   - castr_generate: Go source generated from the document, inline or
//     written to disk
//
// Documents can be supplied as a file path, a URL, or inline content. Built
// IR documents are cached per session, keyed by path+mtime, URL, or content
// hash, so repeated tool calls against the same document skip the parse and
// build. URL fetches go through an SSRF-guarded HTTP client unless
// CASTR_ALLOW_PRIVATE_IPS is set.
//
// Defaults are configurable via CASTR_* environment variables; see the
// server instructions in server.go for the full list.
package mcptools
