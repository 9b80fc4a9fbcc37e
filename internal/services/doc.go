// Package services wires the scholard engines into a single registry.
//
// Build opens the configured store, creates one dispatch runner per latency
// channel and constructs the transform, citation and researcher services
// over them. The HTTP server, the MCP server and the CLI all take a
// Registry rather than constructing services themselves.
package services
