// Package mcp exposes the scholard engines as MCP tools over stdio.
//
// Tools: generate_flashcards, generate_flowchart, simplify_text,
// extract_concepts, search_citations, format_citation and
// search_researchers. Each tool calls the service registry directly and
// records invocation metrics.
package mcp
