// Package textproc turns free-text study notes into structured artifacts.
//
// A Transformer classifies each line of its input against ordered, data-driven
// rule tables and emits one artifact per output mode:
//
//   - GenerateFlashcards: question/answer cards with a length-derived difficulty
//   - GenerateFlowchart: a linear chain of typed nodes laid out on a 3-column grid
//   - SimplifyText: a plain-language rewrite with a readability estimate
//   - ExtractConcepts: main/supporting concepts and cause/effect connections
//
// Rules are evaluated in table order and the first match wins. Tables can be
// replaced through Config, so each rule can be tested on its own.
//
// # Purity
//
// A Transformer holds only compiled, read-only tables. Its methods perform no
// I/O, never return errors and are safe for concurrent use without locking.
// Empty or sparse input yields an empty (or minimal) result.
//
// # Usage
//
//	t := textproc.DefaultTransformer()
//	cards := t.GenerateFlashcards(notes)
//	chart := t.GenerateFlowchart(notes)
//
// Service wraps a Transformer with tracing, metrics and the simulated latency
// boundary used by the HTTP and MCP surfaces.
package textproc
