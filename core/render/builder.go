// Package render assembles SQL text and ordered parameter lists from the
// query AST. Rendering is a pure function: the same query always yields
// byte-identical SQL and the same parameter sequence, and no render call
// mutates the query or its join registry.
package render

import (
	"strings"
)

// Result is the output of a render call: SQL text with positional "?"
// placeholders and the bound parameter values in placeholder order. It is
// handed to the execution collaborator and never reused by the engine.
type Result struct {
	SQL    string
	Params []any
}

// SQLBuilder accumulates SQL text and parameters during a single render
// call. Parameters are appended in the order their placeholders appear in
// the text, which keeps the 1:1 text/params correspondence even when a
// dialect later wraps the body.
type SQLBuilder struct {
	sb     strings.Builder
	params []any
}

// Write appends raw SQL text.
func (b *SQLBuilder) Write(s string) {
	b.sb.WriteString(s)
}

// Param appends a "?" placeholder and records its bound value.
func (b *SQLBuilder) Param(value any) {
	b.sb.WriteString("?")
	b.params = append(b.params, value)
}

// Result finalizes the builder into an immutable Result.
func (b *SQLBuilder) Result() Result {
	return Result{SQL: b.sb.String(), Params: b.params}
}
