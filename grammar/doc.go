// Package grammar lexes and parses the SCM dialect used by CFD solvers to
// describe material property catalogs. It produces a raw AST of materials;
// package resolver turns the raw AST into typed materials.
package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'matdb.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("matdb.grammar")
}
