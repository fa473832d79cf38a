// Package resolver turns the raw AST of package grammar into typed
// materials. It dispatches on property names, routes parameter blocks
// through the matching coefficient constructors, and demotes anything that
// violates an invariant to an opaque record with a warning diagnostic.
package resolver

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'matdb.resolver'.
func tracer() tracing.Trace {
	return tracing.Select("matdb.resolver")
}
