package cli

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'matdb.cli'
func tracer() tracing.Trace {
	return tracing.Select("matdb.cli")
}
