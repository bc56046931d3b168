// Package trace is the logging layer of forma.
//
// Events are structured (scope, span ids, name, detail, extra fields) and
// routed to a Tracer. Formatting runs are traced per driver run, per file and
// per pass, which is enough to find the slow or stuck file in a large tree.
//
// # Usage
//
//	forma fmt --trace=- --trace-level=detail ./configs
//
// # Architecture
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr), text or NDJSON
//   - RingTracer: circular buffer dumped on failure
//   - MultiTracer: combines multiple tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only ring dumps on failure
//   - LevelPhase: driver and file boundaries
//   - LevelDetail: passes inside a file (parse, lower, print)
//   - LevelDebug: everything including printer events
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "parse", parentID)
//	defer span.End("")
package trace
