// Package diag defines the diagnostic model shared by the lexer, parser,
// formatter and driver.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced
//     while reading, parsing and formatting files.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or rendering layers.
//
// # Scope
//
// Package diag does not perform any terminal output. Rendering lives in
// internal/diagfmt, orchestration in internal/driver.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with a stable string
//     form: LEX1xxx, SYN2xxx, FMT3xxx, IO4xxx, CFG5xxx.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages for additional context.
//   - Fixes – optional text edits; the formatter attaches the whole-file
//     replacement to FmtNotFormatted so callers can apply it.
//
// # Emitting diagnostics
//
// Phases receive a diag.Reporter. The parser builds diagnostics through
// ReportError/ReportWarning/ReportInfo and chains WithNote before Emit.
// BagReporter aggregates into a Bag, which supports sorting, deduplication
// and filtering.
package diag
