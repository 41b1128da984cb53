// Package logging assembles structured slog loggers and formatting helpers used
// across plparse.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so every line written during a
// resolution carries its run_id. A no-op logger is provided for tests and for
// library callers that do not want output.
package logging
