// Package logging assembles structured slog loggers and formatting helpers used
// across recast.
//
// It owns the console and JSON handlers, level and output plumbing, and the
// context-aware helpers that tag log lines with run IDs, stages, episodes, and
// chapters. The console handler colours level labels only when every output is
// a terminal. A no-op logger is provided for tests and wiring code.
package logging
