// Package logging assembles structured slog loggers and formatting helpers used
// across teludub.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so stage code automatically tags
// log lines with run IDs, stage names, and synthesis chunk indexes. Each dub
// run can also tee its records into a JSON log file under the log directory.
// A no-op logger is provided for tests and wiring code that cannot fail.
package logging
