// Package logging constructs the application's slog loggers.
//
// Two output formats are supported: a compact single-line console format
// for interactive use and JSON for ingestion. Log output can be fanned out
// to stdout/stderr and a log file simultaneously. Standardized field keys
// keep identity and catalog attributes consistent across components.
package logging
