// Package logging assembles structured slog loggers and formatting helpers used
// across pagecheck.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes helpers so the engine, loader, console, and report view tag log
// lines with the same component, session, and event_type fields. The package
// also provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components emit
// data with the same shape as the rest of the system.
package logging
