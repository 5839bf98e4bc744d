// Package audit defines the vocabulary of the scan event log.
//
// Every scan outcome and administrative action is recorded as an Event with a
// Kind from a closed set and a structured Detail payload. Resolutions recorded
// by an operator after an anomaly use the ErrorType and Resolution enums, which
// are validated here so callers never pass free-form strings into the store.
//
// Events are append-only. The store enforces that with triggers; this package
// only describes their shape.
package audit
