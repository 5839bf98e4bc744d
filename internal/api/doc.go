// Package api defines wire-format types and converters for the report view and
// the CLI's JSON output. It translates store models and audit events into
// transport-friendly DTOs so front ends never couple to internal types.
//
// # Key Types
//
// Summary: overall progress, per-document progress, and a filtered page list.
//
// Report: the latest extraction, scan event counts, and the recent history of
// each anomaly kind.
//
// PageDetail: the codes printed on one page with their scan state.
//
// # Design Notes
//
// DTOs use camelCase JSON tags. Timestamps use RFC3339 with milliseconds.
// Event details are passed through as json.RawMessage to avoid double-encoding.
package api
