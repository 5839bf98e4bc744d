// Package preflight provides readiness checks for the filesystem paths and the
// database that pagecheck depends on.
//
// These checks run in two contexts:
//   - The console and index commands call RunAll before touching the store so
//     an unwritable data directory fails fast instead of mid-session.
//   - The CLI "pagecheck health" command prints every result alongside the
//     database integrity report.
package preflight
