// Package report serves the read-only progress and audit views over HTTP.
//
// The server renders HTML pages for operators and mirrors each view as JSON
// under /api. It never writes to the store, so it can run alongside any number
// of scan consoles.
package report
