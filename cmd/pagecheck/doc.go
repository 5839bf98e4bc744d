// Package main hosts the pagecheck CLI entrypoint and command graph.
//
// The Cobra-based command tree wires configuration, the SQLite store, the
// verification engine and the document indexer together for each invocation:
// the interactive scan console, one-shot scans and classifications, resets,
// progress and event listings, the report server, and configuration
// scaffolding.
//
// Keep this package lean: behaviour lives in the internal packages, and
// commands here only parse flags, open resources and render output.
package main
