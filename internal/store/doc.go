// Package store persists documents, page codes, and the audit event log in
// SQLite and exposes the transactional primitives the verification engine
// builds on.
//
// Writers go through Update, which opens an IMMEDIATE transaction so two
// processes never interleave a read-check-write sequence. SQLite's
// busy_timeout bounds the wait for the write lock; a short retry loop covers
// the remaining SQLITE_BUSY cases and then surfaces ErrStoreBusy so the caller
// can decide whether to resubmit.
//
// The events table is append-only: triggers reject UPDATE and DELETE. Schema
// changes bump the version in schema.go; users delete the database to adopt a
// new schema.
package store
