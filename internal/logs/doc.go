// Package logs tails the pagecheck log file for the CLI.
//
// It reads log files with bounded memory usage, supports negative offsets for
// "tail last N lines" operations, and powers `pagecheck logs --follow`.
// Lines can be narrowed to one scan session so a console run can be replayed
// next to the audit events it wrote. Callers supply context deadlines so
// polling shuts down cleanly when the CLI exits.
package logs
