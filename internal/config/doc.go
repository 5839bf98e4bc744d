// Package config loads, normalizes, and validates pagecheck configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PAGECHECK_DATA_DIR. The Config type centralizes every knob the CLI, the scan
// console, and the report view need, so the data directory, the SQLite busy
// budget, and the code pattern are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
