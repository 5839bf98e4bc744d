// Package sequence enforces the per-document page order during a scan pass.
//
// A Guard holds one anchor per document: the lowest page from which gaps are
// checked. Anchors live only in process memory and belong to one engine; two
// processes scanning the same document keep independent anchors.
//
// Resolution is split in two steps so a caller can evaluate an anchor inside a
// database transaction and only make it stick once the transaction commits.
package sequence
