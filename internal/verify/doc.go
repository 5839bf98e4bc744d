// Package verify is the scan verification engine.
//
// Engine.Submit resolves a scanned code against the indexed documents and
// decides its outcome in a fixed precedence: unknown code, code present in
// several documents, entry already scanned, page behind the document's anchor,
// earlier pages still missing, and finally acceptance. Each call runs in one
// store transaction that writes exactly one audit event, together with the
// scanned flag when the scan is accepted.
//
// Outcomes are returned as distinct Result types rather than a status string,
// so callers can only read the fields that apply. Envelope flattens a Result
// for JSON front ends.
//
// Engine.Classify records a manual resolution of an AlreadyScanned or
// OtherLot anomaly. Resolutions are audit annotations only; they never change
// scan state.
package verify
