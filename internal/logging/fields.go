package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldSessionID identifies the process-local scan session (one engine instance).
	FieldSessionID = "session_id"
	// FieldEventType is the standardized key naming what happened, mirroring audit event kinds where one exists.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to do next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldDocumentID is the standardized key for document identifiers.
	FieldDocumentID = "document_id"
	// FieldDocument is the standardized key for document display names.
	FieldDocument = "document"
	// FieldCode is the standardized key for scanned codes.
	FieldCode = "code"
	// FieldPage is the standardized key for page numbers.
	FieldPage = "page"
)
