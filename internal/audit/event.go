package audit

import (
	"encoding/json"
	"time"
)

// Event is one immutable entry of the log. ID is the insertion sequence and
// defines ordering; timestamps are informational.
type Event struct {
	ID        int64
	Timestamp time.Time
	Kind      Kind
	Code      string
	Page      *int
	Detail    Detail
	// RawDetail is the stored payload, kept for details written by newer versions.
	RawDetail string
}

// Detail is the structured payload. Fields that do not apply to a kind are omitted.
type Detail struct {
	SessionID    string          `json:"session_id,omitempty"`
	DocumentID   int64           `json:"document_id,omitempty"`
	DocumentName string          `json:"document_name,omitempty"`
	Documents    []string        `json:"documents,omitempty"`
	Anchor       int             `json:"anchor,omitempty"`
	MissingPages []int           `json:"missing_pages,omitempty"`
	ErrorType    ErrorType       `json:"error_type,omitempty"`
	Resolution   Resolution      `json:"resolution,omitempty"`
	Note         string          `json:"note,omitempty"`
	Anchors      map[int64]int   `json:"anchors,omitempty"`
	ResetPages   int64           `json:"reset_pages,omitempty"`
	Extract      *ExtractSummary `json:"extract,omitempty"`
}

// ExtractSummary describes one indexing pass over a document.
type ExtractSummary struct {
	DocumentID     int64  `json:"document_id"`
	Document       string `json:"document"`
	Path           string `json:"path"`
	TotalPages     int    `json:"total_pages"`
	PagesProcessed int    `json:"pages_processed"`
	CodesFound     int    `json:"codes_found"`
	Inserted       int    `json:"inserted"`
	Duplicates     int    `json:"duplicates"`
	Cached         bool   `json:"cached"`
}

// PageValue returns a pointer suitable for Event.Page.
func PageValue(page int) *int {
	p := page
	return &p
}

// EncodeDetail marshals a detail payload for storage.
func EncodeDetail(d Detail) (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeDetail parses a stored payload. An empty payload yields a zero Detail.
func DecodeDetail(raw string) (Detail, error) {
	var d Detail
	if raw == "" {
		return d, nil
	}
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return Detail{}, err
	}
	return d, nil
}
