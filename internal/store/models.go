package store

import (
	"fmt"
	"strings"
	"time"

	"pagecheck/internal/audit"
)

// Document is one indexed source file.
type Document struct {
	ID        int64
	Name      string
	Path      string
	Size      int64
	ModTime   time.Time
	Signature string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location is a single Code Index match.
type Location struct {
	DocumentID   int64
	DocumentName string
	Page         int
	Scanned      bool
}

// PageCode is one page-code entry.
type PageCode struct {
	DocumentID int64
	Page       int
	Code       string
	Scanned    bool
	ScannedAt  *time.Time
}

// PageStatus aggregates the entries of one page. A page counts as scanned
// only when every code on it is.
type PageStatus struct {
	DocumentID   int64
	DocumentName string
	Page         int
	Codes        int
	ScannedCodes int
}

// Scanned reports whether every code on the page has been confirmed.
func (p PageStatus) Scanned() bool {
	return p.Codes > 0 && p.ScannedCodes == p.Codes
}

// DocumentSummary is a document plus its scan progress.
type DocumentSummary struct {
	Document
	Pages        int
	ScannedPages int
	Codes        int
	ScannedCodes int
}

// Totals aggregates scan progress across every document.
type Totals struct {
	Documents    int
	Pages        int
	ScannedPages int
	Codes        int
	ScannedCodes int
}

// StatusFilter narrows page listings.
type StatusFilter string

const (
	FilterAll     StatusFilter = "all"
	FilterPending StatusFilter = "pending"
	FilterScanned StatusFilter = "scanned"
)

// ParseStatusFilter accepts all, pending or scanned; empty means all.
func ParseStatusFilter(value string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(value))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterPending, FilterScanned:
		return f, nil
	}
	return "", fmt.Errorf("unknown status filter %q", value)
}

// EventFilter selects events for listing. Zero Limit means no limit.
type EventFilter struct {
	Kinds   []audit.Kind
	AfterID int64
	Limit   int
}

// DatabaseHealth captures diagnostic information about the database.
type DatabaseHealth struct {
	DBPath           string   `json:"dbPath"`
	SchemaVersion    int      `json:"schemaVersion"`
	DatabaseExists   bool     `json:"databaseExists"`
	DatabaseReadable bool     `json:"databaseReadable"`
	TablesPresent    []string `json:"tablesPresent,omitempty"`
	MissingTables    []string `json:"missingTables,omitempty"`
	IntegrityCheck   bool     `json:"integrityCheck"`
	Documents        int      `json:"documents"`
	Codes            int      `json:"codes"`
	Events           int      `json:"events"`
	Error            string   `json:"error,omitempty"`
}
