package api

import "encoding/json"

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Totals summarizes progress across every document.
type Totals struct {
	Documents    int     `json:"documents"`
	Pages        int     `json:"pages"`
	ScannedPages int     `json:"scannedPages"`
	PendingPages int     `json:"pendingPages"`
	Codes        int     `json:"codes"`
	ScannedCodes int     `json:"scannedCodes"`
	Percent      float64 `json:"percent"`
}

// Document describes one indexed document and its progress.
type Document struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Path         string `json:"path"`
	Pages        int    `json:"pages"`
	ScannedPages int    `json:"scannedPages"`
	Codes        int    `json:"codes"`
	ScannedCodes int    `json:"scannedCodes"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

// PageStatus describes one page of a document.
type PageStatus struct {
	DocumentID   int64  `json:"documentId"`
	Document     string `json:"document"`
	Page         int    `json:"page"`
	Codes        int    `json:"codes"`
	ScannedCodes int    `json:"scannedCodes"`
	Scanned      bool   `json:"scanned"`
}

// PageCode is one code printed on a page.
type PageCode struct {
	Code      string `json:"code"`
	Scanned   bool   `json:"scanned"`
	ScannedAt string `json:"scannedAt,omitempty"`
}

// PageDetail lists the codes of one page.
type PageDetail struct {
	Document Document   `json:"document"`
	Page     int        `json:"page"`
	Scanned  bool       `json:"scanned"`
	Codes    []PageCode `json:"codes"`
}

// Event is an audit log entry.
type Event struct {
	ID          int64           `json:"id"`
	Timestamp   string          `json:"timestamp"`
	Kind        string          `json:"kind"`
	Code        string          `json:"code,omitempty"`
	Page        *int            `json:"page,omitempty"`
	Document    string          `json:"document,omitempty"`
	Description string          `json:"description,omitempty"`
	Detail      json.RawMessage `json:"detail,omitempty"`
}

// EventGroup is the recent history of one event kind.
type EventGroup struct {
	Kind   string  `json:"kind"`
	Title  string  `json:"title"`
	Events []Event `json:"events"`
}

// EventCount is the number of events of one kind.
type EventCount struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// Extraction summarizes the most recent indexing pass.
type Extraction struct {
	Timestamp      string `json:"timestamp"`
	DocumentID     int64  `json:"documentId"`
	Document       string `json:"document"`
	TotalPages     int    `json:"totalPages"`
	PagesProcessed int    `json:"pagesProcessed"`
	CodesFound     int    `json:"codesFound"`
	Inserted       int    `json:"inserted"`
	Duplicates     int    `json:"duplicates"`
}

// Summary is the landing view.
type Summary struct {
	Filter    string       `json:"filter"`
	Totals    Totals       `json:"totals"`
	Documents []Document   `json:"documents"`
	Pages     []PageStatus `json:"pages"`
}

// Report is the audit view.
type Report struct {
	LatestExtraction *Extraction  `json:"latestExtraction,omitempty"`
	Counts           []EventCount `json:"counts"`
	Recent           []EventGroup `json:"recent"`
}
