package api

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"pagecheck/internal/audit"
	"pagecheck/internal/sequence"
	"pagecheck/internal/store"
)

// FromTotals converts store totals.
func FromTotals(t store.Totals) Totals {
	dto := Totals{
		Documents:    t.Documents,
		Pages:        t.Pages,
		ScannedPages: t.ScannedPages,
		PendingPages: t.Pages - t.ScannedPages,
		Codes:        t.Codes,
		ScannedCodes: t.ScannedCodes,
	}
	if t.Pages > 0 {
		dto.Percent = float64(t.ScannedPages) * 100 / float64(t.Pages)
	}
	return dto
}

// FromDocumentSummary converts a document with progress.
func FromDocumentSummary(s store.DocumentSummary) Document {
	dto := Document{
		ID:           s.ID,
		Name:         s.Name,
		Path:         s.Path,
		Pages:        s.Pages,
		ScannedPages: s.ScannedPages,
		Codes:        s.Codes,
		ScannedCodes: s.ScannedCodes,
	}
	if !s.UpdatedAt.IsZero() {
		dto.UpdatedAt = s.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromPageStatuses converts page rows.
func FromPageStatuses(rows []store.PageStatus) []PageStatus {
	out := make([]PageStatus, 0, len(rows))
	for _, row := range rows {
		out = append(out, PageStatus{
			DocumentID:   row.DocumentID,
			Document:     row.DocumentName,
			Page:         row.Page,
			Codes:        row.Codes,
			ScannedCodes: row.ScannedCodes,
			Scanned:      row.Scanned(),
		})
	}
	return out
}

// FromEvent converts an audit event.
func FromEvent(e audit.Event) Event {
	dto := Event{
		ID:          e.ID,
		Kind:        string(e.Kind),
		Code:        e.Code,
		Page:        e.Page,
		Document:    e.Detail.DocumentName,
		Description: DescribeEvent(e),
	}
	if !e.Timestamp.IsZero() {
		dto.Timestamp = e.Timestamp.UTC().Format(dateTimeFormat)
	}
	if raw := strings.TrimSpace(e.RawDetail); raw != "" && json.Valid([]byte(raw)) {
		dto.Detail = json.RawMessage(raw)
	}
	return dto
}

// FromEvents converts a list of events.
func FromEvents(events []audit.Event) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		out = append(out, FromEvent(e))
	}
	return out
}

// FromExtractEvent converts an extract_summary event, or returns nil.
func FromExtractEvent(e *audit.Event) *Extraction {
	if e == nil || e.Detail.Extract == nil {
		return nil
	}
	x := e.Detail.Extract
	dto := &Extraction{
		DocumentID:     x.DocumentID,
		Document:       x.Document,
		TotalPages:     x.TotalPages,
		PagesProcessed: x.PagesProcessed,
		CodesFound:     x.CodesFound,
		Inserted:       x.Inserted,
		Duplicates:     x.Duplicates,
	}
	if !e.Timestamp.IsZero() {
		dto.Timestamp = e.Timestamp.UTC().Format(dateTimeFormat)
	}
	return dto
}

// SortedCounts orders event counts by kind.
func SortedCounts(counts map[audit.Kind]int) []EventCount {
	out := make([]EventCount, 0, len(counts))
	for kind, count := range counts {
		out = append(out, EventCount{Kind: string(kind), Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// DescribeEvent renders a one-line explanation of an event.
func DescribeEvent(e audit.Event) string {
	d := e.Detail
	switch e.Kind {
	case audit.KindScanOK:
		return fmt.Sprintf("verified in %s", d.DocumentName)
	case audit.KindScanNotFound:
		return "code not in any loaded document"
	case audit.KindScanAmbiguousCode:
		return "present in " + strings.Join(d.Documents, ", ")
	case audit.KindScanAlreadyScanned:
		return fmt.Sprintf("already verified in %s", d.DocumentName)
	case audit.KindScanOtherLot:
		return fmt.Sprintf("before anchor %d in %s", d.Anchor, d.DocumentName)
	case audit.KindScanMissingPages:
		return fmt.Sprintf("missing in %s: %s", d.DocumentName, sequence.Summarize(d.MissingPages))
	case audit.KindResolutionAlreadyScanned, audit.KindResolutionOtherLot:
		text := d.Resolution.Label()
		if d.Note != "" {
			text += ": " + d.Note
		}
		return text
	case audit.KindResetScans:
		return fmt.Sprintf("%d entries reset", d.ResetPages)
	case audit.KindResetAnchor:
		return fmt.Sprintf("%d anchors cleared", len(d.Anchors))
	case audit.KindExtractSummary:
		if d.Extract != nil {
			return fmt.Sprintf("%s: %d codes on %d pages", d.Extract.Document, d.Extract.Inserted, d.Extract.TotalPages)
		}
	}
	return ""
}
