package api

import (
	"context"
	"fmt"

	"pagecheck/internal/audit"
	"pagecheck/internal/store"
)

// RecentLimit is how many events of each kind the report shows.
const RecentLimit = 20

// ReportReader abstracts the store queries needed by the report view.
type ReportReader interface {
	ListDocuments(ctx context.Context) ([]store.DocumentSummary, error)
	PageStatuses(ctx context.Context, filter store.StatusFilter) ([]store.PageStatus, error)
	PageCodes(ctx context.Context, documentID int64, page int) ([]store.PageCode, error)
	Document(ctx context.Context, id int64) (*store.Document, error)
	EventCounts(ctx context.Context) (map[audit.Kind]int, error)
	RecentEvents(ctx context.Context, kind audit.Kind, limit int) ([]audit.Event, error)
	LatestEvent(ctx context.Context, kind audit.Kind) (*audit.Event, error)
	Events(ctx context.Context, filter store.EventFilter) ([]audit.Event, error)
}

// ReportService exposes read-only report operations returning API DTOs.
type ReportService struct {
	store ReportReader
}

// NewReportService constructs a ReportService around the provided reader.
func NewReportService(reader ReportReader) *ReportService {
	if reader == nil {
		return nil
	}
	return &ReportService{store: reader}
}

// reportGroups lists the anomaly histories shown by Report, in display order.
var reportGroups = []struct {
	kind  audit.Kind
	title string
}{
	{audit.KindScanMissingPages, "Skipped pages"},
	{audit.KindScanOtherLot, "Pages from another batch"},
	{audit.KindScanNotFound, "Unknown codes"},
	{audit.KindScanAmbiguousCode, "Codes in several documents"},
	{audit.KindResolutionAlreadyScanned, "Duplicate classifications"},
	{audit.KindResolutionOtherLot, "Other batch classifications"},
}

// Summary returns overall progress and the pages matching filter.
func (s *ReportService) Summary(ctx context.Context, filter store.StatusFilter) (Summary, error) {
	if s == nil || s.store == nil {
		return Summary{}, nil
	}
	if filter == "" {
		filter = store.FilterAll
	}
	docs, err := s.store.ListDocuments(ctx)
	if err != nil {
		return Summary{}, err
	}
	pages, err := s.store.PageStatuses(ctx, filter)
	if err != nil {
		return Summary{}, err
	}

	var totals store.Totals
	documents := make([]Document, 0, len(docs))
	for _, doc := range docs {
		totals.Documents++
		totals.Pages += doc.Pages
		totals.ScannedPages += doc.ScannedPages
		totals.Codes += doc.Codes
		totals.ScannedCodes += doc.ScannedCodes
		documents = append(documents, FromDocumentSummary(doc))
	}
	return Summary{
		Filter:    string(filter),
		Totals:    FromTotals(totals),
		Documents: documents,
		Pages:     FromPageStatuses(pages),
	}, nil
}

// Report returns the latest extraction, scan counts, and anomaly histories.
func (s *ReportService) Report(ctx context.Context) (Report, error) {
	if s == nil || s.store == nil {
		return Report{}, nil
	}
	latest, err := s.store.LatestEvent(ctx, audit.KindExtractSummary)
	if err != nil {
		return Report{}, err
	}
	counts, err := s.store.EventCounts(ctx)
	if err != nil {
		return Report{}, err
	}
	report := Report{
		LatestExtraction: FromExtractEvent(latest),
		Counts:           SortedCounts(counts),
		Recent:           make([]EventGroup, 0, len(reportGroups)),
	}
	for _, group := range reportGroups {
		events, err := s.store.RecentEvents(ctx, group.kind, RecentLimit)
		if err != nil {
			return Report{}, err
		}
		report.Recent = append(report.Recent, EventGroup{
			Kind:   string(group.kind),
			Title:  group.title,
			Events: FromEvents(events),
		})
	}
	return report, nil
}

// Page returns the codes of one page, or nil when the document is unknown.
func (s *ReportService) Page(ctx context.Context, documentID int64, page int) (*PageDetail, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	doc, err := s.store.Document(ctx, documentID)
	if err != nil || doc == nil {
		return nil, err
	}
	codes, err := s.store.PageCodes(ctx, documentID, page)
	if err != nil {
		return nil, err
	}
	detail := &PageDetail{
		Document: FromDocumentSummary(store.DocumentSummary{Document: *doc}),
		Page:     page,
		Scanned:  len(codes) > 0,
		Codes:    make([]PageCode, 0, len(codes)),
	}
	for _, code := range codes {
		dto := PageCode{Code: code.Code, Scanned: code.Scanned}
		if code.ScannedAt != nil {
			dto.ScannedAt = code.ScannedAt.UTC().Format(dateTimeFormat)
		}
		if !code.Scanned {
			detail.Scanned = false
		}
		detail.Codes = append(detail.Codes, dto)
	}
	return detail, nil
}

// Events lists events, newest first when kind is set, otherwise in insertion
// order after afterID.
func (s *ReportService) Events(ctx context.Context, kind string, afterID int64, limit int) ([]Event, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	if kind != "" {
		k, err := audit.ParseKind(kind)
		if err != nil {
			return nil, err
		}
		events, err := s.store.RecentEvents(ctx, k, limit)
		if err != nil {
			return nil, fmt.Errorf("recent %s events: %w", k, err)
		}
		return FromEvents(events), nil
	}
	events, err := s.store.Events(ctx, store.EventFilter{AfterID: afterID, Limit: limit})
	if err != nil {
		return nil, err
	}
	return FromEvents(events), nil
}
