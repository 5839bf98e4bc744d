package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pagecheck/internal/audit"
)

// Document fetches a document by identifier, or nil.
func (s *Store) Document(ctx context.Context, id int64) (*Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns every document with its scan progress, ordered by name.
func (s *Store) ListDocuments(ctx context.Context) ([]DocumentSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+prefixed("d.", documentColumns)+`,
                COALESCE(pg.pages, 0), COALESCE(pg.scanned_pages, 0),
                COALESCE(pg.codes, 0), COALESCE(pg.scanned_codes, 0)
         FROM documents d
         LEFT JOIN (
             SELECT document_id,
                    COUNT(*) AS pages,
                    SUM(CASE WHEN scanned_codes = codes THEN 1 ELSE 0 END) AS scanned_pages,
                    SUM(codes) AS codes,
                    SUM(scanned_codes) AS scanned_codes
             FROM (
                 SELECT document_id, page, COUNT(*) AS codes, SUM(scanned) AS scanned_codes
                 FROM pages GROUP BY document_id, page
             ) GROUP BY document_id
         ) pg ON pg.document_id = d.id
         ORDER BY d.name, d.id`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var summaries []DocumentSummary
	for rows.Next() {
		var (
			summary DocumentSummary
			extra   [4]int
		)
		doc, err := scanDocument(multiScanner{rows: rows, extra: []any{&extra[0], &extra[1], &extra[2], &extra[3]}})
		if err != nil {
			return nil, fmt.Errorf("scan document summary: %w", err)
		}
		summary.Document = *doc
		summary.Pages, summary.ScannedPages, summary.Codes, summary.ScannedCodes = extra[0], extra[1], extra[2], extra[3]
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// PageStatuses lists every page of every document matching filter.
func (s *Store) PageStatuses(ctx context.Context, filter StatusFilter) ([]PageStatus, error) {
	having := ""
	switch filter {
	case FilterPending:
		having = " HAVING SUM(p.scanned) < COUNT(*)"
	case FilterScanned:
		having = " HAVING SUM(p.scanned) = COUNT(*)"
	case FilterAll, "":
	default:
		return nil, fmt.Errorf("unknown status filter %q", filter)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.document_id, d.name, p.page, COUNT(*), SUM(p.scanned)
         FROM pages p JOIN documents d ON d.id = p.document_id
         GROUP BY p.document_id, p.page`+having+`
         ORDER BY d.name, p.document_id, p.page`)
	if err != nil {
		return nil, fmt.Errorf("page statuses: %w", err)
	}
	defer rows.Close()

	var statuses []PageStatus
	for rows.Next() {
		var status PageStatus
		if err := rows.Scan(&status.DocumentID, &status.DocumentName, &status.Page, &status.Codes, &status.ScannedCodes); err != nil {
			return nil, fmt.Errorf("scan page status: %w", err)
		}
		statuses = append(statuses, status)
	}
	return statuses, rows.Err()
}

// PageCodes returns the entries of one page.
func (s *Store) PageCodes(ctx context.Context, documentID int64, page int) ([]PageCode, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT document_id, page, code, scanned, scanned_at FROM pages
         WHERE document_id = ? AND page = ? ORDER BY code`,
		documentID, page,
	)
	if err != nil {
		return nil, fmt.Errorf("page codes: %w", err)
	}
	defer rows.Close()

	var codes []PageCode
	for rows.Next() {
		var (
			pc        PageCode
			scanned   int
			scannedAt sql.NullString
		)
		if err := rows.Scan(&pc.DocumentID, &pc.Page, &pc.Code, &scanned, &scannedAt); err != nil {
			return nil, fmt.Errorf("scan page code: %w", err)
		}
		pc.Scanned = scanned != 0
		if scannedAt.Valid {
			if ts, err := parseTimeString(scannedAt.String); err == nil {
				pc.ScannedAt = &ts
			}
		}
		codes = append(codes, pc)
	}
	return codes, rows.Err()
}

// Totals aggregates progress across all documents.
func (s *Store) Totals(ctx context.Context) (Totals, error) {
	summaries, err := s.ListDocuments(ctx)
	if err != nil {
		return Totals{}, err
	}
	totals := Totals{Documents: len(summaries)}
	for _, summary := range summaries {
		totals.Pages += summary.Pages
		totals.ScannedPages += summary.ScannedPages
		totals.Codes += summary.Codes
		totals.ScannedCodes += summary.ScannedCodes
	}
	return totals, nil
}

// EventCounts counts scan_* events by kind.
func (s *Store) EventCounts(ctx context.Context) (map[audit.Kind]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, COUNT(1) FROM events WHERE kind LIKE 'scan\_%' ESCAPE '\' GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("event counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[audit.Kind]int)
	for rows.Next() {
		var (
			kind  string
			count int
		)
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}
		counts[audit.Kind(kind)] = count
	}
	return counts, rows.Err()
}

// RecentEvents returns up to limit events of kind, newest first.
func (s *Store) RecentEvents(ctx context.Context, kind audit.Kind, limit int) ([]audit.Event, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE kind = ? ORDER BY id DESC LIMIT ?`,
		string(kind), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent events: %w", err)
	}
	return collectEvents(rows)
}

// LatestEvent returns the newest event of kind, or nil.
func (s *Store) LatestEvent(ctx context.Context, kind audit.Kind) (*audit.Event, error) {
	events, err := s.RecentEvents(ctx, kind, 1)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}
	return &events[0], nil
}

// Events lists events in insertion order.
func (s *Store) Events(ctx context.Context, filter EventFilter) ([]audit.Event, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.AfterID > 0 {
		clauses = append(clauses, "id > ?")
		args = append(args, filter.AfterID)
	}
	if len(filter.Kinds) > 0 {
		clauses = append(clauses, "kind IN ("+makePlaceholders(len(filter.Kinds))+")")
		for _, kind := range filter.Kinds {
			args = append(args, string(kind))
		}
	}
	query := `SELECT ` + eventColumns + ` FROM events`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]audit.Event, error) {
	defer rows.Close()
	var events []audit.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// multiScanner lets scanDocument read a row that carries extra trailing columns.
type multiScanner struct {
	rows  *sql.Rows
	extra []any
}

func (m multiScanner) Scan(dest ...any) error {
	return m.rows.Scan(append(dest, m.extra...)...)
}

func prefixed(prefix, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, part := range parts {
		parts[i] = prefix + part
	}
	return strings.Join(parts, ", ")
}
