package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pagecheck/internal/audit"
)

// Tx is a write transaction handed to Update callbacks.
type Tx struct {
	tx  *sql.Tx
	now func() time.Time
}

// Lookup returns every location of code. Codes are unique per document, so
// more than one location means the code is present in several documents.
func (t *Tx) Lookup(ctx context.Context, code string) ([]Location, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT p.document_id, d.name, p.page, p.scanned
         FROM pages p JOIN documents d ON d.id = p.document_id
         WHERE p.code = ?
         ORDER BY d.name, p.document_id`,
		code,
	)
	if err != nil {
		return nil, fmt.Errorf("lookup code: %w", err)
	}
	defer rows.Close()

	var locations []Location
	for rows.Next() {
		var (
			loc     Location
			scanned int
		)
		if err := rows.Scan(&loc.DocumentID, &loc.DocumentName, &loc.Page, &scanned); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		loc.Scanned = scanned != 0
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

// MarkPageScanned confirms every entry on the page. Already scanned entries
// keep their original timestamp.
func (t *Tx) MarkPageScanned(ctx context.Context, documentID int64, page int) (int64, error) {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE pages SET scanned = 1, scanned_at = ?
         WHERE document_id = ? AND page = ? AND scanned = 0`,
		t.now().Format(time.RFC3339Nano), documentID, page,
	)
	if err != nil {
		return 0, fmt.Errorf("mark page scanned: %w", err)
	}
	return res.RowsAffected()
}

// UnscannedPagesBetween lists, ascending, the distinct pages in [from, to)
// that still have an unconfirmed entry.
func (t *Tx) UnscannedPagesBetween(ctx context.Context, documentID int64, from, to int) ([]int, error) {
	if to <= from {
		return nil, nil
	}
	rows, err := t.tx.QueryContext(ctx,
		`SELECT DISTINCT page FROM pages
         WHERE document_id = ? AND page >= ? AND page < ? AND scanned = 0
         ORDER BY page`,
		documentID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("query unscanned pages: %w", err)
	}
	defer rows.Close()

	var pages []int
	for rows.Next() {
		var page int
		if err := rows.Scan(&page); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// ResetScans clears every scanned flag and reports how many entries changed.
func (t *Tx) ResetScans(ctx context.Context) (int64, error) {
	res, err := t.tx.ExecContext(ctx, `UPDATE pages SET scanned = 0, scanned_at = NULL WHERE scanned = 1`)
	if err != nil {
		return 0, fmt.Errorf("reset scans: %w", err)
	}
	return res.RowsAffected()
}

// AppendEvent writes an event and fills in its ID and, when unset, its timestamp.
func (t *Tx) AppendEvent(ctx context.Context, event *audit.Event) error {
	if event == nil {
		return errors.New("event is nil")
	}
	if event.Kind == "" {
		return errors.New("event kind is required")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = t.now()
	}
	detail, err := audit.EncodeDetail(event.Detail)
	if err != nil {
		return fmt.Errorf("encode event detail: %w", err)
	}
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO events (ts, kind, code, page, detail) VALUES (?, ?, ?, ?, ?)`,
		event.Timestamp.UTC().Format(time.RFC3339Nano),
		string(event.Kind),
		nullableString(event.Code),
		nullablePage(event.Page),
		detail,
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	event.ID = id
	event.RawDetail = detail
	return nil
}

// DocumentByPath returns the document indexed from path, or nil.
func (t *Tx) DocumentByPath(ctx context.Context, path string) (*Document, error) {
	row := t.tx.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE path = ?`, path)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("document by path: %w", err)
	}
	return doc, nil
}

// UpsertDocument inserts or refreshes a document keyed by path and sets doc.ID.
func (t *Tx) UpsertDocument(ctx context.Context, doc *Document) error {
	if doc == nil {
		return errors.New("document is nil")
	}
	now := t.now().Format(time.RFC3339Nano)
	err := t.tx.QueryRowContext(ctx,
		`INSERT INTO documents (name, path, size, mtime, signature, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(path) DO UPDATE SET
             name = excluded.name,
             size = excluded.size,
             mtime = excluded.mtime,
             signature = excluded.signature,
             updated_at = excluded.updated_at
         RETURNING id`,
		doc.Name, doc.Path, doc.Size, nullableTime(doc.ModTime), nullableString(doc.Signature), now, now,
	).Scan(&doc.ID)
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

// DeletePages drops every entry of a document ahead of re-indexing.
func (t *Tx) DeletePages(ctx context.Context, documentID int64) (int64, error) {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM pages WHERE document_id = ?`, documentID)
	if err != nil {
		return 0, fmt.Errorf("delete pages: %w", err)
	}
	return res.RowsAffected()
}

// InsertPageCodes records the codes found on a page. A code already present
// in the document keeps its first page; the return value counts new entries.
func (t *Tx) InsertPageCodes(ctx context.Context, documentID int64, page int, codes []string) (int, error) {
	if len(codes) == 0 {
		return 0, nil
	}
	stmt, err := t.tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO pages (document_id, page, code, scanned) VALUES (?, ?, ?, 0)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert page code: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, code := range codes {
		res, err := stmt.ExecContext(ctx, documentID, page, code)
		if err != nil {
			return inserted, fmt.Errorf("insert page code: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			inserted++
		}
	}
	return inserted, nil
}

// CountPages returns how many distinct pages of a document carry codes.
func (t *Tx) CountPages(ctx context.Context, documentID int64) (int, error) {
	var count int
	err := t.tx.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT page) FROM pages WHERE document_id = ?`, documentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return count, nil
}

// CountCodes returns how many entries a document has.
func (t *Tx) CountCodes(ctx context.Context, documentID int64) (int, error) {
	var count int
	err := t.tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages WHERE document_id = ?`, documentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count codes: %w", err)
	}
	return count, nil
}

// SetMeta stores a metadata value.
func (t *Tx) SetMeta(ctx context.Context, key, value string) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set meta %s: %w", key, err)
	}
	return nil
}

// Meta returns a metadata value and whether it was present.
func (t *Tx) Meta(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := t.tx.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get meta %s: %w", key, err)
	}
	return value, true, nil
}
