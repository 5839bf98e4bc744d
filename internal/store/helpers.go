package store

import (
	"database/sql"
	"errors"
	"time"

	"pagecheck/internal/audit"
)

type rowScanner interface {
	Scan(dest ...any) error
}

const documentColumns = "id, name, path, size, mtime, signature, created_at, updated_at"

func scanDocument(scanner rowScanner) (*Document, error) {
	var (
		doc        Document
		mtimeRaw   sql.NullString
		signature  sql.NullString
		createdRaw sql.NullString
		updatedRaw sql.NullString
	)
	if err := scanner.Scan(&doc.ID, &doc.Name, &doc.Path, &doc.Size, &mtimeRaw, &signature, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	doc.Signature = signature.String
	if t, err := parseTimeString(mtimeRaw.String); err == nil {
		doc.ModTime = t
	}
	if t, err := parseTimeString(createdRaw.String); err == nil {
		doc.CreatedAt = t
	}
	if t, err := parseTimeString(updatedRaw.String); err == nil {
		doc.UpdatedAt = t
	}
	return &doc, nil
}

const eventColumns = "id, ts, kind, code, page, detail"

func scanEvent(scanner rowScanner) (audit.Event, error) {
	var (
		event  audit.Event
		tsRaw  string
		kind   string
		code   sql.NullString
		page   sql.NullInt64
		detail sql.NullString
	)
	if err := scanner.Scan(&event.ID, &tsRaw, &kind, &code, &page, &detail); err != nil {
		return audit.Event{}, err
	}
	event.Kind = audit.Kind(kind)
	event.Code = code.String
	if page.Valid {
		event.Page = audit.PageValue(int(page.Int64))
	}
	if ts, err := parseTimeString(tsRaw); err == nil {
		event.Timestamp = ts
	}
	event.RawDetail = detail.String
	if decoded, err := audit.DecodeDetail(detail.String); err == nil {
		event.Detail = decoded
	}
	return event, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func nullablePage(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
