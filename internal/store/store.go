package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	_ "modernc.org/sqlite"

	"pagecheck/internal/config"
)

// ErrStoreBusy reports write contention that outlasted the bounded wait. The
// caller may resubmit the whole operation.
var ErrStoreBusy = errors.New("store busy")

// Store manages scan state persistence backed by SQLite.
type Store struct {
	db    *sql.DB
	path  string
	retry retryPolicy
	now   func() time.Time
}

type retryPolicy struct {
	attempts uint
	initial  time.Duration
	max      time.Duration
}

const sqliteBusyCode = 5

// Open initializes or connects to the database at cfg.DatabasePath.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dataSourceName(dbPath, cfg.BusyTimeout()))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	initial, maxDelay := cfg.BusyRetryDelays()
	attempts := cfg.Store.BusyRetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	store := &Store{
		db:   db,
		path: dbPath,
		retry: retryPolicy{
			attempts: uint(attempts),
			initial:  initial,
			max:      maxDelay,
		},
		now: func() time.Time { return time.Now().UTC() },
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// dataSourceName carries the pragmas in the DSN so every pooled connection gets
// them, and asks the driver to BEGIN IMMEDIATE for every transaction.
func dataSourceName(path string, busyTimeout time.Duration) string {
	return fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_txlock=immediate",
		path, busyTimeout.Milliseconds(),
	)
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Update runs fn inside one write transaction. Either every statement fn
// issues is committed or none is. SQLITE_BUSY failures retry the whole
// transaction with backoff and end in ErrStoreBusy.
func (s *Store) Update(ctx context.Context, fn func(*Tx) error) error {
	ctx = ensureContext(ctx)
	err := retry.Do(
		func() error {
			return s.runTx(ctx, fn)
		},
		retry.Context(ctx),
		retry.Attempts(s.retry.attempts),
		retry.Delay(s.retry.initial),
		retry.MaxDelay(s.retry.max),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(isSQLiteBusy),
		retry.LastErrorOnly(true),
	)
	if err != nil && isSQLiteBusy(err) {
		return fmt.Errorf("%w: %v", ErrStoreBusy, err)
	}
	return err
}

func (s *Store) runTx(ctx context.Context, fn func(*Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	tx := &Tx{tx: sqlTx, now: s.now}
	if err := fn(tx); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		_ = sqlTx.Rollback()
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
