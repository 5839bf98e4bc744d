package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"pagecheck/internal/audit"
	"pagecheck/internal/config"
	"pagecheck/internal/logging"
	"pagecheck/internal/store"
)

// MetaSignatureKey holds the signature of the most recently indexed document.
const MetaSignatureKey = "pdf_signature"

// ErrIndexLocked reports another process holding the index lock.
var ErrIndexLocked = errors.New("index lock held by another process")

// ProgressFunc reports indexing progress for one document.
type ProgressFunc func(document string, processed, total int)

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	Extractor Extractor
	Logger    *slog.Logger
	Progress  ProgressFunc
	// LockWait bounds how long Load waits for the index lock.
	LockWait time.Duration
}

// Loader indexes documents into the store.
type Loader struct {
	store     *store.Store
	extractor Extractor
	matcher   *CodeMatcher
	useCache  bool
	lock      *flock.Flock
	lockWait  time.Duration
	logger    *slog.Logger
	progress  ProgressFunc
}

// LoadResult describes one Load call.
type LoadResult struct {
	Document store.Document
	Summary  audit.ExtractSummary
	// Reused is true when the stored entries were kept as they were.
	Reused bool
}

// NewLoader builds a loader from configuration.
func NewLoader(st *store.Store, cfg *config.Config, opts LoaderOptions) (*Loader, error) {
	if st == nil || cfg == nil {
		return nil, errors.New("index: store and config are required")
	}
	matcher, err := NewCodeMatcher(cfg.Index.CodePattern)
	if err != nil {
		return nil, err
	}
	extractor := opts.Extractor
	if extractor == nil {
		extractor = PDFExtractor{}
	}
	lockWait := opts.LockWait
	if lockWait <= 0 {
		lockWait = 5 * time.Second
	}
	return &Loader{
		store:     st,
		extractor: extractor,
		matcher:   matcher,
		useCache:  cfg.Index.UseCache,
		lock:      flock.New(cfg.IndexLockPath()),
		lockWait:  lockWait,
		logger:    logging.NewComponentLogger(opts.Logger, "index"),
		progress:  opts.Progress,
	}, nil
}

// LoadAll indexes each path in order and stops at the first failure.
func (l *Loader) LoadAll(ctx context.Context, paths []string) ([]LoadResult, error) {
	results := make([]LoadResult, 0, len(paths))
	for _, path := range paths {
		result, err := l.Load(ctx, path)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// Load indexes one document, reusing stored entries when its signature is
// unchanged and caching is enabled.
func (l *Loader) Load(ctx context.Context, path string) (LoadResult, error) {
	if err := l.acquire(ctx); err != nil {
		return LoadResult{}, err
	}
	defer func() {
		if err := l.lock.Unlock(); err != nil {
			l.logger.Warn("failed to release index lock", logging.Error(err))
		}
	}()

	sig, err := SignatureOf(path)
	if err != nil {
		return LoadResult{}, err
	}
	name := filepath.Base(sig.Path)

	if l.useCache {
		result, reused, err := l.reuse(ctx, sig)
		if err != nil {
			return LoadResult{}, err
		}
		if reused {
			l.logger.Info("index reused",
				logging.String(logging.FieldDocument, name),
				logging.Int("codes", result.Summary.CodesFound),
			)
			return result, nil
		}
	}

	pages := make(map[int][]string)
	summary := audit.ExtractSummary{Document: name, Path: sig.Path}
	err = l.extractor.ExtractPages(ctx, sig.Path, func(page, total int, text string) error {
		summary.TotalPages = total
		summary.PagesProcessed++
		if codes := l.matcher.Codes(text); len(codes) > 0 {
			pages[page] = codes
			summary.CodesFound += len(codes)
		}
		if l.progress != nil {
			l.progress(name, summary.PagesProcessed, total)
		}
		return nil
	})
	if err != nil {
		return LoadResult{}, fmt.Errorf("extract %s: %w", name, err)
	}

	doc := store.Document{Name: name, Path: sig.Path, Size: sig.Size, ModTime: sig.ModTime, Signature: sig.String()}
	err = l.store.Update(ctx, func(tx *store.Tx) error {
		if err := tx.UpsertDocument(ctx, &doc); err != nil {
			return err
		}
		if _, err := tx.DeletePages(ctx, doc.ID); err != nil {
			return err
		}
		inserted := 0
		for _, page := range sortedPages(pages) {
			n, err := tx.InsertPageCodes(ctx, doc.ID, page, pages[page])
			if err != nil {
				return err
			}
			inserted += n
		}
		summary.DocumentID = doc.ID
		summary.Inserted = inserted
		summary.Duplicates = summary.CodesFound - inserted
		if err := tx.SetMeta(ctx, MetaSignatureKey, doc.Signature); err != nil {
			return err
		}
		event := audit.Event{
			Kind:   audit.KindExtractSummary,
			Detail: audit.Detail{DocumentID: doc.ID, DocumentName: name, Extract: &summary},
		}
		return tx.AppendEvent(ctx, &event)
	})
	if err != nil {
		return LoadResult{}, fmt.Errorf("store index for %s: %w", name, err)
	}

	l.logger.Info("document indexed",
		logging.String(logging.FieldDocument, name),
		logging.Int64(logging.FieldDocumentID, doc.ID),
		logging.Int("pages", summary.TotalPages),
		logging.Int("codes", summary.Inserted),
		logging.Int("duplicates", summary.Duplicates),
	)
	if summary.Duplicates > 0 {
		logging.WarnWithContext(l.logger, "duplicate codes collapsed", "index_duplicates",
			logging.String(logging.FieldDocument, name),
			logging.Int("duplicates", summary.Duplicates),
			logging.String(logging.FieldErrorHint, "a code printed on several pages keeps its first page"),
		)
	}
	return LoadResult{Document: doc, Summary: summary}, nil
}

func (l *Loader) reuse(ctx context.Context, sig Signature) (LoadResult, bool, error) {
	var (
		result LoadResult
		reused bool
	)
	err := l.store.Update(ctx, func(tx *store.Tx) error {
		doc, err := tx.DocumentByPath(ctx, sig.Path)
		if err != nil || doc == nil {
			return err
		}
		stored, err := ParseSignature(doc.Signature)
		if err != nil || !stored.Equal(sig) {
			return nil
		}
		pages, err := tx.CountPages(ctx, doc.ID)
		if err != nil || pages == 0 {
			return err
		}
		codes, err := tx.CountCodes(ctx, doc.ID)
		if err != nil {
			return err
		}
		if err := tx.SetMeta(ctx, MetaSignatureKey, doc.Signature); err != nil {
			return err
		}
		reused = true
		result = LoadResult{
			Document: *doc,
			Reused:   true,
			Summary: audit.ExtractSummary{
				DocumentID:     doc.ID,
				Document:       doc.Name,
				Path:           doc.Path,
				PagesProcessed: pages,
				CodesFound:     codes,
				Inserted:       codes,
				Cached:         true,
			},
		}
		return nil
	})
	if err != nil {
		return LoadResult{}, false, fmt.Errorf("check index cache: %w", err)
	}
	return result, reused, nil
}

func (l *Loader) acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.lockWait)
	defer cancel()
	locked, err := l.lock.TryLockContext(waitCtx, 50*time.Millisecond)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("acquire index lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrIndexLocked, l.lock.Path())
	}
	return nil
}

func sortedPages(pages map[int][]string) []int {
	out := make([]int, 0, len(pages))
	for page := range pages {
		out = append(out, page)
	}
	sort.Ints(out)
	return out
}

// ListPDFs returns the .pdf files directly inside dir, sorted by name
// case-insensitively.
func ListPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read documents dir: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Slice(paths, func(i, j int) bool {
		return strings.ToLower(filepath.Base(paths[i])) < strings.ToLower(filepath.Base(paths[j]))
	})
	return paths, nil
}
