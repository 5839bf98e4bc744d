package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"pagecheck/internal/audit"
	"pagecheck/internal/logging"
	"pagecheck/internal/sequence"
	"pagecheck/internal/store"
)

// Options configures an Engine.
type Options struct {
	// DefaultAnchor is queued for the first document that needs an anchor.
	DefaultAnchor int
	// SessionID tags every event this engine writes. Generated when empty.
	SessionID string
	Logger    *slog.Logger
	Now       func() time.Time
}

// Engine owns the anchors of one scan session and serializes its calls.
type Engine struct {
	mu        sync.Mutex
	store     *store.Store
	guard     *sequence.Guard
	sessionID string
	logger    *slog.Logger
	now       func() time.Time
	upper     cases.Caser
}

// NewEngine builds an engine over st.
func NewEngine(st *store.Store, opts Options) (*Engine, error) {
	if st == nil {
		return nil, errors.New("verify: store is required")
	}
	sessionID := strings.TrimSpace(opts.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	// The session id is attached by the root logger (logging.Options.SessionID).
	logger := logging.NewComponentLogger(opts.Logger, "verify")
	return &Engine{
		store:     st,
		guard:     sequence.NewGuard(opts.DefaultAnchor),
		sessionID: sessionID,
		logger:    logger,
		now:       now,
		upper:     cases.Upper(language.Und),
	}, nil
}

// SessionID identifies this engine in event details and logs.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// Anchors returns a copy of the per-document anchors.
func (e *Engine) Anchors() map[int64]int {
	return e.guard.Snapshot()
}

// Anchor returns the anchor of one document, if set.
func (e *Engine) Anchor(documentID int64) (int, bool) {
	return e.guard.Anchor(documentID)
}

// AnchoredDocuments lists the documents holding an anchor, ascending.
func (e *Engine) AnchoredDocuments() []int64 {
	return e.guard.Documents()
}

// DefaultAnchor returns the queued default anchor, if one is still pending.
func (e *Engine) DefaultAnchor() (int, bool) {
	return e.guard.Default()
}

// SetDefaultAnchor queues an anchor for the next document without one.
func (e *Engine) SetDefaultAnchor(page int) {
	e.guard.SetDefault(page)
}

// Submit evaluates one scanned code. Rejections are returned as Results with
// a nil error; errors are reserved for store failures such as ErrStoreBusy,
// in which case nothing was recorded and the scan may be resubmitted.
func (e *Engine) Submit(ctx context.Context, raw string) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	code := e.normalize(raw)
	var (
		result     Result
		resolution *sequence.Resolution
	)
	err := e.store.Update(ctx, func(tx *store.Tx) error {
		var err error
		result, resolution, err = e.decide(ctx, tx, code)
		if err != nil {
			return err
		}
		event := e.eventFor(result)
		return tx.AppendEvent(ctx, &event)
	})
	if err != nil {
		logging.ErrorWithContext(e.logger, "scan not recorded", "scan_store_error",
			logging.String(logging.FieldCode, code),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "resubmit the scan once the database is available"),
		)
		return nil, fmt.Errorf("submit scan %q: %w", code, err)
	}
	if resolution != nil {
		e.guard.Commit(*resolution)
	}
	e.logResult(result)
	return result, nil
}

func (e *Engine) decide(ctx context.Context, tx *store.Tx, code string) (Result, *sequence.Resolution, error) {
	if code == "" {
		return NotFound{}, nil, nil
	}
	locations, err := tx.Lookup(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	if len(locations) == 0 {
		return NotFound{Code: code}, nil, nil
	}
	if names := documentNames(locations); len(names) > 1 {
		return AmbiguousCode{Code: code, Documents: names}, nil, nil
	}

	loc := locations[0]
	if loc.Scanned {
		return AlreadyScanned{Code: code, DocumentID: loc.DocumentID, DocumentName: loc.DocumentName, Page: loc.Page}, nil, nil
	}

	res := e.guard.Resolve(loc.DocumentID, loc.Page)
	if sequence.Behind(loc.Page, res.Anchor) {
		return OtherLot{Code: code, DocumentID: loc.DocumentID, DocumentName: loc.DocumentName, Page: loc.Page, Anchor: res.Anchor}, &res, nil
	}

	gaps, err := sequence.FindGaps(ctx, tx, loc.DocumentID, res.Anchor, loc.Page)
	if err != nil {
		return nil, nil, err
	}
	if len(gaps) > 0 {
		return MissingPages{
			Code:         code,
			DocumentID:   loc.DocumentID,
			DocumentName: loc.DocumentName,
			Page:         loc.Page,
			Anchor:       res.Anchor,
			Missing:      sequence.Summarize(gaps),
		}, &res, nil
	}

	if _, err := tx.MarkPageScanned(ctx, loc.DocumentID, loc.Page); err != nil {
		return nil, nil, err
	}
	return Accepted{Code: code, DocumentID: loc.DocumentID, DocumentName: loc.DocumentName, Page: loc.Page, Anchor: res.Anchor}, &res, nil
}

// documentNames lists the distinct documents of a lookup, sorted by name.
func documentNames(locations []store.Location) []string {
	seen := make(map[int64]struct{}, len(locations))
	names := make([]string, 0, len(locations))
	for _, loc := range locations {
		if _, ok := seen[loc.DocumentID]; ok {
			continue
		}
		seen[loc.DocumentID] = struct{}{}
		names = append(names, loc.DocumentName)
	}
	sort.Strings(names)
	return names
}

func (e *Engine) eventFor(result Result) audit.Event {
	event := audit.Event{
		Timestamp: e.now(),
		Kind:      result.eventKind(),
		Code:      result.ScannedCode(),
		Detail:    audit.Detail{SessionID: e.sessionID},
	}
	switch r := result.(type) {
	case AmbiguousCode:
		event.Detail.Documents = r.Documents
	case AlreadyScanned:
		event.Page = audit.PageValue(r.Page)
		event.Detail.DocumentID = r.DocumentID
		event.Detail.DocumentName = r.DocumentName
	case OtherLot:
		event.Page = audit.PageValue(r.Page)
		event.Detail.DocumentID = r.DocumentID
		event.Detail.DocumentName = r.DocumentName
		event.Detail.Anchor = r.Anchor
	case MissingPages:
		event.Page = audit.PageValue(r.Page)
		event.Detail.DocumentID = r.DocumentID
		event.Detail.DocumentName = r.DocumentName
		event.Detail.Anchor = r.Anchor
		event.Detail.MissingPages = r.Missing.All
	case Accepted:
		event.Page = audit.PageValue(r.Page)
		event.Detail.DocumentID = r.DocumentID
		event.Detail.DocumentName = r.DocumentName
		event.Detail.Anchor = r.Anchor
	}
	return event
}

func (e *Engine) logResult(result Result) {
	attrs := []logging.Attr{logging.String(logging.FieldCode, result.ScannedCode())}
	if env := EnvelopeOf(result); env.Page != nil {
		attrs = append(attrs,
			logging.Int(logging.FieldPage, *env.Page),
			logging.String(logging.FieldDocument, env.DocumentName),
		)
	}
	if result.Outcome() == OutcomeOK {
		e.logger.Info(result.Message(), logging.Args(attrs...)...)
		return
	}
	attrs = append(attrs,
		logging.String(logging.FieldErrorHint, hintFor(result.Outcome())),
		logging.String(logging.FieldImpact, "page not confirmed"),
	)
	logging.WarnWithContext(e.logger, result.Message(), string(result.eventKind()), attrs...)
}

func hintFor(outcome Outcome) string {
	switch outcome {
	case OutcomeNotFound:
		return "check the code or load the document that carries it"
	case OutcomeAmbiguousCode:
		return "reconcile the documents manually; the engine does not pick one"
	case OutcomeAlreadyScanned, OutcomeOtherLot:
		return "classify the anomaly if it is expected"
	case OutcomeMissingPages:
		return "scan the listed pages first"
	default:
		return "check logs for details"
	}
}

func (e *Engine) normalize(raw string) string {
	return e.upper.String(strings.TrimSpace(raw))
}
