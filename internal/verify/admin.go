package verify

import (
	"context"
	"fmt"

	"pagecheck/internal/audit"
	"pagecheck/internal/logging"
	"pagecheck/internal/store"
)

// ResetAnchor clears every per-document anchor. Scan state is untouched; a
// reset_anchor event records the anchors that were dropped.
func (e *Engine) ResetAnchor(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	dropped := e.Anchors()
	err := e.store.Update(ctx, func(tx *store.Tx) error {
		event := audit.Event{
			Timestamp: e.now(),
			Kind:      audit.KindResetAnchor,
			Detail:    audit.Detail{SessionID: e.sessionID, Anchors: dropped},
		}
		return tx.AppendEvent(ctx, &event)
	})
	if err != nil {
		return fmt.Errorf("reset anchors: %w", err)
	}
	e.guard.Reset()
	e.logger.Info("anchors reset",
		logging.String(logging.FieldEventType, string(audit.KindResetAnchor)),
		logging.Int("documents", len(dropped)),
	)
	return nil
}

// ResetAllScans clears every scanned flag and every anchor and writes one
// reset_scans event. It returns the number of entries that were cleared.
func (e *Engine) ResetAllScans(ctx context.Context) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	dropped := e.Anchors()
	var cleared int64
	err := e.store.Update(ctx, func(tx *store.Tx) error {
		n, err := tx.ResetScans(ctx)
		if err != nil {
			return err
		}
		cleared = n
		event := audit.Event{
			Timestamp: e.now(),
			Kind:      audit.KindResetScans,
			Detail:    audit.Detail{SessionID: e.sessionID, Anchors: dropped, ResetPages: n},
		}
		return tx.AppendEvent(ctx, &event)
	})
	if err != nil {
		return 0, fmt.Errorf("reset scans: %w", err)
	}
	e.guard.Reset()
	logging.WarnWithContext(e.logger, "all scans reset", string(audit.KindResetScans),
		logging.Int64("entries", cleared),
		logging.String(logging.FieldErrorHint, "scanning restarts from the first page scanned"),
		logging.String(logging.FieldImpact, "every page is pending again"),
	)
	return cleared, nil
}
