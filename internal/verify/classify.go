package verify

import (
	"context"
	"fmt"
	"strings"

	"pagecheck/internal/audit"
	"pagecheck/internal/logging"
	"pagecheck/internal/store"
)

// Classification is a manual explanation of an anomaly. Page 0 means unknown.
type Classification struct {
	ErrorType    audit.ErrorType
	Resolution   audit.Resolution
	Code         string
	Page         int
	DocumentName string
	// Note is free text; the console only asks for one with ResolutionOther.
	Note string
}

// Validate checks the enums and the page.
func (c Classification) Validate() error {
	if _, err := audit.ParseErrorType(string(c.ErrorType)); err != nil {
		return err
	}
	if _, err := audit.ParseResolution(string(c.Resolution)); err != nil {
		return err
	}
	if c.Page < 0 {
		return fmt.Errorf("%w: page %d", audit.ErrInvalidArgument, c.Page)
	}
	return nil
}

// Classify records a resolution event for an anomaly. Scan state is never
// touched. Invalid enums fail with audit.ErrInvalidArgument before anything is
// written.
func (e *Engine) Classify(ctx context.Context, c Classification) (audit.Event, error) {
	if err := c.Validate(); err != nil {
		return audit.Event{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	event := audit.Event{
		Timestamp: e.now(),
		Kind:      c.ErrorType.ResolutionKind(),
		Code:      e.normalize(c.Code),
		Detail: audit.Detail{
			SessionID:    e.sessionID,
			DocumentName: c.DocumentName,
			ErrorType:    c.ErrorType,
			Resolution:   c.Resolution,
			Note:         strings.TrimSpace(c.Note),
		},
	}
	if c.Page > 0 {
		event.Page = audit.PageValue(c.Page)
	}
	err := e.store.Update(ctx, func(tx *store.Tx) error {
		return tx.AppendEvent(ctx, &event)
	})
	if err != nil {
		return audit.Event{}, fmt.Errorf("record resolution: %w", err)
	}
	e.logger.Info("anomaly classified",
		logging.String(logging.FieldEventType, string(event.Kind)),
		logging.String(logging.FieldCode, event.Code),
		logging.String("resolution", string(c.Resolution)),
	)
	return event, nil
}
