package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"pagecheck/internal/audit"
	"pagecheck/internal/logging"
	"pagecheck/internal/store"
	"pagecheck/internal/verify"
)

// Mode selects how anomalies are handled.
type Mode string

const (
	// ModeSequence prompts for a classification after each duplicate or
	// out-of-batch rejection.
	ModeSequence Mode = "sequence"
	// ModeVerification only reports outcomes.
	ModeVerification Mode = "verification"
)

// ParseMode validates a console mode name.
func ParseMode(value string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(value))); m {
	case "":
		return ModeSequence, nil
	case ModeSequence, ModeVerification:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown console mode %q", audit.ErrInvalidArgument, value)
}

// Engine is the verification surface driven by the console.
type Engine interface {
	Submit(ctx context.Context, code string) (verify.Result, error)
	Classify(ctx context.Context, c verify.Classification) (audit.Event, error)
	ResetAnchor(ctx context.Context) error
	ResetAllScans(ctx context.Context) (int64, error)
	Anchor(documentID int64) (int, bool)
	AnchoredDocuments() []int64
	DefaultAnchor() (int, bool)
}

// DocumentLookup resolves document names for the status command.
type DocumentLookup interface {
	Document(ctx context.Context, id int64) (*store.Document, error)
}

// Options configures a Console.
type Options struct {
	Mode      Mode
	In        io.Reader
	Out       io.Writer
	Colorize  bool
	Documents DocumentLookup
	Logger    *slog.Logger
}

// Console reads scans and commands line by line.
type Console struct {
	engine   Engine
	mode     Mode
	in       *bufio.Scanner
	out      io.Writer
	colorize bool
	docs     DocumentLookup
	logger   *slog.Logger
}

// New builds a console around engine.
func New(engine Engine, opts Options) (*Console, error) {
	if engine == nil {
		return nil, errors.New("console: engine is required")
	}
	if opts.In == nil || opts.Out == nil {
		return nil, errors.New("console: input and output are required")
	}
	mode := opts.Mode
	if mode == "" {
		mode = ModeSequence
	}
	return &Console{
		engine:   engine,
		mode:     mode,
		in:       bufio.NewScanner(opts.In),
		out:      opts.Out,
		colorize: opts.Colorize,
		docs:     opts.Documents,
		logger:   logging.NewComponentLogger(opts.Logger, "console"),
	}, nil
}

const banner = `=== PAGE CHECK ===
Scan a code or type 'exit'
Commands: 'reset' clears batch start pages
Commands: 'reset-scan' clears every verified page
Commands: 'status' shows the current batch start pages
Commands: 'beep' tests the terminal bell`

// Run processes input until exit, end of input, or context cancellation.
// Store failures are reported and the loop continues.
func (c *Console) Run(ctx context.Context) error {
	c.println(banner)
	c.println(fmt.Sprintf("Mode: %s", c.mode))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, ok := c.prompt("> ")
		if !ok {
			return c.in.Err()
		}
		if line == "" {
			continue
		}
		done, err := c.handle(ctx, line)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			c.reportFailure(err)
		}
		if done {
			return nil
		}
	}
}

func (c *Console) handle(ctx context.Context, line string) (bool, error) {
	switch strings.ToLower(line) {
	case "exit", "quit":
		return true, nil
	case "reset":
		if err := c.engine.ResetAnchor(ctx); err != nil {
			return false, err
		}
		c.println("Batch start pages cleared")
		return false, nil
	case "reset-scan":
		count, err := c.engine.ResetAllScans(ctx)
		if err != nil {
			return false, err
		}
		c.println(fmt.Sprintf("Cleared %d verified entries", count))
		return false, nil
	case "status":
		c.printStatus(ctx)
		return false, nil
	case "beep":
		c.beep()
		c.println("Beep sent")
		return false, nil
	case "help":
		c.println(banner)
		return false, nil
	}
	return false, c.scan(ctx, line)
}

func (c *Console) scan(ctx context.Context, code string) error {
	result, err := c.engine.Submit(ctx, code)
	if err != nil {
		return err
	}
	if result.Outcome() == verify.OutcomeOK {
		c.println(renderLine(lineOK, result.Message(), c.colorize))
		return nil
	}
	c.println(renderLine(lineError, result.Message(), c.colorize))
	c.beep()

	anomaly, ok := verify.AsAnomaly(result)
	if !ok || c.mode != ModeSequence {
		return nil
	}
	return c.askResolution(ctx, anomaly)
}

var resolutionChoices = map[string]audit.Resolution{
	"1": audit.ResolutionFalseDuplicate,
	"2": audit.ResolutionDiscardedPage,
	"3": audit.ResolutionOther,
}

func (c *Console) askResolution(ctx context.Context, anomaly verify.Anomaly) error {
	c.println("Classify this case:")
	for _, key := range []string{"1", "2", "3"} {
		c.println(fmt.Sprintf("%s. %s", key, resolutionChoices[key].Label()))
	}
	choice, ok := c.prompt("Option (1-3, Enter to skip): ")
	if !ok || choice == "" {
		return nil
	}
	resolution, known := resolutionChoices[choice]
	if !known {
		c.println("Invalid option, classification skipped")
		return nil
	}
	var note string
	if resolution == audit.ResolutionOther {
		note, _ = c.prompt("Describe the case: ")
	}
	if _, err := c.engine.Classify(ctx, anomaly.Classify(resolution, note)); err != nil {
		return err
	}
	c.println("Classification saved")
	return nil
}

func (c *Console) printStatus(ctx context.Context) {
	if page, ok := c.engine.DefaultAnchor(); ok {
		c.println(fmt.Sprintf("Queued start page: %d", page))
	}
	ids := c.engine.AnchoredDocuments()
	if len(ids) == 0 {
		c.println("Current start: (not set)")
		return
	}
	c.println("Current start per document:")
	for _, id := range ids {
		page, ok := c.engine.Anchor(id)
		if !ok {
			continue
		}
		c.println(fmt.Sprintf("  %s: page %d", c.documentName(ctx, id), page))
	}
}

func (c *Console) documentName(ctx context.Context, id int64) string {
	fallback := fmt.Sprintf("document %d", id)
	if c.docs == nil {
		return fallback
	}
	doc, err := c.docs.Document(ctx, id)
	if err != nil || doc == nil {
		return fallback
	}
	return doc.Name
}

func (c *Console) reportFailure(err error) {
	message := err.Error()
	if errors.Is(err, store.ErrStoreBusy) {
		message = "database is busy, close other instances and scan again"
	}
	c.println(renderLine(lineWarn, message, c.colorize))
	logging.ErrorWithContext(c.logger, "console command failed", "console_command_failed",
		logging.Error(err),
		logging.Bool("retryable", errors.Is(err, store.ErrStoreBusy)),
	)
}

func (c *Console) prompt(label string) (string, bool) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *Console) beep() {
	fmt.Fprint(c.out, "\a")
}

func (c *Console) println(line string) {
	fmt.Fprintln(c.out, line)
}
