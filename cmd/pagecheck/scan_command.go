package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pagecheck/internal/api"
	"pagecheck/internal/audit"
	"pagecheck/internal/config"
	"pagecheck/internal/store"
	"pagecheck/internal/verify"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var (
		startPage int
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "scan <code>...",
		Short: "Submit one or more codes and print each outcome",
		Long: `Submit codes in order through a fresh engine. Start pages live only for
the duration of the command, so a batch should be passed in one invocation.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				engine, err := ctx.newEngine(cfg, st, logger, startPage)
				if err != nil {
					return err
				}
				envelopes := make([]verify.Envelope, 0, len(args))
				out := cmd.OutOrStdout()
				for _, code := range args {
					result, err := engine.Submit(cmd.Context(), code)
					if err != nil {
						return err
					}
					if jsonOut {
						envelopes = append(envelopes, verify.EnvelopeOf(result))
						continue
					}
					fmt.Fprintln(out, renderStatusLine(code, scanStatus(result), result.Message(), shouldColorize(out)))
				}
				if jsonOut {
					return writeJSON(cmd, envelopes)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&startPage, "start-page", 0, "Start page for the first document scanned")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output results as JSON")
	return cmd
}

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var (
		errorType  string
		resolution string
		page       int
		document   string
		note       string
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "classify <code>",
		Short: "Record a manual classification for a rejected scan",
		Long: `Record why a duplicate or out-of-batch scan happened. Resolutions are
false_duplicate, discarded_page and other; any of them may carry a note.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			et, err := audit.ParseErrorType(errorType)
			if err != nil {
				return err
			}
			res, err := audit.ParseResolution(resolution)
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				engine, err := ctx.newEngine(cfg, st, logger, 0)
				if err != nil {
					return err
				}
				event, err := engine.Classify(cmd.Context(), verify.Classification{
					ErrorType:    et,
					Resolution:   res,
					Code:         args[0],
					Page:         page,
					DocumentName: strings.TrimSpace(document),
					Note:         note,
				})
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, api.FromEvent(event))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s as %s (event %d)\n", event.Kind, res.Label(), event.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&errorType, "error-type", "", "Anomaly type: already_scanned or other_lot")
	cmd.Flags().StringVar(&resolution, "resolution", "", "Resolution: false_duplicate, discarded_page or other")
	cmd.Flags().IntVar(&page, "page", 0, "Page number, when known")
	cmd.Flags().StringVar(&document, "document", "", "Document name, when known")
	cmd.Flags().StringVar(&note, "note", "", "Free-form note")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the recorded event as JSON")
	_ = cmd.MarkFlagRequired("error-type")
	_ = cmd.MarkFlagRequired("resolution")
	return cmd
}

func newResetCommand(ctx *commandContext) *cobra.Command {
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Administrative resets",
	}

	resetCmd.AddCommand(&cobra.Command{
		Use:   "scans",
		Short: "Clear every verified page and record the reset",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				engine, err := ctx.newEngine(cfg, st, logger, 0)
				if err != nil {
					return err
				}
				count, err := engine.ResetAllScans(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d verified entries\n", count)
				return nil
			})
		},
	})

	resetCmd.AddCommand(&cobra.Command{
		Use:   "anchor",
		Short: "Record a start page reset",
		Long: `Start pages are held by the running console. This command records a
reset_anchor event for the audit trail; use 'reset' inside the console to clear
the live start pages.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				engine, err := ctx.newEngine(cfg, st, logger, 0)
				if err != nil {
					return err
				}
				if err := engine.ResetAnchor(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Start pages cleared")
				return nil
			})
		},
	})

	return resetCmd
}
