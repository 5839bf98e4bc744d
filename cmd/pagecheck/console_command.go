package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"pagecheck/internal/config"
	"pagecheck/internal/console"
	"pagecheck/internal/preflight"
	"pagecheck/internal/store"
)

func newConsoleCommand(ctx *commandContext) *cobra.Command {
	var (
		modeFlag  string
		startPage int
		skipIndex bool
	)

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Run the interactive scan console",
		Long: `Index the documents directory, then read scanned codes from stdin.

Each line is checked against the indexed documents. Type 'exit' to quit,
'reset' to clear batch start pages, 'reset-scan' to clear every verified page,
'status' to show start pages and 'beep' to test the terminal bell.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				out := cmd.OutOrStdout()
				if results := preflight.RunAll(cmd.Context(), cfg, st); len(preflight.Failed(results)) > 0 {
					writeCheckReport(out, "Preflight", results, shouldColorize(out))
					return errors.New("preflight checks failed")
				}

				if !skipIndex {
					if err := indexDocuments(cmd, cfg, st, logger, nil); err != nil {
						return err
					}
				}
				docs, err := st.ListDocuments(cmd.Context())
				if err != nil {
					return err
				}
				if len(docs) == 0 {
					return fmt.Errorf("no documents indexed; add PDFs to %s", cfg.Paths.DocumentsDir)
				}

				mode, err := console.ParseMode(firstNonEmpty(modeFlag, cfg.Scan.Mode))
				if err != nil {
					return err
				}
				engine, err := ctx.newEngine(cfg, st, logger, startPage)
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "Scanning against %d loaded document(s)\n", len(docs))
				c, err := console.New(engine, console.Options{
					Mode:      mode,
					In:        cmd.InOrStdin(),
					Out:       out,
					Colorize:  shouldColorize(out),
					Documents: st,
					Logger:    logger,
				})
				if err != nil {
					return err
				}
				if err := c.Run(cmd.Context()); err != nil && !errors.Is(err, io.EOF) {
					return err
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&modeFlag, "mode", "", "Console mode: sequence or verification (default from config)")
	cmd.Flags().IntVar(&startPage, "start-page", 0, "Start page for the first document scanned")
	cmd.Flags().BoolVar(&skipIndex, "skip-index", false, "Scan against already indexed documents only")
	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
