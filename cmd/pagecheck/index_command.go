package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"pagecheck/internal/config"
	"pagecheck/internal/index"
	"pagecheck/internal/store"
)

func newIndexCommand(ctx *commandContext) *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "index [pdf...]",
		Short: "Index PDFs into the code index",
		Long: `Extract codes from the given PDFs, or from every PDF in the documents
directory when none are given. Unchanged documents reuse their stored codes
unless --no-cache is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				if noCache {
					cfg.Index.UseCache = false
				}
				return indexDocuments(cmd, cfg, st, logger, args)
			})
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Re-extract even when a document is unchanged")
	return cmd
}

// indexDocuments loads paths, or every PDF in the documents directory when
// paths is empty, and prints a one-line summary.
func indexDocuments(cmd *cobra.Command, cfg *config.Config, st *store.Store, logger *slog.Logger, paths []string) error {
	out := cmd.OutOrStdout()
	if len(paths) == 0 {
		found, err := index.ListPDFs(cfg.Paths.DocumentsDir)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			fmt.Fprintf(out, "No PDFs in %s\n", cfg.Paths.DocumentsDir)
			return nil
		}
		paths = found
	}

	loader, err := index.NewLoader(st, cfg, index.LoaderOptions{
		Logger: logger,
		Progress: func(document string, processed, total int) {
			fmt.Fprintf(out, "Indexing %s: page %d/%d\n", document, processed, total)
		},
	})
	if err != nil {
		return err
	}
	results, err := loader.LoadAll(cmd.Context(), paths)
	if errors.Is(err, index.ErrIndexLocked) {
		return fmt.Errorf("%w; wait for the other indexer to finish", err)
	}
	if err != nil {
		return err
	}

	var indexed, reused int
	for _, result := range results {
		if result.Reused {
			reused++
			continue
		}
		indexed++
		fmt.Fprintf(out, "%s: %d codes on %d pages (%d inserted, %d duplicates)\n",
			result.Summary.Document, result.Summary.CodesFound, result.Summary.TotalPages,
			result.Summary.Inserted, result.Summary.Duplicates)
	}
	fmt.Fprintf(out, "Documents indexed: %d | cache reused: %d\n", indexed, reused)
	return nil
}
