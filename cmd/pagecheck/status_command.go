package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"pagecheck/internal/api"
	"pagecheck/internal/config"
	"pagecheck/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var (
		pagesFilter string
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show verification progress per document",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := store.FilterAll
			if pagesFilter != "" {
				parsed, err := store.ParseStatusFilter(pagesFilter)
				if err != nil {
					return err
				}
				filter = parsed
			}
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				summary, err := api.NewReportService(st).Summary(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if jsonOut {
					if pagesFilter == "" {
						summary.Pages = nil
					}
					return writeJSON(cmd, summary)
				}

				out := cmd.OutOrStdout()
				if len(summary.Documents) == 0 {
					fmt.Fprintln(out, "No documents indexed")
					return nil
				}
				fmt.Fprintln(out, renderDocumentTable(summary))
				if pagesFilter != "" {
					fmt.Fprintln(out, renderPageTable(summary.Pages))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&pagesFilter, "pages", "", "Also list pages: all, pending or scanned")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output status as JSON")
	return cmd
}

func renderDocumentTable(summary api.Summary) string {
	rows := make([][]string, 0, len(summary.Documents))
	for _, doc := range summary.Documents {
		rows = append(rows, []string{
			doc.Name,
			strconv.Itoa(doc.Pages),
			strconv.Itoa(doc.ScannedPages),
			fmt.Sprintf("%d/%d", doc.ScannedCodes, doc.Codes),
			percent(doc.ScannedPages, doc.Pages),
		})
	}
	t := summary.Totals
	return renderTable(tableSpec{
		Headers: []string{"Document", "Pages", "Verified", "Codes", "Progress"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
		Footer: []string{
			"Total",
			strconv.Itoa(t.Pages),
			strconv.Itoa(t.ScannedPages),
			fmt.Sprintf("%d/%d", t.ScannedCodes, t.Codes),
			percent(t.ScannedPages, t.Pages),
		},
	})
}

func renderPageTable(pages []api.PageStatus) string {
	rows := make([][]string, 0, len(pages))
	for _, page := range pages {
		state := "pending"
		if page.Scanned {
			state = "verified"
		}
		rows = append(rows, []string{
			page.Document,
			strconv.Itoa(page.Page),
			fmt.Sprintf("%d/%d", page.ScannedCodes, page.Codes),
			state,
		})
	}
	return renderTable(tableSpec{
		Headers: []string{"Document", "Page", "Codes", "State"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
	})
}

func percent(done, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(done)*100/float64(total))
}
