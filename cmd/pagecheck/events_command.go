package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"pagecheck/internal/api"
	"pagecheck/internal/config"
	"pagecheck/internal/store"
)

func newEventsCommand(ctx *commandContext) *cobra.Command {
	var (
		kind    string
		limit   int
		since   int64
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List audit events",
		Long: `List audit events in the order they were written. With --kind, the most
recent events of that kind are listed newest first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("limit must be non-negative")
			}
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				events, err := api.NewReportService(st).Events(cmd.Context(), kind, since, limit)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, events)
				}
				out := cmd.OutOrStdout()
				if len(events) == 0 {
					fmt.Fprintln(out, "No events")
					return nil
				}
				fmt.Fprintln(out, renderEventTable(events))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Only list events of this kind")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of events (0 lists all)")
	cmd.Flags().Int64Var(&since, "since", 0, "Only list events after this id")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output events as JSON")
	return cmd
}

func renderEventTable(events []api.Event) string {
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		page := ""
		if e.Page != nil {
			page = strconv.Itoa(*e.Page)
		}
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.Timestamp,
			e.Kind,
			e.Code,
			page,
			e.Description,
		})
	}
	return renderTable(tableSpec{
		Headers: []string{"ID", "Time", "Kind", "Code", "Page", "Detail"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	})
}
