package main

import (
	"errors"

	"github.com/spf13/cobra"

	"pagecheck/internal/config"
	"pagecheck/internal/preflight"
	"pagecheck/internal/store"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check directories and database integrity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				results := preflight.RunAll(cmd.Context(), cfg, st)
				failed := preflight.Failed(results)
				if jsonOut {
					health, _ := st.CheckHealth(cmd.Context())
					if err := writeJSON(cmd, map[string]any{
						"checks":   results,
						"database": health,
						"healthy":  len(failed) == 0,
					}); err != nil {
						return err
					}
				} else {
					out := cmd.OutOrStdout()
					writeCheckReport(out, "Health", results, shouldColorize(out))
				}
				if len(failed) > 0 {
					return errors.New("health checks failed")
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output health as JSON")
	return cmd
}
