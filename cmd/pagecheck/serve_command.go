package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pagecheck/internal/config"
	"pagecheck/internal/report"
	"pagecheck/internal/store"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only progress and audit report",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				address := cfg.Report.Bind
				if strings.TrimSpace(bind) != "" {
					address = bind
				}
				srv, err := report.NewServer(address, st, logger)
				if err != nil {
					return err
				}
				if err := srv.Start(cmd.Context()); err != nil {
					return err
				}
				defer srv.Stop()

				fmt.Fprintf(cmd.OutOrStdout(), "Report available at http://%s/\n", srv.Addr())
				<-cmd.Context().Done()
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (default from config)")
	return cmd
}
