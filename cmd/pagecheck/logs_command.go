package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"pagecheck/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		lines   int
		follow  bool
		session string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the pagecheck log",
		Long: `Print the last lines of pagecheck.log. --session narrows the output to one
scan session, whose id is recorded in every audit event it wrote.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.Paths.LogDir, "pagecheck.log")
			out := cmd.OutOrStdout()
			opts := logs.TailOptions{Offset: -1, Limit: lines, Match: logs.SessionMatcher(session)}
			if follow {
				return logs.Follow(cmd.Context(), path, opts, func(line string) {
					fmt.Fprintln(out, line)
				})
			}
			result, err := logs.Tail(cmd.Context(), path, opts)
			if err != nil {
				return err
			}
			for _, line := range result.Lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines")
	cmd.Flags().StringVar(&session, "session", "", "Only show lines from this session id")
	return cmd
}
