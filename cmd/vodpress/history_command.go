package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vodpress/internal/joblog"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent pipeline runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			ledger, err := joblog.Open(cfg)
			if err != nil {
				return fmt.Errorf("open job ledger: %w", err)
			}
			defer ledger.Close() //nolint:errcheck

			records, err := ledger.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("load history: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No pipeline runs recorded yet.")
				return nil
			}

			headers := []string{"Started", "Source", "Status", "Duration", "Output"}
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					rec.StartedAt.Local().Format("2006-01-02 15:04:05"),
					rec.SourceKey,
					humanizeStatus(rec.Status),
					formatDuration(rec),
					rec.OutputPath,
				})
			}

			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
			fmt.Fprintln(out, renderTable(headers, rows, aligns, isTerminal(out)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	return cmd
}

func humanizeStatus(status joblog.Status) string {
	return cases.Title(language.Und).String(string(status))
}

func formatDuration(rec joblog.Record) string {
	if rec.FinishedAt.IsZero() || rec.FinishedAt.Before(rec.StartedAt) {
		return "-"
	}
	return rec.FinishedAt.Sub(rec.StartedAt).Round(time.Second).String()
}
