package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vodpress/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external tool availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Required(cfg.FFmpeg.Binary))

			headers := []string{"Dependency", "Command", "Available", "Detail"}
			rows := make([][]string, 0, len(statuses))
			missing := 0
			for _, status := range statuses {
				available := "yes"
				if !status.Available {
					available = "no"
					missing++
				}
				rows = append(rows, []string{status.Name, status.Command, available, status.Detail})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(headers, rows, nil, isTerminal(out)))

			if missing > 0 {
				return fmt.Errorf("%d required dependency unavailable", missing)
			}
			return nil
		},
	}
}
