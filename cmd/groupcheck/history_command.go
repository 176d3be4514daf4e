package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"groupcheck/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "history <identity>",
		Short: "Show a reviewer's decision history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return fmt.Errorf("decision history is disabled in the configuration")
			}

			store, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return err
			}
			defer store.Close()

			decisions, err := store.ListByIdentity(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(decisions) == 0 {
				fmt.Fprintf(out, "No recorded decisions for %q\n", args[0])
				return nil
			}

			rows := make([][]string, 0, len(decisions))
			for _, d := range decisions {
				verdict := "rejected"
				if d.Accepted {
					verdict = "accepted"
				}
				rows = append(rows, []string{
					strconv.Itoa(d.Position + 1),
					d.GroupName,
					d.FinalName,
					verdict,
					d.DecidedAt.Local().Format(time.RFC3339),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Group", "Final Name", "Verdict", "Decided At"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
			))

			stats, err := store.StatsByIdentity(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d decisions: %d accepted, %d rejected\n", stats.Total(), stats.Accepted, stats.Rejected)
			return nil
		},
	}
}
