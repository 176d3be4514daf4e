package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"groupcheck/internal/logging"
	"groupcheck/internal/verified"
)

func newVerifiedCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verified <identity>",
		Short: "Show a reviewer's confirmed groupings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store := verified.NewStore(cfg.Paths.DataDir, logging.NewNop())
			groupings, err := store.Load(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(groupings) == 0 {
				fmt.Fprintf(out, "No verified groupings for %q\n", args[0])
				return nil
			}

			names := make([]string, 0, len(groupings))
			for name := range groupings {
				names = append(names, name)
			}
			sort.Strings(names)

			rows := make([][]string, 0, len(names))
			for _, name := range names {
				rows = append(rows, []string{
					name,
					strconv.Itoa(len(groupings[name])),
					strings.Join(groupings[name], ", "),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Group", "Items", "Item Names"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.AddCommand(newVerifiedClearCommand(ctx))
	return cmd
}

func newVerifiedClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <identity>",
		Short: "Delete a reviewer's verified groupings file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store := verified.NewStore(cfg.Paths.DataDir, logging.NewNop())
			if err := store.Clear(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared verified groupings for %q\n", args[0])
			return nil
		},
	}
}
