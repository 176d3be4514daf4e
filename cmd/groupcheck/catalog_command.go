package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"groupcheck/internal/catalog"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Show the derived group catalog in review order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			cat, err := catalog.Load(cfg.Paths.CatalogPath, catalog.Ordering(cfg.Catalog.Ordering))
			if err != nil {
				return err
			}

			rows := make([][]string, 0, cat.Len())
			for i, group := range cat.Groups() {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					group.Name,
					strconv.Itoa(len(group.Items)),
					strings.Join(group.Items, ", "),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Group", "Items", "Item Names"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
			))
			fmt.Fprintf(out, "%d groups, %d items (%s ordering)\n", cat.Len(), cat.ItemCount(), cfg.Catalog.Ordering)
			return nil
		},
	}
}
