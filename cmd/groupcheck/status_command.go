package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Query the running review server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			client := &http.Client{Timeout: 5 * time.Second}
			url := "http://" + cfg.Paths.HTTPBind + "/api/status"
			resp, err := client.Get(url)
			if err != nil {
				return fmt.Errorf("is groupcheckd running? %w", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("status request failed: %s", resp.Status)
			}

			var payload struct {
				Groups       int    `json:"groups"`
				Items        int    `json:"items"`
				LiveSessions int    `json:"live_sessions"`
				UptimeSecs   int64  `json:"uptime_seconds"`
				CatalogPath  string `json:"catalog_path"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
				return fmt.Errorf("decode status: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Server:        http://%s\n", cfg.Paths.HTTPBind)
			fmt.Fprintf(out, "Catalog:       %s (%d groups, %d items)\n", payload.CatalogPath, payload.Groups, payload.Items)
			fmt.Fprintf(out, "Live sessions: %d\n", payload.LiveSessions)
			fmt.Fprintf(out, "Uptime:        %s\n", (time.Duration(payload.UptimeSecs) * time.Second).String())
			return nil
		},
	}
}
