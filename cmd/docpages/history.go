package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docpages/internal/history"
	"github.com/pdiddy/docpages/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded builds",
	Long: `History lists the builds recorded in the local history database, newest
first, with optional mode and status filters. --export writes the
filtered records to YAML and JSON files next to the database.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := history.NewStore(cfg.History)
		if err != nil {
			return err
		}
		defer store.Close()

		mode, _ := cmd.Flags().GetString("mode")
		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")
		opts := history.QueryOptions{
			Mode:   mode,
			Status: types.BuildStatus(status),
			Limit:  limit,
		}

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if export, _ := cmd.Flags().GetBool("export"); export {
			if err := store.ExportYAML(ctx, opts); err != nil {
				return err
			}
			if err := store.ExportJSON(ctx, opts); err != nil {
				return err
			}
			fmt.Fprintf(out, "Exported build history to %s/export.{yaml,json}\n", cfg.History.Dir)
			return nil
		}

		records, err := store.List(ctx, opts)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		}

		if len(records) == 0 {
			fmt.Fprintln(out, "No builds recorded.")
			return nil
		}
		for _, rec := range records {
			line := fmt.Sprintf("%4d  %s  %-10s %-6s %v",
				rec.ID, rec.StartedAt.Format(time.RFC3339), rec.Mode, rec.Status,
				rec.Duration.Round(time.Millisecond))
			if rec.Error != "" {
				line += "  " + rec.Error
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().String("mode", "", "filter by build mode (e.g. html)")
	historyCmd.Flags().String("status", "", "filter by status: done or failed")
	historyCmd.Flags().Int("limit", 0, "maximum number of builds to list")
	historyCmd.Flags().Bool("json", false, "output records as JSON")
	historyCmd.Flags().Bool("export", false, "export records to YAML and JSON files")

	rootCmd.AddCommand(historyCmd)
}
