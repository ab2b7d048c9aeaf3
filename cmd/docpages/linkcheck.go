package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docpages/internal/linkcheck"
	"github.com/pdiddy/docpages/pkg/types"
)

var linkcheckCmd = &cobra.Command{
	Use:   "linkcheck",
	Short: "Verify external links in the built HTML",
	Long: `Linkcheck extracts every external http(s) link from the built HTML tree
and requests each one, sequentially and with a politeness delay. Rate
limits and deploy-window errors are retried; anything still answering
4xx/5xx, or not answering at all, is reported broken.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		htmlDir := filepath.Join(cfg.Build.BuildDir, types.HTMLMode)
		checker := linkcheck.NewChecker(cfg.LinkCheck, nil)

		report, err := checker.Run(cmd.Context(), htmlDir, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if report.HasFailures() {
			return fmt.Errorf("%d broken links", len(report.Broken))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(linkcheckCmd)
}
