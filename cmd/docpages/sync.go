package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docpages/internal/clean"
	"github.com/pdiddy/docpages/internal/publish"
	"github.com/pdiddy/docpages/pkg/types"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror the built HTML into the public directory",
	Long: `Sync replicates the built HTML tree into the public directory that GitHub
Pages serves: new and changed files are copied, stale files are deleted,
and the marker dotfile is preserved. Afterwards the build artifacts are
cleaned and the marker is recreated, leaving the working tree ready to
commit. The public directory always ends up an exact mirror of the build
output, never a merge.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		htmlDir := filepath.Join(cfg.Build.BuildDir, types.HTMLMode)
		plan, err := publish.BuildPlan(htmlDir, cfg.Publish)
		if err != nil {
			return err
		}

		if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
			for _, op := range plan.Add {
				fmt.Fprintf(out, "[dry-run] would add: %s\n", op.Rel)
			}
			for _, op := range plan.Update {
				fmt.Fprintf(out, "[dry-run] would update: %s\n", op.Rel)
			}
			for _, op := range plan.Delete {
				fmt.Fprintf(out, "[dry-run] would delete: %s\n", op.Rel)
			}
			fmt.Fprintln(out, "[dry-run] no changes applied")
			return nil
		}

		if err := publish.Apply(plan, cfg.Publish, out); err != nil {
			return err
		}

		if _, err := clean.Clean(cfg.Build, cfg.Clean, out); err != nil {
			return fmt.Errorf("cleaning after sync: %w", err)
		}

		// Clean may have touched nothing, but the marker must survive
		// whatever happened above.
		return publish.EnsureMarker(cfg.Publish)
	},
}

func init() {
	syncCmd.Flags().Bool("dry-run", false, "print the sync plan without applying it")

	rootCmd.AddCommand(syncCmd)
}
