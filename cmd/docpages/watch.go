package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docpages/internal/watch"
	"github.com/pdiddy/docpages/pkg/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the HTML whenever documentation sources change",
	Long: `Watch monitors the source tree and the notebooks directory and reruns the
HTML build after changes settle. Rapid save bursts collapse into a single
rebuild. Interrupt with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		w, err := watch.New(cfg.Watch, cfg.Build.BuildDir, cfg.Staging.StagingDir)
		if err != nil {
			return err
		}
		defer w.Close()

		if err := w.AddTree(cfg.Build.SourceDir); err != nil {
			return fmt.Errorf("watching source tree: %w", err)
		}
		if err := w.AddTree(cfg.Staging.NotebooksDir); err != nil {
			// Notebooks are optional for watch; staging will fail loudly
			// during the rebuild if they matter.
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: not watching notebooks: %v\n", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(out, "Watching %s for changes (Ctrl-C to stop)\n", cfg.Build.SourceDir)

		rebuild := func(ctx context.Context) error {
			return runBuild(ctx, cfg, types.HTMLMode, false, out, cmd.ErrOrStderr())
		}
		return w.Run(ctx, rebuild, out)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
