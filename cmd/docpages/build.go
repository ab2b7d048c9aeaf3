package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docpages/internal/history"
	"github.com/pdiddy/docpages/internal/sphinx"
	"github.com/pdiddy/docpages/internal/stage"
	"github.com/pdiddy/docpages/pkg/types"
)

var buildCmd = &cobra.Command{
	Use:   "build [mode]",
	Short: "Stage notebooks and forward a build mode to the generator",
	Long: `Build mirrors the notebooks directory into the source tree (excluding
checkpoint artifacts) and forwards the requested mode to the generator,
e.g. "docpages build html" or "docpages build latexpdf". Any mode the
generator understands works; with no mode the generator's own listing of
available targets is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			gen, err := newGenerator(cfg.Build)
			if err != nil {
				return err
			}
			return gen.Help(cfg.Build.SourceDir, cfg.Build.BuildDir, cmd.OutOrStdout())
		}

		skipStaging, _ := cmd.Flags().GetBool("skip-staging")
		return runBuild(cmd.Context(), cfg, args[0], skipStaging, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	buildCmd.Flags().Bool("skip-staging", false, "build without refreshing the staged notebooks")

	rootCmd.AddCommand(buildCmd)
}

// newGenerator returns the configured generator, or auto-detects one.
func newGenerator(cfg types.BuildConfig) (sphinx.Generator, error) {
	if cfg.Generator != "" {
		return sphinx.Pinned(cfg.Generator), nil
	}
	return sphinx.Detect()
}

// runBuild is the catch-all build path shared by build, github, and watch:
// stage the notebooks, forward the mode to the generator, record the
// outcome. History failures are warnings; the build result is what counts.
func runBuild(ctx context.Context, cfg types.SiteConfig, mode string, skipStaging bool, stdout, stderr io.Writer) error {
	gen, err := newGenerator(cfg.Build)
	if err != nil {
		return err
	}

	if !skipStaging {
		if _, err := stage.Mirror(cfg.Staging, stdout); err != nil {
			return fmt.Errorf("staging notebooks: %w", err)
		}
	}

	started := time.Now().UTC()
	buildErr := gen.Build(ctx, mode, cfg.Build.SourceDir, cfg.Build.BuildDir, cfg.Build.ExtraArgs, stdout, stderr)
	recordBuild(ctx, cfg, mode, started, buildErr, stderr)

	return buildErr
}

// recordBuild appends the outcome to the history store, downgrading any
// store failure to a warning on stderr. The build result is what counts;
// a broken history database never fails a build.
func recordBuild(ctx context.Context, cfg types.SiteConfig, mode string, started time.Time, buildErr error, stderr io.Writer) {
	rec := types.BuildRecord{
		Mode:      mode,
		SourceDir: cfg.Build.SourceDir,
		BuildDir:  cfg.Build.BuildDir,
		StartedAt: started,
		Duration:  time.Since(started),
		Status:    types.BuildDone,
	}
	if buildErr != nil {
		rec.Status = types.BuildFailed
		rec.Error = buildErr.Error()
	}

	store, err := history.NewStore(cfg.History)
	if err != nil {
		fmt.Fprintf(stderr, "warning: build history unavailable: %v\n", err)
		return
	}
	defer store.Close()

	if _, err := store.Record(ctx, rec); err != nil {
		fmt.Fprintf(stderr, "warning: could not record build: %v\n", err)
	}
}
