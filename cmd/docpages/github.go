package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/docpages/pkg/types"
)

var githubCmd = &cobra.Command{
	Use:   "github",
	Short: "Build the HTML used for GitHub Pages (alias for build html)",
	Long: `Github stages the notebooks and runs the HTML build mode, producing the
tree that sync publishes. It is shorthand for "docpages build html".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runBuild(cmd.Context(), cfg, types.HTMLMode, false, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(githubCmd)
}
