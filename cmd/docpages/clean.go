package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/docpages/internal/clean"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove build output and generated source artifacts",
	Long: `Clean empties the build directory and removes the generated-artifact
directories (autosummary stubs and gallery output). The next build
recreates everything from scratch.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, err = clean.Clean(cfg.Build, cfg.Clean, cmd.OutOrStdout())
		return err
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
