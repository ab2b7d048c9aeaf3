package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docpages/pkg/types"
)

const configFileName = "docpages.yaml"

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter docpages.yaml with the default layout",
	Long: `Init writes a docpages.yaml describing the conventional layout: sources
in the current directory, build output under _build, notebooks staged from
../notebooks, and HTML published to ../docs. Edit the file to match your
tree; an existing config is never overwritten.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configFileName); err == nil {
			return fmt.Errorf("%s already exists", configFileName)
		}

		data, err := yaml.Marshal(types.DefaultSiteConfig())
		if err != nil {
			return fmt.Errorf("marshaling default config: %w", err)
		}
		if err := os.WriteFile(configFileName, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", configFileName, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configFileName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
