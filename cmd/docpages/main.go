// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the docpages CLI.
// See docs/ARCHITECTURE § CLI Surface.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docpages/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the docpages CLI.
var rootCmd = &cobra.Command{
	Use:   "docpages",
	Short: "Build and publish Sphinx documentation for GitHub Pages",
	Long: `docpages orchestrates a Sphinx documentation tree: it stages notebooks
into the source directory, forwards build modes to the generator, mirrors
built HTML into the public directory that GitHub Pages serves, and cleans
generated artifacts.

Each step is a subcommand: build, sync, clean, watch, linkcheck, and
history. "docpages build" with no mode prints the generator's list of
available build targets.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./docpages.yaml or ~/.config/docpages/docpages.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("docpages")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "docpages"))
		}
	}

	viper.SetEnvPrefix("DOCPAGES")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig overlays the config file and environment onto the defaults.
func loadConfig() (types.SiteConfig, error) {
	cfg := types.DefaultSiteConfig()
	err := viper.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	})
	if err != nil {
		return cfg, fmt.Errorf("parsing configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
