// Package cmd wires configuration, browser, extractor and sink into the CLI
package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"swotscraper/config"
	"swotscraper/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "swotscraper",
	Short:         "Scrape SWOT counts for a list of companies and publish them to a spreadsheet",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runScrape,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML config (default ./"+config.DefaultConfigFile+")")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "scrape and report without writing to the sheet")
	rootCmd.AddCommand(runCmd, serveCmd)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// setup loads the config, applies the environment and builds the logger
func setup() (*config.Config, zerolog.Logger, error) {
	path, explicit := configPath, configPath != ""
	if !explicit {
		path = config.DefaultConfigFile
	}

	cfg, err := config.Load(path, explicit)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	cfg.ApplyEnv(getenv)
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), err
	}

	log, err := logger.New(os.Stderr, cfg.Log.Pretty, cfg.Log.Level)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, log, nil
}
