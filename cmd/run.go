package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"swotscraper/report"
)

var dryRun bool

var getenv = os.Getenv

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrape every configured company once and publish the batch",
	RunE:  runScrape,
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "scrape and report without writing to the sheet")
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, closeBrowser, err := buildRunner(ctx, cfg, log, !dryRun)
	if err != nil {
		return err
	}
	defer closeBrowser()

	results, runErr := runner.Run(ctx)
	if err := report.Write(cmd.OutOrStdout(), results); err != nil {
		log.Warn().Err(err).Msg("console report failed")
	}
	return runErr
}
