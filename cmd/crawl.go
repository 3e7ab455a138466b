package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newCrawlCmd creates the 'crawl' subcommand.
func newCrawlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crawl",
		Short: "Crawl every source and write the name files",
		Long: `Resolves the source URLs (from discovery.index_url when set, otherwise
crawler.source_urls), visits them in order with a pause between requests, and
writes one file per successful source plus the combined list.`,
		Args: cobra.NoArgs,
		RunE: runCrawlCommand,
	}
}

func runCrawlCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	logger := appInstance.Logger()

	report, err := appInstance.Crawl(cmd.Context())
	if err != nil {
		logger.Error("crawl failed", zap.String("run_id", report.RunID), zap.Error(err))
		return err
	}
	for _, f := range report.Failures {
		cmd.PrintErrf("failed %s (%s): %s\n", f.URL, f.Reason, f.Error)
	}
	for _, file := range report.Files {
		fmt.Fprintln(cmd.OutOrStdout(), file)
	}
	logger.Info("crawl command finished",
		zap.String("run_id", report.RunID),
		zap.Int("attempted", report.Attempted),
		zap.Int("succeeded", report.Succeeded()),
		zap.Int("combined_names", len(report.Combined)),
	)
	return nil
}
