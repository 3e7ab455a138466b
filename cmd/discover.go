package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newDiscoverCmd creates the 'discover' subcommand.
func newDiscoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Print the source URLs a crawl would visit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			urls, err := appInstance.SourceURLs(cmd.Context())
			if err != nil {
				return err
			}
			for _, u := range urls {
				fmt.Fprintln(cmd.OutOrStdout(), u)
			}
			return nil
		},
	}
}
