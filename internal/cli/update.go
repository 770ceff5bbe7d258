package cli

import (
	"fmt"

	"github.com/furkhad/youtube/internal/core/version"
	"github.com/furkhad/youtube/internal/updater"
	"github.com/spf13/cobra"
)

var checkOnly bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update tubegrab to the latest release",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if checkOnly {
			latest, newer, err := updater.CheckUpdate(cmd.Context())
			if err != nil {
				return err
			}
			if newer {
				fmt.Fprintf(out, "New version available: %s (current v%s)\n", latest.Version(), version.Version)
			} else {
				fmt.Fprintf(out, "Already up to date (v%s)\n", version.Version)
			}
			return nil
		}

		return updater.Update(cmd.Context(), out)
	},
}

func init() {
	updateCmd.Flags().BoolVar(&checkOnly, "check", false, "only check whether a newer release exists")
	rootCmd.AddCommand(updateCmd)
}
