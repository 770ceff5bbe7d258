package cli

import (
	"errors"
	"fmt"

	"github.com/furkhad/youtube/internal/core/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create tubegrab config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Run interactive wizard (loads existing config as defaults if present)
		cfg, err := config.RunInitWizard()
		if errors.Is(err, config.ErrCancelled) {
			fmt.Fprintln(cmd.OutOrStdout(), err)
			return nil
		}
		if err != nil {
			return err
		}

		if err := config.Save(cfg); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\nSaved %s\n", config.SavePath())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
