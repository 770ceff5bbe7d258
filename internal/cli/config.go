package cli

import (
	"fmt"
	"strings"

	"github.com/furkhad/youtube/internal/core/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tubegrab configuration",
	Long:  "View and modify tubegrab settings stored in config.yml",
}

// tubegrab config show - show current config
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Current configuration:")
		for _, key := range config.Keys {
			value, err := cfg.Get(key)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "  %-14s %s\n", key+":", value)
		}
		fmt.Fprintf(out, "  %-14s %s\n", "config:", config.SavePath())
		return nil
	},
}

// tubegrab config path - show config file path
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.SavePath())
	},
}

// tubegrab config set KEY VALUE - set a config value
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in config.yml.

Supported keys:
  language       Language code (en, zh)
  output_dir     Default download directory
  max_retries    Attempts made when YouTube rate limits a download
  retry_backoff  Wait between rate-limited attempts (e.g., 5s)
  timeout        HTTP timeout, 0 for none (e.g., 2m)
  plain          Disable the interactive progress display (true/false)

Examples:
  tubegrab config set language zh
  tubegrab config set output_dir ~/Videos
  tubegrab config set max_retries 5`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return config.Keys, cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		cfg := loadConfig()
		if err := cfg.Set(key, value); err != nil {
			return fmt.Errorf("%w\nSupported keys: %s", err, strings.Join(config.Keys, ", "))
		}

		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

// tubegrab config get KEY - get a config value
var configGetCmd = &cobra.Command{
	Use:       "get <key>",
	Short:     "Get a configuration value",
	Args:      cobra.ExactArgs(1),
	ValidArgs: config.Keys,
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := loadConfig().Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}
