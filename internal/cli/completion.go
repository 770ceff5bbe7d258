package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for tubegrab.

Bash:
  # Add to ~/.bashrc:
  source <(tubegrab completion bash)

  # Or install to system:
  tubegrab completion bash > /etc/bash_completion.d/tubegrab

Zsh:
  # Add to ~/.zshrc:
  source <(tubegrab completion zsh)

  # Or install to fpath:
  tubegrab completion zsh > "${fpath[1]}/_tubegrab"

Fish:
  tubegrab completion fish > ~/.config/fish/completions/tubegrab.fish

PowerShell:
  tubegrab completion powershell >> $PROFILE
`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		default:
			return cmd.Help()
		}
	},
}

// urlPrefixes are offered while the user has not typed past a known prefix
var urlPrefixes = []string{
	"https://www.youtube.com/watch?v=",
	"https://youtu.be/",
	"https://m.youtube.com/watch?v=",
	"https://music.youtube.com/watch?v=",
}

func init() {
	rootCmd.AddCommand(completionCmd)

	rootCmd.ValidArgsFunction = completeURL
	_ = rootCmd.RegisterFlagCompletionFunc("output-dir", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveFilterDirs
	})
}

// completeURL suggests YouTube URL prefixes for the first argument
func completeURL(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, prefix := range urlPrefixes {
		if strings.HasPrefix(prefix, toComplete) {
			completions = append(completions, prefix)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
