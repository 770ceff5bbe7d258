package cli

import (
	"context"
	"os"

	"github.com/furkhad/youtube/internal/core/downloader"
	"github.com/furkhad/youtube/internal/core/extractor"
	"github.com/furkhad/youtube/internal/core/i18n"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <url>",
	Short: "Show video metadata and formats without downloading",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		return runInfo(cmd.Context(), newExtractor(cfg), args[0], cfg.Language, isInteractive(cfg))
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(ctx context.Context, ext extractor.Extractor, rawURL, lang string, interactive bool) error {
	if err := downloader.ValidateURL(ext, rawURL); err != nil {
		return err
	}

	var media *extractor.VideoMedia
	var err error
	if interactive {
		media, err = runExtractWithSpinner(ctx, ext, rawURL, lang)
	} else {
		media, err = ext.Extract(ctx, rawURL)
	}
	if err != nil {
		return err
	}

	t := i18n.T(lang)
	printMetadata(os.Stdout, t, media, nil)
	printFormats(os.Stdout, t, media)
	return nil
}
