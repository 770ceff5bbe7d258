package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/furkhad/youtube/internal/core/config"
	"github.com/furkhad/youtube/internal/core/downloader"
	"github.com/furkhad/youtube/internal/core/extractor"
	"github.com/furkhad/youtube/internal/core/i18n"
	"github.com/furkhad/youtube/internal/core/version"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	outputDir string
	retries   int
	info      bool
	plain     bool
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:           "tubegrab [url]",
	Short:         "Download YouTube videos in the highest available resolution",
	Version:       version.Version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRoot(cmd, args)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory to save the video in (created if missing)")
	rootCmd.Flags().IntVarP(&retries, "retries", "r", config.DefaultMaxRetries, "attempts made when YouTube rate limits the download")
	rootCmd.Flags().BoolVar(&info, "info", false, "show video info without downloading")
	rootCmd.Flags().BoolVar(&plain, "plain", false, "print progress lines instead of the interactive display")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log attempts and retries to stderr")
}

// Execute runs the CLI and returns the process exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	var shown *shownError
	if !errors.As(err, &shown) {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}

// shownError wraps an error that was already reported to the user
type shownError struct {
	err error
}

func (e *shownError) Error() string { return e.err.Error() }
func (e *shownError) Unwrap() error { return e.err }

func runRoot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadConfig()
	t := i18n.T(cfg.Language)
	interactive := isInteractive(cfg)

	dir := chooseOutputDir(cmd.Flags().Changed("output-dir"), outputDir, cfg.OutputDir)
	maxRetries := cfg.MaxRetries
	if cmd.Flags().Changed("retries") {
		maxRetries = retries
	}

	var rawURL string
	if len(args) > 0 {
		rawURL = args[0]
	} else {
		var err error
		rawURL, dir, err = promptRequest(interactive, t, dir)
		if err != nil {
			return err
		}
	}

	ext := newExtractor(cfg)
	if info {
		return runInfo(ctx, ext, rawURL, cfg.Language, interactive)
	}

	d := downloader.New(ext,
		downloader.WithLogger(newLogger()),
		downloader.WithBackoff(cfg.RetryBackoff),
	)
	req := downloader.Request{
		SourceURL:  rawURL,
		OutputDir:  dir,
		MaxRetries: maxRetries,
	}

	if interactive {
		return runTUIDownload(ctx, d, req, cfg.Language)
	}
	return runPlainDownload(ctx, d, req, t, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// chooseOutputDir applies flag > config > default, expanding a leading ~
// the shell left alone (e.g. "-o=~/Videos").
func chooseOutputDir(flagSet bool, flagValue, configured string) string {
	if flagSet {
		return config.ExpandPath(flagValue)
	}
	return configured
}

func runTUIDownload(ctx context.Context, d *downloader.Downloader, req downloader.Request, lang string) error {
	_, err := downloader.RunTUI(ctx, d, req, lang)
	if err == nil {
		return nil
	}

	// The TUI already rendered the failure
	var failure *downloader.Failure
	if errors.As(err, &failure) {
		return &shownError{err: err}
	}
	return err
}

func runPlainDownload(ctx context.Context, d *downloader.Downloader, req downloader.Request, t *i18n.Translations, stdout, stderr io.Writer) error {
	reporter := downloader.NewLineReporter(stdout, 10)
	warn := color.New(color.FgYellow)
	shownMetadata := false

	dl := d.With(
		downloader.WithProgress(reporter.Report),
		downloader.WithResolvedHook(func(media *extractor.VideoMedia, format *extractor.VideoFormat) {
			if !shownMetadata {
				printMetadata(stdout, t, media, format)
				shownMetadata = true
			}
		}),
		downloader.WithRetryHook(func(attempt, maxRetries int, wait time.Duration, err error) {
			warn.Fprintf(stderr, "  ! %s\n", fmt.Sprintf(t.Download.RateLimited, wait, attempt+1, maxRetries))
		}),
	)

	result, err := dl.Download(ctx, req)
	if err != nil {
		color.New(color.FgRed).Fprintf(stderr, "  ✗ %s: %v\n", describe(t, err), err)
		return &shownError{err: err}
	}

	color.New(color.FgGreen).Fprintf(stdout, "  ✓ %s\n", t.Download.Completed)
	fmt.Fprintf(stdout, "  %s: %s\n", t.Download.FileSaved, result.Path)
	fmt.Fprintf(stdout, "  %s: %d\n", t.Download.Attempts, result.Attempts)
	return nil
}

// loadConfig loads the user config, warning when it is missing or invalid
func loadConfig() *config.Config {
	warn := color.New(color.FgYellow)

	if !config.Exists() {
		cfg := config.DefaultConfig()
		warn.Fprintln(os.Stderr, i18n.T(cfg.Language).Errors.ConfigNotFound)
		return cfg
	}

	cfg, err := config.Load()
	if err != nil {
		warn.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		return config.DefaultConfig()
	}
	return cfg
}

func isInteractive(cfg *config.Config) bool {
	if plain || cfg.Plain || verbose {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

func newLogger() *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "tubegrab: ", log.LstdFlags)
}

func newExtractor(cfg *config.Config) *extractor.YouTubeExtractor {
	return extractor.NewYouTubeExtractor(&http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
		},
	})
}
