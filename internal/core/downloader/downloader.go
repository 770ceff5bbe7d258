package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/furkhad/youtube/internal/core/extractor"
)

const (
	// DefaultMaxRetries is the number of attempts made when a request does
	// not set one.
	DefaultMaxRetries = 3

	// DefaultBackoff is the fixed delay between rate-limited attempts
	DefaultBackoff = 5 * time.Second
)

var (
	// ErrMaxRetries is wrapped by the failure returned once every attempt
	// was rate limited.
	ErrMaxRetries = errors.New("max retries reached")

	// ErrCancelled is wrapped by the failure returned when the user stopped
	// the download from the TUI.
	ErrCancelled = errors.New("cancelled by user")

	// ErrNoFormats means the video has no muxed audio+video stream
	ErrNoFormats = errors.New("no downloadable audio+video stream")
)

// Request describes one download
type Request struct {
	SourceURL  string
	OutputDir  string // empty means the current directory
	MaxRetries int
}

// NewRequest returns a request using DefaultMaxRetries
func NewRequest(sourceURL, outputDir string) Request {
	return Request{
		SourceURL:  sourceURL,
		OutputDir:  outputDir,
		MaxRetries: DefaultMaxRetries,
	}
}

// Result is returned when a download succeeds
type Result struct {
	Path     string
	Attempts int
	Media    *extractor.VideoMedia
	Format   *extractor.VideoFormat
}

// Failure is the error returned when a download does not succeed
type Failure struct {
	Kind     extractor.ErrorKind
	Reason   string
	Attempts int
	Err      error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s (attempts: %d)", f.Reason, f.Attempts)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Downloader resolves a URL, picks the highest resolution stream and saves
// it, retrying only when the platform rate limits the request.
type Downloader struct {
	extractor extractor.Extractor
	logger    *log.Logger

	backoff        time.Duration
	waitAfterFinal bool
	sleep          func(ctx context.Context, d time.Duration) error

	onProgress ProgressFunc
	onAttempt  func(attempt, maxRetries int)
	onResolved func(media *extractor.VideoMedia, format *extractor.VideoFormat)
	onRetry    func(attempt, maxRetries int, wait time.Duration, err error)
}

// Option configures a Downloader
type Option func(*Downloader)

// WithLogger sets the logger used for attempt and failure lines
func WithLogger(l *log.Logger) Option {
	return func(d *Downloader) { d.logger = l }
}

// WithBackoff sets the fixed delay between rate-limited attempts
func WithBackoff(backoff time.Duration) Option {
	return func(d *Downloader) { d.backoff = backoff }
}

// WithWaitAfterFinal makes the downloader also wait after the last
// rate-limited attempt before giving up.
func WithWaitAfterFinal(wait bool) Option {
	return func(d *Downloader) { d.waitAfterFinal = wait }
}

// WithSleep replaces the context-aware sleep used for backoff
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(d *Downloader) { d.sleep = sleep }
}

// WithProgress sets the callback invoked after each received chunk
func WithProgress(fn ProgressFunc) Option {
	return func(d *Downloader) { d.onProgress = fn }
}

// WithAttemptHook is called as each attempt starts, including the first
func WithAttemptHook(fn func(attempt, maxRetries int)) Option {
	return func(d *Downloader) { d.onAttempt = fn }
}

// WithResolvedHook is called once per attempt after a stream was selected
func WithResolvedHook(fn func(media *extractor.VideoMedia, format *extractor.VideoFormat)) Option {
	return func(d *Downloader) { d.onResolved = fn }
}

// WithRetryHook is called before each backoff wait
func WithRetryHook(fn func(attempt, maxRetries int, wait time.Duration, err error)) Option {
	return func(d *Downloader) { d.onRetry = fn }
}

// New creates a Downloader backed by ext
func New(ext extractor.Extractor, opts ...Option) *Downloader {
	d := &Downloader{
		extractor: ext,
		logger:    log.New(io.Discard, "", 0),
		backoff:   DefaultBackoff,
		sleep:     sleepContext,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// With returns a copy of d with opts applied
func (d *Downloader) With(opts ...Option) *Downloader {
	c := *d
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

// Download runs the request to completion. On failure the returned error is
// a *Failure.
func (d *Downloader) Download(ctx context.Context, req Request) (*Result, error) {
	if err := d.validate(req); err != nil {
		d.logger.Printf("rejected %q: %v", req.SourceURL, err)
		return nil, &Failure{Kind: extractor.KindInvalidInput, Reason: err.Error(), Err: err}
	}

	var lastErr error
	for attempt := 1; attempt <= req.MaxRetries; attempt++ {
		d.logger.Printf("attempt %d/%d: %s", attempt, req.MaxRetries, req.SourceURL)
		if d.onAttempt != nil {
			d.onAttempt(attempt, req.MaxRetries)
		}

		result, err := d.attempt(ctx, req)
		if err == nil {
			result.Attempts = attempt
			d.logger.Printf("saved %s", result.Path)
			return result, nil
		}

		lastErr = err
		kind := extractor.KindOf(err)
		d.logger.Printf("attempt %d/%d failed (%s): %v", attempt, req.MaxRetries, kind, err)

		if kind != extractor.KindRateLimited {
			return nil, &Failure{Kind: kind, Reason: err.Error(), Attempts: attempt, Err: err}
		}
		if attempt == req.MaxRetries && !d.waitAfterFinal {
			break
		}

		if d.onRetry != nil {
			d.onRetry(attempt, req.MaxRetries, d.backoff, err)
		}
		d.logger.Printf("rate limited, waiting %s before retrying", d.backoff)
		if err := d.sleep(ctx, d.backoff); err != nil {
			return nil, &Failure{Kind: extractor.KindOther, Reason: err.Error(), Attempts: attempt, Err: err}
		}
	}

	failure := &Failure{
		Kind:     extractor.KindRateLimited,
		Reason:   ErrMaxRetries.Error(),
		Attempts: req.MaxRetries,
		Err:      ErrMaxRetries,
	}
	if lastErr != nil {
		failure.Err = fmt.Errorf("%w: %w", ErrMaxRetries, lastErr)
	} else {
		failure.Kind = extractor.KindOther
	}
	d.logger.Printf("giving up on %s: %v", req.SourceURL, failure)
	return nil, failure
}

func (d *Downloader) validate(req Request) error {
	if req.MaxRetries < 0 {
		return extractor.InvalidInput("max retries must be >= 0, got %d", req.MaxRetries)
	}
	return ValidateURL(d.extractor, req.SourceURL)
}

// ValidateURL checks that rawURL is an absolute URL ext can resolve
func ValidateURL(ext extractor.Extractor, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return extractor.InvalidInput("invalid URL: %v", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return extractor.InvalidInput("invalid URL %q: missing scheme or host", rawURL)
	}
	if !ext.Match(u) {
		return extractor.InvalidInput("unsupported URL %q: not a %s link", rawURL, ext.Name())
	}
	return nil
}

func (d *Downloader) attempt(ctx context.Context, req Request) (*Result, error) {
	media, err := d.extractor.Extract(ctx, req.SourceURL)
	if err != nil {
		return nil, err
	}

	format := media.HighestResolution()
	if format == nil {
		return nil, &extractor.Error{Kind: extractor.KindOther, Op: "select", Err: ErrNoFormats}
	}
	if d.onResolved != nil {
		d.onResolved(media, format)
	}

	dir := req.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	path, err := d.save(ctx, media, format, dir)
	if err != nil {
		return nil, err
	}

	return &Result{Path: path, Media: media, Format: format}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
