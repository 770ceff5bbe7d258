package downloader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/furkhad/youtube/internal/core/extractor"
	"github.com/furkhad/youtube/internal/core/i18n"
	"github.com/mattn/go-runewidth"
)

var (
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	doneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const maxTitleWidth = 48

type stage int

const (
	stageResolving stage = iota
	stageDownloading
	stageWaiting
)

// downloadState is shared between the download goroutine and the TUI
type downloadState struct {
	mu sync.RWMutex

	stage    stage
	title    string
	views    string
	length   string
	quality  string
	current  int64
	total    int64
	fraction float64

	attempt    int
	maxRetries int
	retryErr   error
	retryAt    time.Time

	done   bool
	result *Result
	err    error

	startTime time.Time // of the current transfer
	endTime   time.Time
}

// snapshot is a consistent copy of downloadState for rendering
type snapshot struct {
	stage      stage
	title      string
	views      string
	length     string
	quality    string
	current    int64
	total      int64
	fraction   float64
	speed      float64
	attempt    int
	maxRetries int
	retryErr   error
	retryIn    time.Duration
	done       bool
	result     *Result
	err        error
	elapsed    time.Duration
}

func newDownloadState(maxRetries int) *downloadState {
	return &downloadState{
		attempt:    1,
		maxRetries: maxRetries,
		startTime:  time.Now(),
	}
}

func (s *downloadState) attemptStarted(attempt, maxRetries int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stage = stageResolving
	s.attempt = attempt
	s.maxRetries = maxRetries
}

func (s *downloadState) resolved(media *extractor.VideoMedia, format *extractor.VideoFormat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stage = stageDownloading
	s.title = media.Title
	s.views = media.ViewsLabel()
	s.length = media.DurationLabel()
	s.quality = format.QualityLabel()
	s.current = 0
	s.total = format.Size
	s.fraction = 0
	s.startTime = time.Now()
}

func (s *downloadState) progress(p *Progress, _ float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = p.Received
	if p.Total > 0 {
		s.total = p.Total
	}
	s.fraction = p.Reported()
}

func (s *downloadState) retrying(attempt, maxRetries int, wait time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stage = stageWaiting
	s.attempt = attempt + 1
	s.maxRetries = maxRetries
	s.retryErr = err
	s.retryAt = time.Now().Add(wait)
}

func (s *downloadState) finish(result *Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = result
	s.err = err
	s.endTime = time.Now()
	s.done = true
}

func (s *downloadState) outcome() (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.err
}

func (s *downloadState) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	end := time.Now()
	if s.done {
		end = s.endTime
	}
	elapsed := end.Sub(s.startTime)

	snap := snapshot{
		stage:      s.stage,
		title:      s.title,
		views:      s.views,
		length:     s.length,
		quality:    s.quality,
		current:    s.current,
		total:      s.total,
		fraction:   s.fraction,
		attempt:    s.attempt,
		maxRetries: s.maxRetries,
		retryErr:   s.retryErr,
		done:       s.done,
		result:     s.result,
		err:        s.err,
		elapsed:    elapsed,
	}
	if secs := elapsed.Seconds(); secs > 0 {
		snap.speed = float64(s.current) / secs
	}
	if s.stage == stageWaiting {
		snap.retryIn = time.Until(s.retryAt)
	}
	return snap
}

// tickMsg triggers UI updates
type tickMsg time.Time

// downloadModel is the Bubble Tea model for download progress
type downloadModel struct {
	progress progress.Model
	spinner  spinner.Model
	t        *i18n.Translations

	url   string
	state *downloadState

	cancelled bool
}

func newDownloadModel(url, lang string, state *downloadState) downloadModel {
	// Progress bar with gradient
	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
	)

	// Spinner
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return downloadModel{
		progress: p,
		spinner:  s,
		t:        i18n.T(lang),
		url:      url,
		state:    state,
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m downloadModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tickCmd(),
	)
}

func (m downloadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.cancelled = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case tickMsg:
		snap := m.state.snapshot()
		if snap.done {
			return m, tea.Quit
		}
		return m, tea.Batch(tickCmd(), m.progress.SetPercent(snap.fraction))
	}

	return m, nil
}

func (m downloadModel) View() string {
	snap := m.state.snapshot()

	if m.cancelled {
		return fmt.Sprintf("\n  %s %s\n\n", warnStyle.Render("✗"), m.t.Download.Cancelled)
	}

	if snap.err != nil {
		return fmt.Sprintf("\n  %s %s: %v\n\n",
			errStyle.Render("✗"),
			m.t.Download.Failed,
			snap.err,
		)
	}

	if snap.done && snap.result != nil {
		displayPath := snap.result.Path
		if absPath, err := filepath.Abs(displayPath); err == nil {
			displayPath = absPath
		}
		avgSpeed := 0.0
		if secs := snap.elapsed.Seconds(); secs > 0 {
			avgSpeed = float64(snap.current) / secs
		}
		return fmt.Sprintf("\n  %s %s\n  %s  |  %s: %s  |  %s: %s\n  %s: %s (%s)\n  %s: %s  |  %s: %s/s  |  %s: %d\n\n",
			doneStyle.Render("✓"),
			m.t.Download.Completed,
			infoStyle.Render(snap.title),
			m.t.Info.Views,
			snap.views,
			m.t.Info.Length,
			snap.length,
			m.t.Download.FileSaved,
			displayPath,
			formatBytes(snap.current),
			m.t.Download.Elapsed,
			formatDuration(snap.elapsed),
			m.t.Download.AvgSpeed,
			formatBytes(int64(avgSpeed)),
			m.t.Download.Attempts,
			snap.result.Attempts,
		)
	}

	var s string
	s += "\n"

	switch snap.stage {
	case stageResolving:
		s += fmt.Sprintf("  %s %s: %s\n\n",
			m.spinner.View(),
			m.t.Download.Resolving,
			infoStyle.Render(m.url),
		)

	case stageWaiting:
		wait := snap.retryIn
		if wait < 0 {
			wait = 0
		}
		s += fmt.Sprintf("  %s %s\n",
			warnStyle.Render("!"),
			fmt.Sprintf(m.t.Download.RateLimited, formatDuration(wait), snap.attempt, snap.maxRetries),
		)
		if snap.retryErr != nil {
			s += fmt.Sprintf("  %s\n", helpStyle.Render(snap.retryErr.Error()))
		}
		s += "\n"

	case stageDownloading:
		s += fmt.Sprintf("  %s %s: %s (%s)\n\n",
			m.spinner.View(),
			m.t.Download.Downloading,
			infoStyle.Render(runewidth.Truncate(snap.title, maxTitleWidth, "…")),
			snap.quality,
		)
		s += fmt.Sprintf("  %s\n\n", m.progress.View())

		if snap.total > 0 {
			eta := calculateETA(snap.total-snap.current, snap.speed)
			s += fmt.Sprintf("  %s: %.1f%%  |  %s/%s  |  %s: %s/s  |  %s: %s\n",
				m.t.Download.Progress,
				snap.fraction*100,
				formatBytes(snap.current),
				formatBytes(snap.total),
				m.t.Download.Speed,
				formatBytes(int64(snap.speed)),
				m.t.Download.ETA,
				eta,
			)
		} else {
			s += fmt.Sprintf("  %s  |  %s: %s/s\n",
				formatBytes(snap.current),
				m.t.Download.Speed,
				formatBytes(int64(snap.speed)),
			)
		}
	}

	s += "\n"
	s += helpStyle.Render("  " + m.t.Download.CancelHint)
	s += "\n"

	return s
}

// RunTUI runs d with a TUI progress display. Quitting the TUI cancels the
// download, which is reported as a failure wrapping ErrCancelled.
func RunTUI(ctx context.Context, d *Downloader, req Request, lang string) (*Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	state := newDownloadState(req.MaxRetries)
	dl := d.With(
		WithProgress(state.progress),
		WithAttemptHook(state.attemptStarted),
		WithResolvedHook(state.resolved),
		WithRetryHook(state.retrying),
	)

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		state.finish(dl.Download(ctx, req))
	}()

	final, err := tea.NewProgram(newDownloadModel(req.SourceURL, lang, state)).Run()

	// Stops the download when the user quit early; no-op otherwise
	cancel()
	<-finished

	if err != nil {
		return nil, err
	}
	result, err := state.outcome()
	if m, ok := final.(downloadModel); ok && m.cancelled {
		return cancelledOutcome(result, err)
	}
	return result, err
}

// cancelledOutcome reports a user quit. A download that completed before the
// quit took effect still counts as a success.
func cancelledOutcome(result *Result, err error) (*Result, error) {
	if err == nil {
		return result, nil
	}
	failure := &Failure{
		Kind:   extractor.KindOther,
		Reason: ErrCancelled.Error(),
		Err:    fmt.Errorf("%w: %w", ErrCancelled, err),
	}
	var prev *Failure
	if errors.As(err, &prev) {
		failure.Attempts = prev.Attempts
	}
	return nil, failure
}

func calculateETA(remaining int64, speed float64) string {
	if speed <= 0 {
		return "??:??"
	}
	eta := time.Duration(float64(remaining)/speed) * time.Second
	return formatDuration(eta)
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		return "??:??"
	}
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	if m > 60 {
		h := m / 60
		m = m % 60
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
