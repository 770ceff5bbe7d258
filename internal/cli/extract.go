package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/furkhad/youtube/internal/core/extractor"
	"github.com/furkhad/youtube/internal/core/i18n"
)

var (
	extractInfoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	extractErrStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var errExtractCancelled = errors.New("extraction cancelled")

// extractState holds extraction state
type extractState struct {
	mu     sync.RWMutex
	done   bool
	err    error
	result *extractor.VideoMedia
}

func (s *extractState) setDone(result *extractor.VideoMedia) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
	s.result = result
}

func (s *extractState) setError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	s.done = true
}

func (s *extractState) get() (bool, *extractor.VideoMedia, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.done, s.result, s.err
}

type extractTickMsg time.Time

type extractModel struct {
	spinner spinner.Model
	t       *i18n.Translations
	url     string
	state   *extractState
}

func newExtractModel(url, lang string, state *extractState) extractModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return extractModel{
		spinner: s,
		t:       i18n.T(lang),
		url:     url,
		state:   state,
	}
}

func extractTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return extractTickMsg(t)
	})
}

func (m extractModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, extractTickCmd())
}

func (m extractModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case extractTickMsg:
		done, _, _ := m.state.get()
		if done {
			return m, tea.Quit
		}
		return m, extractTickCmd()
	}

	return m, nil
}

func (m extractModel) View() string {
	done, _, err := m.state.get()

	if err != nil {
		return fmt.Sprintf("\n  %s %s: %v\n\n",
			extractErrStyle.Render("✗"),
			describe(m.t, err),
			err,
		)
	}

	// Metadata is printed after the program exits
	if done {
		return "\n"
	}

	return fmt.Sprintf("\n  %s %s: %s\n\n",
		m.spinner.View(),
		m.t.Download.Resolving,
		extractInfoStyle.Render(m.url),
	)
}

// runExtractWithSpinner runs extraction with a spinner TUI
func runExtractWithSpinner(ctx context.Context, ext extractor.Extractor, url, lang string) (*extractor.VideoMedia, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	state := &extractState{}

	// Start extraction in background
	go func() {
		result, err := ext.Extract(ctx, url)
		if err != nil {
			state.setError(err)
		} else {
			state.setDone(result)
		}
	}()

	p := tea.NewProgram(newExtractModel(url, lang, state))
	if _, err := p.Run(); err != nil {
		return nil, err
	}

	done, result, extractErr := state.get()
	if !done {
		return nil, errExtractCancelled
	}
	if extractErr != nil {
		return nil, &shownError{err: extractErr}
	}

	return result, nil
}
