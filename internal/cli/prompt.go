package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/furkhad/youtube/internal/core/config"
	"github.com/furkhad/youtube/internal/core/extractor"
	"github.com/furkhad/youtube/internal/core/i18n"
)

var (
	promptLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	promptHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

var errPromptCancelled = errors.New("cancelled")

// promptRequest asks for the video URL and the output directory. An empty
// directory answer keeps defaultDir.
func promptRequest(interactive bool, t *i18n.Translations, defaultDir string) (string, string, error) {
	if interactive {
		return promptRequestTUI(t, defaultDir)
	}
	return promptRequestFrom(os.Stdin, os.Stdout, t, defaultDir)
}

func promptRequestFrom(r io.Reader, w io.Writer, t *i18n.Translations, defaultDir string) (string, string, error) {
	reader := bufio.NewReader(r)

	rawURL, err := promptLine(reader, w, t.Prompt.EnterURL)
	if err != nil {
		return "", "", err
	}
	if rawURL == "" {
		return "", "", extractor.InvalidInput("no URL given")
	}

	label := fmt.Sprintf("%s (%s)", t.Prompt.EnterOutputDir, t.Prompt.OutputDirHint)
	if defaultDir != "" {
		label = fmt.Sprintf("%s [%s]", t.Prompt.EnterOutputDir, defaultDir)
	}
	dir, err := promptLine(reader, w, label)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", "", err
	}
	if dir == "" {
		dir = defaultDir
	}
	return rawURL, config.ExpandPath(dir), nil
}

// promptLine prints label and reads one trimmed line. A final line without a
// newline is accepted.
func promptLine(reader *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprintf(w, "%s: ", label)
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptRequestTUI(t *i18n.Translations, defaultDir string) (string, string, error) {
	rawURL, err := runPrompt(t.Prompt.EnterURL, "https://www.youtube.com/watch?v=...", "")
	if err != nil {
		return "", "", err
	}
	if rawURL == "" {
		return "", "", extractor.InvalidInput("no URL given")
	}

	dir, err := runPrompt(t.Prompt.EnterOutputDir, t.Prompt.OutputDirHint, defaultDir)
	if err != nil {
		return "", "", err
	}
	if dir == "" {
		dir = defaultDir
	}
	return rawURL, config.ExpandPath(dir), nil
}

type promptModel struct {
	input     textinput.Model
	label     string
	done      bool
	cancelled bool
}

func newPromptModel(label, placeholder, initial string) promptModel {
	in := textinput.New()
	in.Placeholder = placeholder
	in.SetValue(initial)
	in.CharLimit = 2048
	in.Width = 60
	in.Focus()

	return promptModel{input: in, label: label}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	return fmt.Sprintf("\n  %s\n  %s\n\n  %s\n",
		promptLabelStyle.Render(m.label),
		m.input.View(),
		promptHintStyle.Render("enter ✓ • esc ✗"),
	)
}

func (m promptModel) value() string {
	return strings.TrimSpace(m.input.Value())
}

func runPrompt(label, placeholder, initial string) (string, error) {
	final, err := tea.NewProgram(newPromptModel(label, placeholder, initial)).Run()
	if err != nil {
		return "", err
	}
	m := final.(promptModel)
	if m.cancelled {
		return "", errPromptCancelled
	}
	return m.value(), nil
}
