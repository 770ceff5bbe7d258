package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/furkhad/youtube/internal/core/i18n"
)

const asciiArt = `
 ▀█▀ █ █ █▀▄ █▀▀ █▀▀ █▀█ █▀█ █▀▄
  █  █ █ █▀▄ █▀▀ █ █ █▀▄ █▀█ █▀▄
  ▀  ▀▀▀ ▀▀  ▀▀▀ ▀▀▀ ▀ ▀ ▀ ▀ ▀▀
`

const (
	stepLanguage = iota
	stepOutputDir
	stepRetries
	stepConfirm
	stepCount
)

var (
	logoStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	stepStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("248"))
	selectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	unselectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	cursorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	inputStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	inputCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("248")).Width(14)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	containerStyle   = lipgloss.NewStyle().Padding(2, 4)
)

// ErrCancelled is returned when the user leaves the wizard without saving
var ErrCancelled = errors.New("configuration cancelled")

type model struct {
	currentStep int
	cursor      int
	config      *Config
	confirmed   bool
	cancelled   bool
	inputBuffer string
	inputCursor int
	width       int
	height      int
}

func initialModel(cfg *Config) model {
	m := model{
		currentStep: 0,
		cursor:      0,
		config:      cfg,
	}

	// Set initial cursor position for language
	m.setCursorFromConfig()

	return m
}

func (m *model) t() *i18n.Translations {
	return i18n.GetTranslations(m.config.Language)
}

func (m *model) getStepTitle() string {
	t := m.t()
	switch m.currentStep {
	case stepLanguage:
		return t.Config.Language
	case stepOutputDir:
		return t.Config.OutputDir
	case stepRetries:
		return t.Config.Retries
	case stepConfirm:
		return t.Config.Confirm
	}
	return ""
}

func (m *model) getStepDescription() string {
	t := m.t()
	switch m.currentStep {
	case stepLanguage:
		return t.Config.LanguageDesc
	case stepOutputDir:
		return t.Config.OutputDirDesc
	case stepRetries:
		return t.Config.RetriesDesc
	case stepConfirm:
		return t.Config.ConfirmDesc
	}
	return ""
}

func (m *model) getOptions() []struct{ label, value string } {
	t := m.t()
	switch m.currentStep {
	case stepLanguage:
		opts := make([]struct{ label, value string }, len(i18n.SupportedLanguages))
		for i, lang := range i18n.SupportedLanguages {
			opts[i] = struct{ label, value string }{lang.Name, lang.Code}
		}
		return opts
	case stepRetries:
		return []struct{ label, value string }{
			{"1", "1"},
			{"3 (" + t.Config.Recommended + ")", "3"},
			{"5", "5"},
			{"10", "10"},
		}
	case stepConfirm:
		return []struct{ label, value string }{
			{t.Config.YesSave, "yes"},
			{t.Config.NoCancel, "no"},
		}
	}
	return nil
}

func (m *model) isInputStep() bool {
	return m.currentStep == stepOutputDir
}

func (m *model) setCursorFromConfig() {
	if m.isInputStep() {
		m.inputBuffer = m.config.OutputDir
		m.inputCursor = len(m.inputBuffer)
		return
	}

	var currentValue string
	switch m.currentStep {
	case stepLanguage:
		currentValue = m.config.Language
	case stepRetries:
		currentValue = strconv.Itoa(m.config.MaxRetries)
	}

	options := m.getOptions()
	for i, opt := range options {
		if opt.value == currentValue {
			m.cursor = i
			break
		}
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "left":
			if m.currentStep > 0 {
				m.saveCurrentValue()
				m.currentStep--
				m.cursor = 0
				m.setCursorFromConfig()
			}
			return m, nil

		case "right", "enter":
			m.saveCurrentValue()

			if m.currentStep == stepConfirm {
				if m.cursor == 0 {
					m.confirmed = true
				} else {
					m.cancelled = true
				}
				return m, tea.Quit
			}

			m.currentStep++
			m.cursor = 0
			m.setCursorFromConfig()
			return m, nil

		case "up", "k":
			if m.isInputStep() {
				m.typeRunes(msg)
			} else {
				options := m.getOptions()
				if m.cursor > 0 {
					m.cursor--
				} else {
					m.cursor = len(options) - 1
				}
			}
			return m, nil

		case "down", "j":
			if m.isInputStep() {
				m.typeRunes(msg)
			} else {
				options := m.getOptions()
				if m.cursor < len(options)-1 {
					m.cursor++
				} else {
					m.cursor = 0
				}
			}
			return m, nil

		case "backspace":
			if m.isInputStep() && len(m.inputBuffer) > 0 {
				r := []rune(m.inputBuffer)
				m.inputBuffer = string(r[:len(r)-1])
			}
			return m, nil

		default:
			if m.isInputStep() {
				m.typeRunes(msg)
			}
			return m, nil
		}
	}

	return m, nil
}

func (m *model) typeRunes(msg tea.KeyMsg) {
	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		m.inputBuffer += string(msg.Runes)
	}
}

func (m *model) saveCurrentValue() {
	if m.isInputStep() {
		m.config.OutputDir = ExpandPath(strings.TrimSpace(m.inputBuffer))
		return
	}

	options := m.getOptions()
	if m.cursor < len(options) {
		value := options[m.cursor].value
		switch m.currentStep {
		case stepLanguage:
			m.config.Language = value
		case stepRetries:
			if n, err := strconv.Atoi(value); err == nil {
				m.config.MaxRetries = n
			}
		}
	}
}

func (m model) View() string {
	var b strings.Builder
	t := m.t()

	// Logo
	b.WriteString(logoStyle.Render(asciiArt))
	b.WriteString("\n\n")

	// Progress indicator
	progress := fmt.Sprintf(t.Config.StepOf, m.currentStep+1, stepCount)
	b.WriteString(stepStyle.Render(progress))
	b.WriteString("\n\n")

	// Title
	b.WriteString(titleStyle.Render(m.getStepTitle()))
	b.WriteString("\n")
	b.WriteString(stepStyle.Render(m.getStepDescription()))
	b.WriteString("\n\n")

	// Content
	if m.currentStep == stepConfirm {
		b.WriteString(m.renderReview())
		b.WriteString("\n")
	}

	if m.isInputStep() {
		// Input field
		b.WriteString(inputCursorStyle.Render("> "))
		b.WriteString(inputStyle.Render(m.inputBuffer))
		b.WriteString(inputCursorStyle.Render("█"))
		b.WriteString("\n")
	} else {
		// Options
		options := m.getOptions()
		for i, opt := range options {
			cursor := "  "
			style := unselectedStyle
			if i == m.cursor {
				cursor = cursorStyle.Render("> ")
				style = selectedStyle
			}
			b.WriteString(cursor)
			b.WriteString(style.Render(opt.label))
			b.WriteString("\n")
		}
	}

	// Help
	b.WriteString("\n")
	help := fmt.Sprintf("← %s • → %s • ↑↓ %s • enter %s • esc %s",
		t.Help.Back, t.Help.Next, t.Help.Select, t.Help.Confirm, t.Help.Quit)
	b.WriteString(helpStyle.Render(help))

	// Apply padding
	content := containerStyle.Render(b.String())

	// Make it fullscreen
	if m.width > 0 && m.height > 0 {
		content = lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, content)
	}

	return content
}

func (m model) renderReview() string {
	var b strings.Builder
	t := m.t()

	outputDir := m.config.OutputDir
	if outputDir == "" {
		outputDir = "."
	}

	lines := []struct {
		label string
		value string
	}{
		{t.ConfigReview.Language, getLanguageName(m.config.Language)},
		{t.ConfigReview.OutputDir, outputDir},
		{t.ConfigReview.Retries, strconv.Itoa(m.config.MaxRetries)},
	}

	for _, line := range lines {
		b.WriteString(labelStyle.Render(line.label + ":"))
		b.WriteString(valueStyle.Render(line.value))
		b.WriteString("\n")
	}

	return b.String()
}

// RunInitWizard runs an interactive TUI wizard to configure tubegrab
func RunInitWizard() (*Config, error) {
	// Load existing config or use defaults
	cfg := LoadOrDefault()

	m := initialModel(cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	result := finalModel.(model)
	if result.cancelled {
		return nil, ErrCancelled
	}

	return result.config, nil
}

func getLanguageName(code string) string {
	for _, lang := range i18n.SupportedLanguages {
		if lang.Code == code {
			return lang.Name
		}
	}
	return code
}
