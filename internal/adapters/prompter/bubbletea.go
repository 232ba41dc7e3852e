package prompter

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/emiliopalmerini/orpheus/internal/domain"
)

// BubbleTeaPrompter asks yes/no questions with a small TUI.
type BubbleTeaPrompter struct {
	logger *slog.Logger
}

func NewBubbleTeaPrompter(logger *slog.Logger) *BubbleTeaPrompter {
	if logger == nil {
		logger = slog.Default()
	}
	return &BubbleTeaPrompter{logger: logger}
}

// AskYesNo runs the TUI on /dev/tty. Cancelling with q, esc or ctrl+c is
// neither a yes nor a no and fails with domain.ErrValidation.
func (p *BubbleTeaPrompter) AskYesNo(prompt string) (bool, error) {
	if os.Getenv("TERM") == "" {
		_ = os.Setenv("TERM", "xterm-256color")
	}

	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return false, fmt.Errorf("tty not available: %w", err)
	}
	defer func() { _ = tty.Close() }()

	prog := tea.NewProgram(newModel(prompt), tea.WithInput(tty), tea.WithOutput(tty))
	final, err := prog.Run()
	if err != nil {
		p.logger.Debug("TUI error", "error", err)
		return false, err
	}

	return final.(model).result()
}

type styles struct {
	title      lipgloss.Style
	cursor     lipgloss.Style
	unselected lipgloss.Style
	help       lipgloss.Style
	container  lipgloss.Style
}

func newStyles() styles {
	white := lipgloss.Color("#FFFFFF")
	black := lipgloss.Color("#000000")
	gray600 := lipgloss.Color("#757575")
	gray700 := lipgloss.Color("#616161")

	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(white),
		cursor: lipgloss.NewStyle().
			Foreground(black).
			Background(white).
			Bold(true),
		unselected: lipgloss.NewStyle().
			Foreground(gray600),
		help: lipgloss.NewStyle().
			Foreground(gray700).
			MarginTop(1),
		container: lipgloss.NewStyle().
			Padding(1, 2),
	}
}

type model struct {
	prompt    string
	yes       bool
	done      bool
	cancelled bool
	styles    styles
}

func newModel(prompt string) model {
	return model{prompt: prompt, yes: true, styles: newStyles()}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.cancelled = true
		return m, tea.Quit
	case "h", "left", "l", "right", "tab":
		m.yes = !m.yes
	case "y":
		m.yes = true
		m.done = true
		return m, tea.Quit
	case "n":
		m.yes = false
		m.done = true
		return m, tea.Quit
	case "enter":
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.title.Render(strings.ToUpper(m.prompt)))
	b.WriteString("\n\n  ")
	for _, opt := range []struct {
		label string
		yes   bool
	}{{"Yes", true}, {"No", false}} {
		if opt.yes == m.yes {
			b.WriteString(m.styles.cursor.Render(" " + opt.label + " "))
		} else {
			b.WriteString(m.styles.unselected.Render(" " + opt.label + " "))
		}
		b.WriteString("  ")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.help.Render("h/l: move  y/n: answer  enter: confirm  q: cancel"))

	return m.styles.container.Render(b.String())
}

func (m model) result() (bool, error) {
	if m.cancelled || !m.done {
		return false, fmt.Errorf("%w: prompt cancelled", domain.ErrValidation)
	}
	return m.yes, nil
}
