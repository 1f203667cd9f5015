package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// interactive credit accounting console
type ConsoleModel struct {
	input           textinput.Model
	viewport        viewport.Model
	spinner         spinner.Model
	glamourRenderer *glamour.TermRenderer
	apiClient       *APIClient
	width           int
	height          int
	ready           bool
	isFetching      bool
	statusLine      string
}

// returns a new console backed by the REST client
func NewConsole() *ConsoleModel {
	ti := textinput.New()
	ti.Placeholder = "status | history | bonus | help"
	ti.Focus()
	ti.CharLimit = 0
	ti.Width = 80
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorLightGray)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorWhite)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorLightGray)

	renderer, _ := glamour.NewTermRenderer( //nolint:errcheck // falls back to plain text below
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)

	return &ConsoleModel{
		input:           ti,
		spinner:         sp,
		glamourRenderer: renderer,
		apiClient:       NewAPIClient(),
	}
}

func (m *ConsoleModel) Init() tea.Cmd {
	// show the caller's allowance immediately
	m.isFetching = true
	return tea.Batch(m.spinner.Tick, m.apiClient.StatusCmd())
}

func (m *ConsoleModel) Update(msg tea.Msg) (*ConsoleModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" && !m.isFetching {
			if cmd := m.executeCommand(strings.TrimSpace(m.input.Value())); cmd != nil {
				m.input.SetValue("")
				return m, tea.Batch(m.spinner.Tick, cmd)
			}

			m.input.SetValue("")
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 10

		viewportHeight := max(msg.Height-8, 5)
		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.ready = true
			m.setContent(welcomeMarkdown)
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}

	case StatusMsg:
		m.isFetching = false
		m.statusLine = ""
		m.setContent(formatStatus(msg.status))

	case HistoryMsg:
		m.isFetching = false
		m.statusLine = ""
		m.setContent(formatHistory(msg.entries, msg.total))

	case BonusMsg:
		m.isFetching = false
		if msg.decision != nil && msg.decision.Allowed {
			m.statusLine = allowedStyle.Render("bonus granted")
		} else {
			m.statusLine = deniedStyle.Render("bonus denied")
		}
		m.setContent(formatBonus(msg.decision))

	case APIErrorMsg:
		m.isFetching = false
		m.statusLine = deniedStyle.Render("request failed")
		m.setContent(fmt.Sprintf("# %s failed\n\n```\n%v\n```\n", msg.command, msg.err))

	case spinner.TickMsg:
		if m.isFetching {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *ConsoleModel) executeCommand(command string) tea.Cmd {
	switch command {
	case "status":
		m.isFetching = true
		return m.apiClient.StatusCmd()

	case "history":
		m.isFetching = true
		return m.apiClient.HistoryCmd()

	case "bonus":
		m.isFetching = true
		return m.apiClient.ClaimDailyBonusCmd()

	case "help", "":
		m.setContent(welcomeMarkdown)
		return nil

	case "clear":
		m.setContent("")
		m.statusLine = ""
		return nil

	default:
		m.setContent(fmt.Sprintf("unknown command: `%s`\n\n%s", command, welcomeMarkdown))
		return nil
	}
}

// renders markdown into the viewport, falling back to the raw text
func (m *ConsoleModel) setContent(markdown string) {
	if !m.ready {
		return
	}

	content := markdown

	if m.glamourRenderer != nil {
		if rendered, err := m.glamourRenderer.Render(markdown); err == nil {
			content = rendered
		}
	}

	m.viewport.SetContent(content)
	m.viewport.GotoTop()
}

func (m *ConsoleModel) View() string {
	if !m.ready {
		return "\n  initializing..."
	}

	var b strings.Builder

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorWhite).
		Render("CREDIT CONSOLE")

	help := lipgloss.NewStyle().
		Foreground(colorGray).
		Render("[Enter: Run] [Ctrl+C: Back]")

	headerLine := lipgloss.JoinHorizontal(lipgloss.Left,
		header,
		strings.Repeat(" ", max(m.width-len("CREDIT CONSOLE")-len("[Enter: Run] [Ctrl+C: Back]")-2, 0)),
		help,
	)

	b.WriteString(headerLine)
	b.WriteString("\n\n")

	outputBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorGray).
		Width(m.width - 4).
		Render(m.viewport.View())

	b.WriteString(outputBox)
	b.WriteString("\n")

	inputBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorGray).
		Width(m.width - 4).
		Padding(0, 1).
		Render(m.input.View())

	b.WriteString(inputBox)
	b.WriteString("\n")

	if m.isFetching {
		b.WriteString(m.spinner.View())
		b.WriteString(infoStyle.Render(" talking to the server..."))
	} else if m.statusLine != "" {
		b.WriteString(m.statusLine)
	}

	return b.String()
}

const welcomeMarkdown = `# pixelforge credit console

Available commands:

- ` + "`status`" + ` - show the current credit balance or anonymous quota
- ` + "`history`" + ` - show the most recent ledger entries
- ` + "`bonus`" + ` - claim the daily credit bonus
- ` + "`clear`" + ` - clear the output
- ` + "`help`" + ` - show this message

Set ` + "`PIXELFORGE_TOKEN`" + ` to act as an authenticated account;
without it the console sees the anonymous quota for this machine.
`
