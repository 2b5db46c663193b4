// Package tui is a terminal chat client for the plant journal.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/HendryAvila/plantbot/internal/commands"
)

// Sender delivers one chat line. *commands.Dispatcher implements it.
type Sender interface {
	HandleMessage(ctx context.Context, userID int64, text string) (commands.Outcome, error)
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5FAF5F")).
			MarginBottom(1)
	userStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
	botStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#DDDDDD"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	hintStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1)
)

type speaker int

const (
	fromUser speaker = iota
	fromBot
	fromError
)

type line struct {
	who  speaker
	text string
}

// replyMsg carries the dispatcher's answer back into Update.
type replyMsg struct {
	out commands.Outcome
	err error
}

// Model is the bubbletea model of the chat.
type Model struct {
	ctx    context.Context
	send   Sender
	userID int64

	input   textinput.Model
	history []line
	height  int
	waiting bool
}

// New creates a chat model sending as userID.
func New(ctx context.Context, send Sender, userID int64) Model {
	in := textinput.New()
	in.Placeholder = "/help"
	in.Prompt = "> "
	in.CharLimit = 500
	in.Focus()
	return Model{ctx: ctx, send: send, userID: userID, input: in}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.waiting {
				return m, nil
			}
			m.input.Reset()
			m.history = append(m.history, line{who: fromUser, text: text})
			m.waiting = true
			return m, m.deliver(text)
		}

	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.history = append(m.history, line{who: fromError, text: msg.err.Error()})
			return m, nil
		}
		if msg.out.Reply != "" {
			m.history = append(m.history, line{who: fromBot, text: msg.out.Reply})
		}
		if msg.out.Exit {
			return m, tea.Quit
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) deliver(text string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.send.HandleMessage(m.ctx, m.userID, text)
		return replyMsg{out: out, err: err}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("plantbot"))
	b.WriteString("\n")

	var rendered []string
	for _, l := range m.history {
		switch l.who {
		case fromUser:
			rendered = append(rendered, userStyle.Render("> "+l.text))
		case fromBot:
			rendered = append(rendered, botStyle.Render(l.text))
		case fromError:
			rendered = append(rendered, errorStyle.Render(l.text))
		}
	}
	body := strings.Join(rendered, "\n")
	if m.height > 0 {
		// Keep the newest lines visible above the title, input and hint.
		lines := strings.Split(body, "\n")
		if room := m.height - 6; room > 0 && len(lines) > room {
			body = strings.Join(lines[len(lines)-room:], "\n")
		}
	}
	if body != "" {
		b.WriteString(body)
		b.WriteString("\n\n")
	}

	b.WriteString(m.input.View())
	b.WriteString(hintStyle.Render("enter to send · /help for commands · /exit or ctrl+c to quit"))
	return b.String()
}

// Run starts the chat on the terminal and blocks until it quits.
func Run(ctx context.Context, send Sender, userID int64) error {
	p := tea.NewProgram(New(ctx, send, userID), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		// Cancelled by signal.
		return nil
	}
	return err
}
