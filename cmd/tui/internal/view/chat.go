package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/invoicer/internal/chat"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/session"
)

type chatState int

const (
	chatStateIdle chatState = iota
	chatStateWaiting
)

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type ChatModel struct {
	CommonModel

	state    chatState
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	messages []chat.Message
	missing  []string
	done     bool
	err      error
}

func NewChatModel(c CommonModel) ChatModel {
	ti := textinput.New()
	ti.Placeholder = "Tell me about the invoice..."
	ti.Prompt = "> "
	ti.CharLimit = 2000
	ti.Width = 70
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := ChatModel{
		CommonModel: c,
		viewport:    viewport.New(80, 18),
		input:       ti,
		spinner:     s,
	}
	m.reload()

	return m
}

func (m ChatModel) Title() string { return "Chat" }

func (m ChatModel) ShortHelp() string {
	if m.state == chatStateWaiting {
		return "Waiting for the assistant..."
	}

	return "Enter: send | Esc: back | PgUp/PgDn: scroll"
}

func (m ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = max(msg.Height-10, 5)
		m.input.Width = msg.Width - 8
		m.refreshViewport()

		return m, nil

	case turnResultMsg:
		m.state = chatStateIdle
		m.err = msg.err

		if msg.err == nil {
			m.done = msg.result.Done
		}

		m.reload()

		return m, textinput.Blink

	case spinner.TickMsg:
		if m.state != chatStateWaiting {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case tea.KeyMsg:
		if m.state == chatStateWaiting {
			return m, nil
		}

		switch msg.Type {
		case tea.KeyEsc:
			return m, Back
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}

			m.input.SetValue("")
			m.state = chatStateWaiting
			m.err = nil
			m.messages = append(m.messages, chat.Message{Role: chat.RoleUser, Content: text})
			m.refreshViewport()

			return m, tea.Batch(m.spinner.Tick, m.turnCmd(text))
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)

			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m ChatModel) View() string {
	status := ""

	switch {
	case m.state == chatStateWaiting:
		status = fmt.Sprintf("%s Thinking...", m.spinner.View())
	case m.err != nil:
		status = errorStyle.Render(fmt.Sprintf("Turn failed: %v", m.err))
	case m.done:
		status = activeStyle("All required details collected. Check the preview.")
	case len(m.missing) > 0:
		status = faint("Still missing: " + strings.Join(m.missing, ", "))
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		"",
		status,
		m.input.View(),
	))
}

func (m *ChatModel) reload() {
	state, err := m.svc.State(m.sessionID)
	if err != nil {
		m.err = err
		return
	}

	m.messages = state.Chat
	m.missing = invoice.Missing(state.Record)
	m.refreshViewport()
}

func (m *ChatModel) refreshViewport() {
	width := max(m.viewport.Width-2, 20)

	var b strings.Builder

	for _, msg := range m.messages {
		label := assistantStyle.Render("Assistant")
		if msg.Role == chat.RoleUser {
			label = userStyle.Render("You")
		}

		b.WriteString(label + "\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Render(msg.Content) + "\n\n")
	}

	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

type turnResultMsg struct {
	result *session.TurnResult
	err    error
}

func (m ChatModel) turnCmd(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := TurnCtx()
		defer cancel()

		result, err := m.svc.Turn(ctx, m.sessionID, text)

		return turnResultMsg{result: result, err: err}
	}
}
