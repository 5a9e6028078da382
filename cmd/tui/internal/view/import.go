package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/invoicer/internal/transcript"
)

const replayTimeout = 10 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateConfirm
	importStateReplaying
	importStateResult
)

// ImportModel replays a saved transcript through the conversation.
type ImportModel struct {
	CommonModel

	state      importState
	filePicker filepicker.Model
	spinner    spinner.Model

	path     string
	turns    []string
	turnList list.Model

	status string
	err    error
}

func NewImportModel(c CommonModel) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".txt", ".log", ".md"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ImportModel{
		CommonModel: c,
		filePicker:  fp,
		spinner:     s,
	}
}

func (m ImportModel) Title() string { return "Import Transcript" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStateConfirm:
		return "Enter: replay | Esc: cancel"
	case importStateReplaying:
		return "Replaying..."
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateConfirm {
			return m.updateConfirm(msg)
		}

	case turnsLoadedMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		if len(msg.turns) == 0 {
			m.state = importStateResult
			m.status = "No user turns found in the transcript."

			return m, nil
		}

		m.turns = msg.turns
		m.state = importStateConfirm

		items := make([]list.Item, len(m.turns))
		for i, t := range m.turns {
			items[i] = turnItem{text: t, index: i}
		}

		m.turnList = list.New(items, turnDelegate{}, 80, 20)
		m.turnList.Title = fmt.Sprintf("%d turns in %s", len(m.turns), m.path)
		m.turnList.SetShowStatusBar(false)
		m.turnList.SetFilteringEnabled(false)
		m.turnList.SetShowHelp(false)

		return m, nil

	case replayResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Replayed %d of %d turns, then failed: %v", msg.applied, len(m.turns), msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Replayed %d turns.", msg.applied)

		return m, nil

	case spinner.TickMsg:
		if m.state != importStateReplaying {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.path = path
		m.status = fmt.Sprintf("Reading %s...", path)

		return m, loadTurnsCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateConfirm, importStateResult:
		m.state = importStateFilePick
		m.turns = nil
		m.err = nil
		m.status = ""

		return m, nil
	case importStateReplaying:
		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		m.state = importStateReplaying
		return m, tea.Batch(m.spinner.Tick, m.replayCmd())
	}

	var cmd tea.Cmd
	m.turnList, cmd = m.turnList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select a transcript (one user turn per line):\n\n%s", m.filePicker.View()),
		)
	case importStateConfirm:
		return lipgloss.NewStyle().Padding(1).Render(m.turnList.View())
	case importStateReplaying:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Replaying %d turns...", m.spinner.View(), len(m.turns)),
		)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.status) +
				"\n\n(Esc to go back)",
		)
	}

	return style.Render(
		lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(m.status) +
			"\n\n(Esc to go back)",
	)
}

// Messages

type turnsLoadedMsg struct {
	turns []string
	err   error
}

type replayResultMsg struct {
	applied int
	err     error
}

func loadTurnsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return turnsLoadedMsg{err: err}
		}
		defer f.Close()

		turns, err := transcript.Turns(f)

		return turnsLoadedMsg{turns: turns, err: err}
	}
}

func (m ImportModel) replayCmd() tea.Cmd {
	turns := m.turns

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), replayTimeout)
		defer cancel()

		applied, err := m.svc.Replay(ctx, m.sessionID, turns)

		return replayResultMsg{applied: applied, err: err}
	}
}

// Turn list item

type turnItem struct {
	text  string
	index int
}

func (i turnItem) Title() string       { return i.text }
func (i turnItem) Description() string { return "" }
func (i turnItem) FilterValue() string { return i.text }

type turnDelegate struct{}

func (d turnDelegate) Height() int                             { return 1 }
func (d turnDelegate) Spacing() int                            { return 0 }
func (d turnDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d turnDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(turnItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	fmt.Fprintf(w, "%s%3d. %s", cursor, item.index+1, truncate(item.text, 70))
}
