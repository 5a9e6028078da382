package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/invoicer/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/engine"
	"github.com/MrJamesThe3rd/invoicer/internal/export"
	"github.com/MrJamesThe3rd/invoicer/internal/extractor/gemini"
	"github.com/MrJamesThe3rd/invoicer/internal/session"
)

type model struct {
	common   view.CommonModel
	svc      *session.Service
	exporter *export.Service

	currentView View
	size        tea.WindowSizeMsg
	status      string

	chatView    view.ChatModel
	detailsView view.DetailsModel
	itemsView   view.ItemsModel
	previewView view.PreviewModel
	importView  view.ImportModel
}

type View int

const (
	ViewMenu    View = 0
	ViewChat    View = 1
	ViewDetails View = 2
	ViewItems   View = 3
	ViewPreview View = 4
	ViewImport  View = 5
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	setupLogging(cfg.TUI.LogFile)

	profile, err := config.LoadProfile(cfg.Profile.Path)
	if err != nil {
		slog.Error("failed to load profile", "error", err)
		os.Exit(1)
	}

	extractor := gemini.New(gemini.Config{
		APIKey:  cfg.GeminiKey(),
		Model:   cfg.Gemini.Model,
		Timeout: cfg.Gemini.Timeout,
	})

	svc := session.NewService(session.NewStore(engine.WithProfile(profile)), extractor)
	id, _ := svc.Create()
	common := view.NewCommonModel(svc, id)
	exporter := export.NewService(cfg.Export.Dir)

	return model{
		common:      common,
		svc:         svc,
		exporter:    exporter,
		currentView: ViewMenu,
		chatView:    view.NewChatModel(common),
		detailsView: view.NewDetailsModel(common),
		itemsView:   view.NewItemsModel(common),
		previewView: view.NewPreviewModel(common, exporter),
		importView:  view.NewImportModel(common),
	}
}

// setupLogging keeps slog output away from the terminal the UI draws on.
func setupLogging(path string) {
	var w io.Writer = io.Discard

	if path != "" {
		f, err := tea.LogToFile(path, "invoicer")
		if err == nil {
			w = f
		}
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, nil)))
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewChat
				m.chatView = view.NewChatModel(m.common)

				return m, tea.Batch(m.chatView.Init(), m.resize())
			case "2":
				m.currentView = ViewDetails
				m.detailsView, cmd = view.NewDetailsModel(m.common).Load()

				return m, cmd
			case "3":
				m.currentView = ViewItems
				m.itemsView = view.NewItemsModel(m.common)

				return m, tea.Batch(m.itemsView.Init(), m.resize())
			case "4":
				m.currentView = ViewPreview
				m.previewView = view.NewPreviewModel(m.common, m.exporter)

				return m, tea.Batch(m.previewView.Init(), m.resize())
			case "5":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.common)

				return m, m.importView.Init()
			case "r":
				if _, err := m.svc.Reset(m.common.SessionID()); err != nil {
					m.status = "Reset failed: " + err.Error()
				} else {
					m.status = "Invoice reset."
				}

				return m, nil
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewChat:
		var newModel tea.Model
		newModel, cmd = m.chatView.Update(msg)
		m.chatView = newModel.(view.ChatModel)
	case ViewDetails:
		var newModel tea.Model
		newModel, cmd = m.detailsView.Update(msg)
		m.detailsView = newModel.(view.DetailsModel)
	case ViewItems:
		var newModel tea.Model
		newModel, cmd = m.itemsView.Update(msg)
		m.itemsView = newModel.(view.ItemsModel)
	case ViewPreview:
		var newModel tea.Model
		newModel, cmd = m.previewView.Update(msg)
		m.previewView = newModel.(view.PreviewModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	}

	return m, cmd
}

// resize replays the last known window size to a freshly built view.
func (m model) resize() tea.Cmd {
	if m.size.Width == 0 {
		return nil
	}

	size := m.size

	return func() tea.Msg { return size }
}

func (m model) View() string {
	v := m.active()
	if v == nil {
		return m.viewMenu()
	}

	footer := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(v.Title() + " · " + v.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, v.View(), footer)
}

func (m model) active() view.View {
	switch m.currentView {
	case ViewChat:
		return m.chatView
	case ViewDetails:
		return m.detailsView
	case ViewItems:
		return m.itemsView
	case ViewPreview:
		return m.previewView
	case ViewImport:
		return m.importView
	}

	return nil
}

func (m model) viewMenu() string {
	state, err := m.svc.State(m.common.SessionID())
	summary := ""

	if err == nil {
		summary = fmt.Sprintf("Invoice %s | version %d | %d item(s)\n\n",
			state.Record.InvoiceNumber, state.Version, len(state.Record.Items))
	}

	menu := "Invoicer TUI\n\n" + summary +
		"1. Chat\n" +
		"2. Edit Details\n" +
		"3. Line Items\n" +
		"4. Preview\n" +
		"5. Import Transcript\n\n" +
		"r. Reset Invoice\n" +
		"q. Quit"

	if m.status != "" {
		menu += "\n\n" + lipgloss.NewStyle().Faint(true).Render(m.status)
	}

	return lipgloss.NewStyle().Padding(2).Render(menu)
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
