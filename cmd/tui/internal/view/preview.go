package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/invoicer/internal/export"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/render"
)

type palette struct {
	accent lipgloss.Color
	border lipgloss.Border
	title  func(string) string
}

var palettes = map[render.Theme]palette{
	render.ThemeProfessional: {
		accent: lipgloss.Color("63"),
		border: lipgloss.NormalBorder(),
		title:  strings.ToUpper,
	},
	render.ThemeCreative: {
		accent: lipgloss.Color("205"),
		border: lipgloss.RoundedBorder(),
		title:  func(s string) string { return "~ " + s + " ~" },
	},
}

type PreviewModel struct {
	CommonModel

	exporter *export.Service
	theme    render.Theme
	snapshot render.Snapshot
	viewport viewport.Model
	status   string
	err      error
}

type exportedMsg struct {
	path string
	err  error
}

func NewPreviewModel(c CommonModel, exporter *export.Service) PreviewModel {
	m := PreviewModel{
		CommonModel: c,
		exporter:    exporter,
		theme:       render.ThemeProfessional,
		viewport:    viewport.New(90, 24),
	}
	m.refresh()

	return m
}

func (m PreviewModel) Title() string { return "Preview" }

func (m PreviewModel) ShortHelp() string {
	return "t: toggle theme | x: export | ↑/↓: scroll | Esc: back"
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = max(msg.Height-6, 5)

		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "t":
			m.theme = m.theme.Next()
			m.refresh()

			return m, nil
		case "x":
			m.status = "Exporting..."
			return m, m.exportCmd()
		}
	case exportedMsg:
		if msg.err != nil {
			m.status = "Export failed: " + msg.err.Error()
		} else {
			m.status = "Exported to " + msg.path
		}

		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)

	return m, cmd
}

func (m PreviewModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v\n\n(Esc to back)", m.err))
	}

	header := fmt.Sprintf("Theme: %s", activeStyle(string(m.theme)))
	if m.status != "" {
		header += "  " + faint(m.status)
	}

	return lipgloss.NewStyle().Padding(1).Render(header + "\n" + m.viewport.View())
}

func (m *PreviewModel) refresh() {
	state, err := m.svc.State(m.sessionID)
	if err != nil {
		m.err = err
		return
	}

	m.snapshot = render.New(state.Record, m.theme)
	m.viewport.SetContent(Document(m.snapshot))
	m.viewport.GotoTop()
}

func (m PreviewModel) exportCmd() tea.Cmd {
	snap := m.snapshot
	exporter := m.exporter

	return func() tea.Msg {
		path, err := exporter.Export(context.Background(), snap)
		return exportedMsg{path: path, err: err}
	}
}

// Document lays out a snapshot as a printable page.
func Document(s render.Snapshot) string {
	p, ok := palettes[s.Theme]
	if !ok {
		p = palettes[render.ThemeProfessional]
	}

	accent := lipgloss.NewStyle().Foreground(p.accent).Bold(true)
	r := s.Record

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(40).Render(accent.Render(p.title("Invoice"))+"\n"+r.InvoiceNumber),
		lipgloss.NewStyle().Width(30).Align(lipgloss.Right).Render(
			fmt.Sprintf("Issued: %s\nDue: %s", r.IssueDate, r.DueDate)),
	)

	parties := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(40).Render(partyBlock(accent.Render("From"), r.From)),
		lipgloss.NewStyle().Width(30).Render(partyBlock(accent.Render("Bill to"), r.To)),
	)

	var lines strings.Builder

	fmt.Fprintf(&lines, "%-32s %8s %14s %14s\n", "Description", "Qty", "Unit price", "Amount")

	for _, l := range s.Lines {
		fmt.Fprintf(&lines, "%-32s %8s %14s %14s\n",
			truncate(l.Description, 32), FormatNumber(l.Quantity), l.UnitPriceText, l.AmountText)
	}

	if len(s.Lines) == 0 {
		lines.WriteString(faint("No items yet.") + "\n")
	}

	var summary strings.Builder

	for i, sl := range s.Summary {
		row := fmt.Sprintf("%56s %14s", sl.Label, sl.Text)
		if i == len(s.Summary)-1 {
			row = accent.Render(row)
		}

		summary.WriteString(row + "\n")
	}

	sections := []string{header, "", parties, "", lines.String(), summary.String()}

	if r.Notes != "" {
		sections = append(sections, accent.Render("Notes"), r.Notes, "")
	}

	if r.Terms != "" {
		sections = append(sections, accent.Render("Terms"), r.Terms, "")
	}

	if s.Signatory != "" {
		sections = append(sections, "", "______________________", s.Signatory)
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(p.border).
		BorderForeground(p.accent).
		Render(strings.Join(sections, "\n"))
}

func partyBlock(title string, p invoice.Party) string {
	parts := []string{title}

	for _, v := range []string{p.Name, p.Address, p.Email, p.Phone} {
		if v != "" {
			parts = append(parts, v)
		}
	}

	return strings.Join(parts, "\n")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n-1]) + "…"
}
