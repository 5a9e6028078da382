package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/session"
)

// CommonModel is embedded by all views. Every view works on the same session.
type CommonModel struct {
	svc       *session.Service
	sessionID uuid.UUID

	Width  int
	Height int
}

func NewCommonModel(svc *session.Service, id uuid.UUID) CommonModel {
	return CommonModel{svc: svc, sessionID: id}
}

func (c CommonModel) SessionID() uuid.UUID {
	return c.sessionID
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func faint(s string) string {
	return lipgloss.NewStyle().Faint(true).Render(s)
}

func panel(s string) string {
	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(s)
}
