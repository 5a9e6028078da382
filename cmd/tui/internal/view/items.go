package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/invoicer/internal/engine"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/render"
)

type itemsState int

const (
	itemsStateBrowse itemsState = iota
	itemsStateEdit
)

type ItemsModel struct {
	CommonModel

	state  itemsState
	table  table.Model
	items  []invoice.LineItem
	symbol string
	total  string
	form   *huh.Form
	status string

	// editing is the id of the item being edited, empty when adding.
	editing string

	bind *itemForm
}

// itemForm holds the form bindings shared by every copy of the model.
type itemForm struct {
	desc  string
	qty   string
	price string
}

func NewItemsModel(c CommonModel) ItemsModel {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Description", Width: 36},
		{Title: "Qty", Width: 8},
		{Title: "Unit price", Width: 14},
		{Title: "Amount", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := ItemsModel{CommonModel: c, table: t}
	m.reload()

	return m
}

func (m ItemsModel) Title() string { return "Line Items" }

func (m ItemsModel) ShortHelp() string {
	if m.state == itemsStateEdit {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add | e: edit | d: delete"
}

func (m ItemsModel) Init() tea.Cmd {
	return nil
}

func (m ItemsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if sizeMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.table.SetHeight(max(sizeMsg.Height-12, 5))
		return m, nil
	}

	switch m.state {
	case itemsStateBrowse:
		return m.updateBrowse(msg)
	case itemsStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m ItemsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "a":
			return m.enterEditMode(nil)
		case "e":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.items) {
				return m, nil
			}

			return m.enterEditMode(&m.items[idx])
		case "d":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.items) {
				return m, nil
			}

			if _, err := m.svc.RemoveItem(m.sessionID, m.items[idx].ID); err != nil {
				m.status = fmt.Sprintf("Error deleting: %v", err)
				return m, nil
			}

			m.status = fmt.Sprintf("Deleted %q.", m.items[idx].Description)
			m.reload()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ItemsModel) enterEditMode(item *invoice.LineItem) (tea.Model, tea.Cmd) {
	m.editing = ""
	m.bind = &itemForm{qty: "1"}

	title := "Add Item"

	if item != nil {
		title = "Edit Item"
		m.editing = item.ID
		m.bind.desc = item.Description
		m.bind.qty = FormatNumber(item.Quantity)
		m.bind.price = FormatNumber(item.UnitPrice)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.bind.desc).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("description cannot be empty")
					}

					return nil
				}),
			huh.NewInput().
				Key("quantity").
				Title("Quantity").
				Value(&m.bind.qty).
				Validate(validNumber),
			huh.NewInput().
				Key("unit_price").
				Title("Unit price").
				Placeholder("0.00").
				Value(&m.bind.price).
				Validate(func(s string) error {
					n, ok := invoice.CoerceNumber(s)
					if !ok {
						return fmt.Errorf("not a number")
					}

					if n < 0 {
						return fmt.Errorf("price cannot be negative")
					}

					return nil
				}),
		).Title(title),
	).WithWidth(45).WithShowHelp(false)

	m.state = itemsStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m ItemsModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m.leaveEditMode(), nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.save()

	return m.leaveEditMode(), nil
}

func (m *ItemsModel) save() {
	var fields engine.ItemFields

	fields.Description = new(strings.TrimSpace(m.bind.desc))

	if n, ok := invoice.CoerceNumber(m.bind.qty); ok {
		fields.Quantity = new(n)
	}

	if n, ok := invoice.CoerceNumber(m.bind.price); ok {
		fields.UnitPrice = new(n)
	}

	if m.editing == "" {
		if _, _, err := m.svc.AddItem(m.sessionID, fields); err != nil {
			m.status = fmt.Sprintf("Error adding: %v", err)
			return
		}

		m.status = "Item added."

		return
	}

	if _, err := m.svc.UpdateItem(m.sessionID, m.editing, fields); err != nil {
		m.status = fmt.Sprintf("Error saving: %v", err)
		return
	}

	m.status = "Item updated."
}

func (m ItemsModel) leaveEditMode() ItemsModel {
	m.state = itemsStateBrowse
	m.form = nil
	m.editing = ""
	m.table.Focus()
	m.reload()

	return m
}

func (m ItemsModel) View() string {
	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		tableView,
		lipgloss.NewStyle().PaddingTop(1).Render("Total: "+activeStyle(m.total)),
	)

	if m.state == itemsStateEdit && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel(m.form.View()))
	}

	if m.status != "" {
		content = faint(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ItemsModel) reload() {
	state, err := m.svc.State(m.sessionID)
	if err != nil {
		m.status = fmt.Sprintf("Error: %v", err)
		return
	}

	m.items = state.Record.Items
	m.symbol = render.Symbol(state.Record.Currency)
	m.total = render.FormatMoney(m.symbol, state.Totals.Total)
	m.refreshTable()
}

func (m *ItemsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.items))
	for i, it := range m.items {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			it.Description,
			FormatNumber(it.Quantity),
			render.FormatMoney(m.symbol, it.UnitPrice),
			render.FormatMoney(m.symbol, it.Amount()),
		})
	}

	m.table.SetRows(rows)

	if cursor := m.table.Cursor(); cursor >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}
