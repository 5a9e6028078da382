package view

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// DetailsModel edits every scalar field of the invoice in one form. Only the
// fields the user changed are written back.
type DetailsModel struct {
	CommonModel

	form     *huh.Form
	original map[invoice.Field]string
	values   map[invoice.Field]*string
	sigOn    *bool
	sigWas   bool
	status   string
	err      error
}

func NewDetailsModel(c CommonModel) DetailsModel {
	return DetailsModel{CommonModel: c}
}

func (m DetailsModel) Title() string { return "Edit Details" }

func (m DetailsModel) ShortHelp() string {
	return "Tab/Enter: next field | Esc: cancel"
}

func (m DetailsModel) Init() tea.Cmd {
	return nil
}

// Load rebuilds the form from the current record.
func (m DetailsModel) Load() (DetailsModel, tea.Cmd) {
	state, err := m.svc.State(m.sessionID)
	if err != nil {
		m.err = err
		return m, nil
	}

	r := state.Record

	m.original = map[invoice.Field]string{
		invoice.FieldFromName:        r.From.Name,
		invoice.FieldFromEmail:       r.From.Email,
		invoice.FieldFromPhone:       r.From.Phone,
		invoice.FieldFromAddress:     r.From.Address,
		invoice.FieldToName:          r.To.Name,
		invoice.FieldToEmail:         r.To.Email,
		invoice.FieldToPhone:         r.To.Phone,
		invoice.FieldToAddress:       r.To.Address,
		invoice.FieldInvoiceNumber:   r.InvoiceNumber,
		invoice.FieldIssueDate:       r.IssueDate,
		invoice.FieldDueDate:         r.DueDate,
		invoice.FieldCurrency:        r.Currency,
		invoice.FieldTaxRate:         FormatNumber(r.TaxRate),
		invoice.FieldDiscount:        FormatNumber(r.Discount),
		invoice.FieldNotes:           r.Notes,
		invoice.FieldTerms:           r.Terms,
		invoice.FieldSignatureSource: string(r.Signature.Source),
		invoice.FieldSignatureName:   r.Signature.Name,
	}

	m.values = make(map[invoice.Field]*string, len(m.original))
	for f, v := range m.original {
		m.values[f] = new(v)
	}

	m.sigOn = new(r.Signature.Enabled)
	m.sigWas = r.Signature.Enabled
	m.status = ""
	m.err = nil
	m.form = m.buildForm()

	return m, m.form.Init()
}

func (m DetailsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}

		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.form = nil
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	changed, err := m.save()
	m.form = nil

	if err != nil {
		m.err = err
		return m, nil
	}

	m.status = fmt.Sprintf("Saved %d field(s).", changed)

	return m, nil
}

func (m DetailsModel) save() (int, error) {
	changed := 0

	for _, f := range invoice.Fields() {
		v, ok := m.values[f]
		if !ok || *v == m.original[f] {
			continue
		}

		if _, err := m.svc.SetField(m.sessionID, string(f), *v); err != nil {
			return changed, fmt.Errorf("saving %s: %w", f, err)
		}

		changed++
	}

	if *m.sigOn != m.sigWas {
		if _, err := m.svc.SetField(m.sessionID, string(invoice.FieldSignatureEnabled), *m.sigOn); err != nil {
			return changed, fmt.Errorf("saving %s: %w", invoice.FieldSignatureEnabled, err)
		}

		changed++
	}

	return changed, nil
}

func (m DetailsModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v\n\n(Esc to back)", m.err))
	}

	if m.form == nil {
		return lipgloss.NewStyle().Padding(2).Render(m.status + "\n\n(Esc to back)")
	}

	return lipgloss.NewStyle().Padding(1).Render(panel(m.form.View()))
}

func (m DetailsModel) input(f invoice.Field, title string) *huh.Input {
	return huh.NewInput().Key(string(f)).Title(title).Value(m.values[f])
}

func (m DetailsModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			m.input(invoice.FieldFromName, "Your name / company"),
			m.input(invoice.FieldFromEmail, "Your email"),
			m.input(invoice.FieldFromPhone, "Your phone"),
			m.input(invoice.FieldFromAddress, "Your address"),
		).Title("Sender"),
		huh.NewGroup(
			m.input(invoice.FieldToName, "Client name"),
			m.input(invoice.FieldToEmail, "Client email"),
			m.input(invoice.FieldToPhone, "Client phone"),
			m.input(invoice.FieldToAddress, "Client address"),
		).Title("Client"),
		huh.NewGroup(
			m.input(invoice.FieldInvoiceNumber, "Invoice number"),
			m.input(invoice.FieldIssueDate, "Issue date").Placeholder("YYYY-MM-DD").Validate(validDate),
			m.input(invoice.FieldDueDate, "Due date").Placeholder("YYYY-MM-DD").Validate(validDate),
			m.input(invoice.FieldCurrency, "Currency").Placeholder("USD").CharLimit(3),
		).Title("Invoice"),
		huh.NewGroup(
			m.input(invoice.FieldTaxRate, "Tax rate (%)").Validate(validNumber),
			m.input(invoice.FieldDiscount, "Discount (%)").Validate(validNumber),
			huh.NewText().Key(string(invoice.FieldNotes)).Title("Notes").Value(m.values[invoice.FieldNotes]),
			huh.NewText().Key(string(invoice.FieldTerms)).Title("Terms").Value(m.values[invoice.FieldTerms]),
		).Title("Rates & notes"),
		huh.NewGroup(
			huh.NewConfirm().Title("Show signature?").Value(m.sigOn),
			huh.NewSelect[string]().
				Title("Signature from").
				Options(
					huh.NewOption("Sender", string(invoice.SignatureFrom)),
					huh.NewOption("Client", string(invoice.SignatureTo)),
					huh.NewOption("Custom", string(invoice.SignatureCustom)),
				).
				Value(m.values[invoice.FieldSignatureSource]),
			m.input(invoice.FieldSignatureName, "Signature name"),
		).Title("Signature"),
	).WithWidth(60).WithShowHelp(false)
}

func validDate(s string) error {
	if s == "" {
		return nil
	}

	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}

	return nil
}

func validNumber(s string) error {
	if _, ok := invoice.CoerceNumber(s); !ok {
		return fmt.Errorf("not a number")
	}

	return nil
}
