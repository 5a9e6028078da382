package invoice

import "time"

const (
	// DefaultDueDays is the gap between issue and due date on a fresh record.
	DefaultDueDays = 7
	// SuggestedDueDays is the gap the assistant uses when asked to fill in a due date.
	// It is never applied to a fresh record.
	SuggestedDueDays = 14

	DefaultSenderName    = "Your Company"
	DefaultInvoiceNumber = "INV-0001"
	DefaultCurrency      = "USD"
	DefaultTerms         = "Payment due within 7 days."
	DefaultSignatureName = "Authorized Signatory"
	DefaultItemName      = "Item"
)

// Profile carries the per-deployment defaults for new records.
// Zero fields fall back to the package defaults.
type Profile struct {
	From     Party  `yaml:"from"`
	Terms    string `yaml:"terms"`
	Currency string `yaml:"currency"`
}

// NewRecord builds the seed record for a new session.
func NewRecord(now time.Time, p Profile) Record {
	from := p.From
	if from.Name == "" {
		from.Name = DefaultSenderName
	}

	terms := p.Terms
	if terms == "" {
		terms = DefaultTerms
	}

	currency := p.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	return Record{
		From:          from,
		InvoiceNumber: DefaultInvoiceNumber,
		IssueDate:     now.Format(time.DateOnly),
		DueDate:       now.AddDate(0, 0, DefaultDueDays).Format(time.DateOnly),
		Currency:      currency,
		Items:         []LineItem{},
		Terms:         terms,
		Signature: Signature{
			Enabled: true,
			Source:  SignatureFrom,
			Name:    DefaultSignatureName,
		},
	}
}

// SuggestedDueDate returns issue + SuggestedDueDays. It reports false when
// issue is not an ISO calendar date.
func SuggestedDueDate(issue string) (string, bool) {
	t, err := time.Parse(time.DateOnly, issue)
	if err != nil {
		return "", false
	}

	return t.AddDate(0, 0, SuggestedDueDays).Format(time.DateOnly), true
}
