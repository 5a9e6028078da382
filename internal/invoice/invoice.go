package invoice

// SignatureSource selects whose name is printed under the signature line.
type SignatureSource string

const (
	SignatureFrom   SignatureSource = "from"
	SignatureTo     SignatureSource = "to"
	SignatureCustom SignatureSource = "custom"
)

// Valid reports whether s is one of the known signature sources.
func (s SignatureSource) Valid() bool {
	switch s {
	case SignatureFrom, SignatureTo, SignatureCustom:
		return true
	}

	return false
}

// Party holds the contact details of the issuer or the client.
type Party struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// LineItem is a single billable row. Identity is the ID, never the content.
type LineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// Amount returns quantity × unit price.
func (it LineItem) Amount() float64 {
	return it.Quantity * it.UnitPrice
}

// Signature describes the signature block. Name is only used when Source is custom.
type Signature struct {
	Enabled bool            `json:"enabled"`
	Source  SignatureSource `json:"source"`
	Name    string          `json:"name"`
}

// Record is the canonical invoice.
type Record struct {
	From          Party      `json:"from"`
	To            Party      `json:"to"`
	InvoiceNumber string     `json:"invoiceNumber"`
	IssueDate     string     `json:"issueDate"`
	DueDate       string     `json:"dueDate"`
	Currency      string     `json:"currency"`
	TaxRate       float64    `json:"taxRate"`
	Discount      float64    `json:"discount"`
	Items         []LineItem `json:"items"`
	Notes         string     `json:"notes"`
	Terms         string     `json:"terms"`
	Signature     Signature  `json:"signature"`
}

// Clone returns a copy of r that shares no mutable state with it.
func (r Record) Clone() Record {
	out := r
	if r.Items != nil {
		out.Items = make([]LineItem, len(r.Items))
		copy(out.Items, r.Items)
	}

	return out
}

// ItemIndex returns the position of the item with the given id, or -1.
func (r Record) ItemIndex(id string) int {
	for i, it := range r.Items {
		if it.ID == id {
			return i
		}
	}

	return -1
}

// Signatory returns the name printed under the signature line, or "" when the
// signature is disabled.
func (r Record) Signatory() string {
	if !r.Signature.Enabled {
		return ""
	}

	switch r.Signature.Source {
	case SignatureTo:
		return r.To.Name
	case SignatureCustom:
		return r.Signature.Name
	default:
		return r.From.Name
	}
}
