package invoice

// ItemAction tags an item entry of a partial update.
type ItemAction string

const (
	ActionAdd    ItemAction = "add"
	ActionUpdate ItemAction = "update"
)

// PartyPatch is a sparse party; nil fields are left untouched on merge.
type PartyPatch struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}

// ItemUpdate is one entry of the items list of a partial update.
// An update without ID targets the last item of the record.
type ItemUpdate struct {
	Action      ItemAction `json:"action"`
	ID          string     `json:"id,omitempty"`
	Description *string    `json:"description,omitempty"`
	Quantity    *float64   `json:"quantity,omitempty"`
	UnitPrice   *float64   `json:"unitPrice,omitempty"`
}

// SignaturePatch is a sparse signature block.
type SignaturePatch struct {
	Enabled *bool            `json:"enabled,omitempty"`
	Source  *SignatureSource `json:"source,omitempty"`
	Name    *string          `json:"name,omitempty"`
}

// PartialRecord is a typed, already-validated partial update. Build it with
// DecodePartial when the input comes from outside the process.
type PartialRecord struct {
	From          *PartyPatch     `json:"from,omitempty"`
	To            *PartyPatch     `json:"to,omitempty"`
	InvoiceNumber *string         `json:"invoiceNumber,omitempty"`
	IssueDate     *string         `json:"issueDate,omitempty"`
	DueDate       *string         `json:"dueDate,omitempty"`
	Currency      *string         `json:"currency,omitempty"`
	TaxRate       *float64        `json:"taxRate,omitempty"`
	Discount      *float64        `json:"discount,omitempty"`
	Items         []ItemUpdate    `json:"items,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	Terms         *string         `json:"terms,omitempty"`
	Signature     *SignaturePatch `json:"signature,omitempty"`
}

// IsEmpty reports whether applying p would leave any record unchanged.
func (p PartialRecord) IsEmpty() bool {
	return p.From == nil && p.To == nil &&
		p.InvoiceNumber == nil && p.IssueDate == nil && p.DueDate == nil && p.Currency == nil &&
		p.TaxRate == nil && p.Discount == nil &&
		len(p.Items) == 0 &&
		p.Notes == nil && p.Terms == nil &&
		p.Signature == nil
}
