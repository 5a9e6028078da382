package invoice

// Totals are derived from a record and never stored apart from it.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discountAmount"`
	TaxableAmount  float64 `json:"taxableAmount"`
	TaxAmount      float64 `json:"taxAmount"`
	Total          float64 `json:"total"`
}

// ComputeTotals derives the financial totals of r. The order of operations is
// fixed and no rounding is applied; renderers must reproduce it exactly.
func ComputeTotals(r Record) Totals {
	var subtotal float64
	for _, it := range r.Items {
		subtotal += it.Amount()
	}

	discountAmount := (r.Discount / 100) * subtotal
	taxable := max(0, subtotal-discountAmount)
	taxAmount := (r.TaxRate / 100) * taxable

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxableAmount:  taxable,
		TaxAmount:      taxAmount,
		Total:          taxable + taxAmount,
	}
}
