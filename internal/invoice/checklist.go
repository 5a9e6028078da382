package invoice

import "strings"

// Missing lists the fields the completion checklist still needs, in the order
// the assistant asks for them. A zero tax rate or discount counts as not set.
func Missing(r Record) []string {
	var missing []string

	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	for _, p := range []struct {
		prefix string
		party  Party
	}{
		{"from", r.From},
		{"to", r.To},
	} {
		check(p.prefix+".name", p.party.Name)
		check(p.prefix+".email", p.party.Email)
		check(p.prefix+".phone", p.party.Phone)
		check(p.prefix+".address", p.party.Address)
	}

	check("invoiceNumber", r.InvoiceNumber)
	check("issueDate", r.IssueDate)
	check("dueDate", r.DueDate)
	check("currency", r.Currency)

	if !hasBillableItem(r.Items) {
		missing = append(missing, "items")
	}

	if r.TaxRate == 0 {
		missing = append(missing, "taxRate")
	}

	if r.Discount == 0 {
		missing = append(missing, "discount")
	}

	return missing
}

func hasBillableItem(items []LineItem) bool {
	for _, it := range items {
		if it.Quantity > 0 {
			return true
		}
	}

	return false
}
