package invoice

// Reconcile merges update into current and returns the resulting record.
// current is never modified. newID supplies ids for added items.
//
// Scalars present in update overwrite; party fields merge one by one; item
// entries run in order, so an id-less update may target an item added earlier
// in the same call.
func Reconcile(current Record, update PartialRecord, newID func() string) Record {
	next := current.Clone()

	mergeParty(&next.From, update.From)
	mergeParty(&next.To, update.To)

	setString(&next.InvoiceNumber, update.InvoiceNumber)
	setString(&next.IssueDate, update.IssueDate)
	setString(&next.DueDate, update.DueDate)
	setString(&next.Currency, update.Currency)
	setString(&next.Notes, update.Notes)
	setString(&next.Terms, update.Terms)
	setFloat(&next.TaxRate, update.TaxRate)
	setFloat(&next.Discount, update.Discount)

	if s := update.Signature; s != nil {
		if s.Enabled != nil {
			next.Signature.Enabled = *s.Enabled
		}

		if s.Source != nil && s.Source.Valid() {
			next.Signature.Source = *s.Source
		}

		setString(&next.Signature.Name, s.Name)
	}

	for _, upd := range update.Items {
		switch upd.Action {
		case ActionUpdate:
			idx := len(next.Items) - 1
			if upd.ID != "" {
				idx = next.ItemIndex(upd.ID)
			}

			if idx < 0 {
				continue
			}

			patchItem(&next.Items[idx], upd.Description, upd.Quantity, upd.UnitPrice)
		default:
			next.Items = append(next.Items, NewItem(newID(), upd.Description, upd.Quantity, upd.UnitPrice))
		}
	}

	return next
}

// NewItem builds a line item, defaulting absent fields to a generic
// description, a quantity of one and a zero price.
func NewItem(id string, description *string, quantity, unitPrice *float64) LineItem {
	it := LineItem{
		ID:          id,
		Description: DefaultItemName,
		Quantity:    1,
	}
	patchItem(&it, description, quantity, unitPrice)

	return it
}

func patchItem(it *LineItem, description *string, quantity, unitPrice *float64) {
	setString(&it.Description, description)
	setFloat(&it.Quantity, quantity)

	if unitPrice != nil && *unitPrice >= 0 {
		setFloat(&it.UnitPrice, unitPrice)
	}
}

func mergeParty(dst *Party, patch *PartyPatch) {
	if patch == nil {
		return
	}

	setString(&dst.Name, patch.Name)
	setString(&dst.Address, patch.Address)
	setString(&dst.Email, patch.Email)
	setString(&dst.Phone, patch.Phone)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v == nil {
		return
	}

	if f, ok := finite(*v); ok {
		*dst = f
	}
}
