package invoice

import (
	"bytes"
	"encoding/json"
	"strings"
)

// DecodePartial validates an untrusted JSON payload against the partial update
// shape. It never fails: fields that cannot be trusted are dropped, and a payload
// that is not a JSON object yields an empty update.
func DecodePartial(raw []byte) PartialRecord {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return PartialRecord{}
	}

	return PartialFromMap(obj)
}

// PartialFromMap is DecodePartial for an already unmarshalled JSON object.
func PartialFromMap(obj map[string]any) PartialRecord {
	var p PartialRecord

	p.From = partyPatch(obj["from"])
	p.To = partyPatch(obj["to"])
	p.InvoiceNumber = stringField(obj, "invoiceNumber")
	p.IssueDate = stringField(obj, "issueDate")
	p.DueDate = stringField(obj, "dueDate")
	p.Currency = stringField(obj, "currency")
	p.Notes = stringField(obj, "notes")
	p.Terms = stringField(obj, "terms")
	p.TaxRate = numberField(obj, "taxRate")
	p.Discount = numberField(obj, "discount")
	p.Items = itemUpdates(obj["items"])
	p.Signature = signaturePatch(obj)

	return p
}

func stringField(obj map[string]any, key string) *string {
	v, ok := obj[key]
	if !ok {
		return nil
	}

	s, ok := CoerceString(v)
	if !ok {
		return nil
	}

	return &s
}

func numberField(obj map[string]any, key string) *float64 {
	v, ok := obj[key]
	if !ok {
		return nil
	}

	f, ok := CoerceNumber(v)
	if !ok {
		return nil
	}

	return &f
}

func boolField(obj map[string]any, key string) *bool {
	v, ok := obj[key]
	if !ok {
		return nil
	}

	b, ok := CoerceBool(v)
	if !ok {
		return nil
	}

	return &b
}

func partyPatch(v any) *PartyPatch {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	patch := &PartyPatch{
		Name:    stringField(obj, "name"),
		Address: stringField(obj, "address"),
		Email:   stringField(obj, "email"),
		Phone:   stringField(obj, "phone"),
	}
	if *patch == (PartyPatch{}) {
		return nil
	}

	return patch
}

func itemUpdates(v any) []ItemUpdate {
	list, ok := v.([]any)
	if !ok {
		return nil
	}

	var out []ItemUpdate

	for _, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		action, ok := parseAction(obj["action"])
		if !ok {
			continue
		}

		upd := ItemUpdate{
			Action:      action,
			Description: stringField(obj, "description"),
			Quantity:    numberField(obj, "quantity"),
			UnitPrice:   numberField(obj, "unitPrice"),
		}

		// An id that is present but unusable must never fall back to the
		// last item.
		if raw, present := obj["id"]; present && raw != nil {
			id, _ := raw.(string)
			id = strings.TrimSpace(id)

			if id == "" && action == ActionUpdate {
				continue
			}

			upd.ID = id
		}

		if upd.UnitPrice != nil && *upd.UnitPrice < 0 {
			upd.UnitPrice = nil
		}

		out = append(out, upd)
	}

	return out
}

func parseAction(v any) (ItemAction, bool) {
	if v == nil {
		return ActionAdd, true
	}

	s, ok := v.(string)
	if !ok {
		return "", false
	}

	switch ItemAction(strings.ToLower(strings.TrimSpace(s))) {
	case "", ActionAdd:
		return ActionAdd, true
	case ActionUpdate:
		return ActionUpdate, true
	}

	return "", false
}

// signaturePatch reads either a nested "signature" object or the flat
// signatureEnabled/signatureSource/signatureName keys.
func signaturePatch(obj map[string]any) *SignaturePatch {
	var patch SignaturePatch

	if nested, ok := obj["signature"].(map[string]any); ok {
		patch.Enabled = boolField(nested, "enabled")
		patch.Source = sourceField(nested, "source")
		patch.Name = stringField(nested, "name")
	}

	if b := boolField(obj, "signatureEnabled"); b != nil {
		patch.Enabled = b
	}

	if s := sourceField(obj, "signatureSource"); s != nil {
		patch.Source = s
	}

	if n := stringField(obj, "signatureName"); n != nil {
		patch.Name = n
	}

	if patch == (SignaturePatch{}) {
		return nil
	}

	return &patch
}

func sourceField(obj map[string]any, key string) *SignatureSource {
	s, ok := obj[key].(string)
	if !ok {
		return nil
	}

	src := SignatureSource(strings.ToLower(strings.TrimSpace(s)))
	if !src.Valid() {
		return nil
	}

	return &src
}
