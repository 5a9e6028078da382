package invoice

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidValue = errors.New("invalid field value")
)

// Field is a recognized direct-edit path such as "to.email".
type Field string

const (
	FieldFromName         Field = "from.name"
	FieldFromAddress      Field = "from.address"
	FieldFromEmail        Field = "from.email"
	FieldFromPhone        Field = "from.phone"
	FieldToName           Field = "to.name"
	FieldToAddress        Field = "to.address"
	FieldToEmail          Field = "to.email"
	FieldToPhone          Field = "to.phone"
	FieldInvoiceNumber    Field = "invoiceNumber"
	FieldIssueDate        Field = "issueDate"
	FieldDueDate          Field = "dueDate"
	FieldCurrency         Field = "currency"
	FieldTaxRate          Field = "taxRate"
	FieldDiscount         Field = "discount"
	FieldNotes            Field = "notes"
	FieldTerms            Field = "terms"
	FieldSignatureEnabled Field = "signature.enabled"
	FieldSignatureSource  Field = "signature.source"
	FieldSignatureName    Field = "signature.name"
)

// lens writes a coerced value into a one-field partial update.
type lens func(p *PartialRecord, v any) bool

func stringLens(set func(p *PartialRecord, s *string)) lens {
	return func(p *PartialRecord, v any) bool {
		s, ok := CoerceString(v)
		if !ok {
			return false
		}

		set(p, &s)

		return true
	}
}

func numberLens(set func(p *PartialRecord, f *float64)) lens {
	return func(p *PartialRecord, v any) bool {
		f, ok := CoerceNumber(v)
		if !ok {
			return false
		}

		set(p, &f)

		return true
	}
}

func fromLens(set func(pp *PartyPatch, s *string)) lens {
	return stringLens(func(p *PartialRecord, s *string) {
		p.From = &PartyPatch{}
		set(p.From, s)
	})
}

func toLens(set func(pp *PartyPatch, s *string)) lens {
	return stringLens(func(p *PartialRecord, s *string) {
		p.To = &PartyPatch{}
		set(p.To, s)
	})
}

var lenses = map[Field]lens{
	FieldFromName:    fromLens(func(pp *PartyPatch, s *string) { pp.Name = s }),
	FieldFromAddress: fromLens(func(pp *PartyPatch, s *string) { pp.Address = s }),
	FieldFromEmail:   fromLens(func(pp *PartyPatch, s *string) { pp.Email = s }),
	FieldFromPhone:   fromLens(func(pp *PartyPatch, s *string) { pp.Phone = s }),
	FieldToName:      toLens(func(pp *PartyPatch, s *string) { pp.Name = s }),
	FieldToAddress:   toLens(func(pp *PartyPatch, s *string) { pp.Address = s }),
	FieldToEmail:     toLens(func(pp *PartyPatch, s *string) { pp.Email = s }),
	FieldToPhone:     toLens(func(pp *PartyPatch, s *string) { pp.Phone = s }),

	FieldInvoiceNumber: stringLens(func(p *PartialRecord, s *string) { p.InvoiceNumber = s }),
	FieldIssueDate:     stringLens(func(p *PartialRecord, s *string) { p.IssueDate = s }),
	FieldDueDate:       stringLens(func(p *PartialRecord, s *string) { p.DueDate = s }),
	FieldCurrency:      stringLens(func(p *PartialRecord, s *string) { p.Currency = s }),
	FieldNotes:         stringLens(func(p *PartialRecord, s *string) { p.Notes = s }),
	FieldTerms:         stringLens(func(p *PartialRecord, s *string) { p.Terms = s }),
	FieldTaxRate:       numberLens(func(p *PartialRecord, f *float64) { p.TaxRate = f }),
	FieldDiscount:      numberLens(func(p *PartialRecord, f *float64) { p.Discount = f }),

	FieldSignatureEnabled: func(p *PartialRecord, v any) bool {
		b, ok := CoerceBool(v)
		if !ok {
			return false
		}

		p.Signature = &SignaturePatch{Enabled: &b}

		return true
	},
	FieldSignatureSource: func(p *PartialRecord, v any) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}

		src := SignatureSource(strings.ToLower(strings.TrimSpace(s)))
		if !src.Valid() {
			return false
		}

		p.Signature = &SignaturePatch{Source: &src}

		return true
	},
	FieldSignatureName: stringLens(func(p *PartialRecord, s *string) {
		p.Signature = &SignaturePatch{Name: s}
	}),
}

var aliases = map[string]Field{
	"signatureEnabled": FieldSignatureEnabled,
	"signatureSource":  FieldSignatureSource,
	"signatureName":    FieldSignatureName,
}

// ParseField resolves a dotted path to a known field.
func ParseField(path string) (Field, error) {
	path = strings.TrimSpace(path)
	if f, ok := aliases[path]; ok {
		return f, nil
	}

	f := Field(path)
	if _, ok := lenses[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, path)
	}

	return f, nil
}

// Patch returns the one-field partial update that sets f to value. It reports
// ErrInvalidValue when value cannot be coerced to the field's type.
func (f Field) Patch(value any) (PartialRecord, error) {
	l, ok := lenses[f]
	if !ok {
		return PartialRecord{}, fmt.Errorf("%w: %q", ErrUnknownField, string(f))
	}

	var p PartialRecord
	if !l(&p, value) {
		return PartialRecord{}, fmt.Errorf("%w for %s: %v", ErrInvalidValue, f, value)
	}

	return p, nil
}

// Fields lists every recognized path.
func Fields() []Field {
	return []Field{
		FieldFromName, FieldFromAddress, FieldFromEmail, FieldFromPhone,
		FieldToName, FieldToAddress, FieldToEmail, FieldToPhone,
		FieldInvoiceNumber, FieldIssueDate, FieldDueDate, FieldCurrency,
		FieldTaxRate, FieldDiscount, FieldNotes, FieldTerms,
		FieldSignatureEnabled, FieldSignatureSource, FieldSignatureName,
	}
}
