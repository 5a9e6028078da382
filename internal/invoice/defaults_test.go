package invoice_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

var fixedNow = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

func TestNewRecord(t *testing.T) {
	type args struct {
		profile invoice.Profile
	}

	type testCase struct {
		name string
		args args
		want invoice.Record
	}

	tests := []testCase{
		{
			name: "Defaults",
			args: args{},
			want: invoice.Record{
				From:          invoice.Party{Name: "Your Company"},
				InvoiceNumber: "INV-0001",
				IssueDate:     "2024-03-01",
				DueDate:       "2024-03-08",
				Currency:      "USD",
				Items:         []invoice.LineItem{},
				Terms:         "Payment due within 7 days.",
				Signature: invoice.Signature{
					Enabled: true,
					Source:  invoice.SignatureFrom,
					Name:    "Authorized Signatory",
				},
			},
		},
		{
			name: "Profile",
			args: args{profile: invoice.Profile{
				From:     invoice.Party{Name: "Studio Nord", Email: "hi@nord.test"},
				Terms:    "Net 30",
				Currency: "EUR",
			}},
			want: invoice.Record{
				From:          invoice.Party{Name: "Studio Nord", Email: "hi@nord.test"},
				InvoiceNumber: "INV-0001",
				IssueDate:     "2024-03-01",
				DueDate:       "2024-03-08",
				Currency:      "EUR",
				Items:         []invoice.LineItem{},
				Terms:         "Net 30",
				Signature: invoice.Signature{
					Enabled: true,
					Source:  invoice.SignatureFrom,
					Name:    "Authorized Signatory",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := invoice.NewRecord(fixedNow, tt.args.profile)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, invoice.Totals{}, invoice.ComputeTotals(got))
		})
	}
}

func TestSuggestedDueDate(t *testing.T) {
	got, ok := invoice.SuggestedDueDate("2024-02-20")
	assert.True(t, ok)
	assert.Equal(t, "2024-03-05", got)

	_, ok = invoice.SuggestedDueDate("next tuesday")
	assert.False(t, ok)
}

func TestRecord_Signatory(t *testing.T) {
	rec := invoice.NewRecord(fixedNow, invoice.Profile{})
	rec.To.Name = "Globex"

	assert.Equal(t, "Your Company", rec.Signatory())

	rec.Signature.Source = invoice.SignatureTo
	assert.Equal(t, "Globex", rec.Signatory())

	rec.Signature.Source = invoice.SignatureCustom
	assert.Equal(t, "Authorized Signatory", rec.Signatory())

	rec.Signature.Enabled = false
	assert.Empty(t, rec.Signatory())
}
