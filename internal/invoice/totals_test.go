package invoice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

func TestComputeTotals(t *testing.T) {
	type args struct {
		record invoice.Record
	}

	type testCase struct {
		name string
		args args
		want invoice.Totals
	}

	tests := []testCase{
		{
			name: "Empty",
			args: args{record: invoice.Record{}},
			want: invoice.Totals{},
		},
		{
			name: "ItemsOnly",
			args: args{record: invoice.Record{Items: []invoice.LineItem{
				{ID: "a", Description: "Design", Quantity: 2, UnitPrice: 50},
				{ID: "b", Description: "Hosting", Quantity: 1, UnitPrice: 100},
			}}},
			want: invoice.Totals{Subtotal: 200, TaxableAmount: 200, Total: 200},
		},
		{
			name: "DiscountThenTax",
			args: args{record: invoice.Record{
				Discount: 10,
				TaxRate:  8.5,
				Items: []invoice.LineItem{
					{ID: "a", Quantity: 2, UnitPrice: 50},
					{ID: "b", Quantity: 1, UnitPrice: 100},
				},
			}},
			want: invoice.Totals{
				Subtotal:       200,
				DiscountAmount: 20,
				TaxableAmount:  180,
				TaxAmount:      15.3,
				Total:          195.3,
			},
		},
		{
			name: "DiscountAboveHundredClampsTaxable",
			args: args{record: invoice.Record{
				Discount: 150,
				TaxRate:  20,
				Items:    []invoice.LineItem{{ID: "a", Quantity: 1, UnitPrice: 100}},
			}},
			want: invoice.Totals{
				Subtotal:       100,
				DiscountAmount: 150,
				TaxableAmount:  0,
				TaxAmount:      0,
				Total:          0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := invoice.ComputeTotals(tt.args.record)

			assert.InDelta(t, tt.want.Subtotal, got.Subtotal, 1e-9)
			assert.InDelta(t, tt.want.DiscountAmount, got.DiscountAmount, 1e-9)
			assert.InDelta(t, tt.want.TaxableAmount, got.TaxableAmount, 1e-9)
			assert.InDelta(t, tt.want.TaxAmount, got.TaxAmount, 1e-9)
			assert.InDelta(t, tt.want.Total, got.Total, 1e-9)
			assert.GreaterOrEqual(t, got.TaxableAmount, 0.0)
			assert.GreaterOrEqual(t, got.Total, 0.0)
		})
	}
}

func TestComputeTotals_Pure(t *testing.T) {
	rec := invoice.Record{
		Discount: 5,
		TaxRate:  21,
		Items:    []invoice.LineItem{{ID: "a", Quantity: 3, UnitPrice: 19.99}},
	}
	before := rec.Clone()

	first := invoice.ComputeTotals(rec)
	second := invoice.ComputeTotals(rec)

	assert.Equal(t, first, second)
	assert.Equal(t, before, rec)
}
