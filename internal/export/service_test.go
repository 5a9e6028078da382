package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/render"
)

func sampleSnapshot() render.Snapshot {
	return render.New(invoice.Record{
		From:          invoice.Party{Name: "Studio Nord"},
		To:            invoice.Party{Name: "Globex"},
		InvoiceNumber: "INV 2024/07",
		IssueDate:     "2024-03-01",
		DueDate:       "2024-03-15",
		Currency:      "USD",
		TaxRate:       10,
		Items: []invoice.LineItem{
			{ID: "a", Description: "Design", Quantity: 2, UnitPrice: 50},
			{ID: "b", Description: "Hosting", Quantity: 1.5, UnitPrice: 10},
		},
		Signature: invoice.Signature{Enabled: true, Source: invoice.SignatureFrom},
	}, render.ThemeCreative)
}

func TestService_Export(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	svc := NewService(dir)
	svc.now = func() time.Time { return time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC) }

	snap := sampleSnapshot()

	path, err := svc.Export(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20240302_INV_2024_07_creative.json"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var got render.Snapshot
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, snap, got)
}

func TestService_Export_BlankNumber(t *testing.T) {
	svc := NewService(t.TempDir())
	svc.now = func() time.Time { return time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC) }

	snap := render.New(invoice.Record{Items: []invoice.LineItem{}}, render.ThemeProfessional)

	path, err := svc.Export(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, "20240302_invoice_professional.json", filepath.Base(path))
}

func TestService_Export_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewService(t.TempDir()).Export(ctx, sampleSnapshot())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmailBody(t *testing.T) {
	want := "Invoice INV 2024/07 for Globex\n" +
		"Issued 2024-03-01, due 2024-03-15\n\n" +
		"* Design | 2 x $50.00 | $100.00\n" +
		"* Hosting | 1.5 x $10.00 | $15.00\n\n" +
		"Subtotal: $115.00\n" +
		"Tax (10%): $11.50\n" +
		"Total: $126.50\n\n" +
		"Studio Nord\n"

	assert.Equal(t, want, EmailBody(sampleSnapshot()))
}
