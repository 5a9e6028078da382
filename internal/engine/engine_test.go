package engine_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/chat"
	"github.com/MrJamesThe3rd/invoicer/internal/engine"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newEngine(opts ...engine.Option) *engine.Engine {
	n := 0
	ids := func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}

	base := []engine.Option{
		engine.WithIDFunc(ids),
		engine.WithClock(func() time.Time { return fixedNow }),
	}

	return engine.New(append(base, opts...)...)
}

func addDesign(e *engine.Engine) {
	e.ApplyUpdates(invoice.DecodePartial([]byte(
		`{"items":[{"description":"Design","quantity":2,"unitPrice":50,"action":"add"}]}`,
	)))
}

func TestNew_SeedState(t *testing.T) {
	e := newEngine()
	state := e.State()

	assert.Equal(t, 0, state.Version)
	assert.Equal(t, invoice.NewRecord(fixedNow, invoice.Profile{}), state.Record)
	assert.Equal(t, invoice.Totals{}, state.Totals)

	require.Len(t, state.Chat, 1)
	assert.Equal(t, chat.RoleAssistant, state.Chat[0].Role)
	assert.Equal(t, chat.Greeting, state.Chat[0].Content)
}

func TestNew_WithProfile(t *testing.T) {
	e := newEngine(engine.WithProfile(invoice.Profile{
		From:     invoice.Party{Name: "Studio Nord"},
		Currency: "EUR",
	}))

	assert.Equal(t, "Studio Nord", e.Record().From.Name)
	assert.Equal(t, "EUR", e.Record().Currency)
}

func TestEngine_Scenarios(t *testing.T) {
	e := newEngine()

	// A
	addDesign(e)

	totals := e.Totals()
	assert.InDelta(t, 100, totals.Subtotal, 1e-9)
	assert.InDelta(t, 100, totals.Total, 1e-9)

	// B
	e.ApplyUpdates(invoice.DecodePartial([]byte(`{"taxRate":10,"discount":10}`)))

	totals = e.Totals()
	assert.InDelta(t, 10, totals.DiscountAmount, 1e-9)
	assert.InDelta(t, 90, totals.TaxableAmount, 1e-9)
	assert.InDelta(t, 9, totals.TaxAmount, 1e-9)
	assert.InDelta(t, 99, totals.Total, 1e-9)
}

func TestEngine_UpdateWithoutIDTargetsOnlyItem(t *testing.T) {
	e := newEngine()
	addDesign(e)

	e.ApplyUpdates(invoice.DecodePartial([]byte(`{"items":[{"quantity":3,"action":"update"}]}`)))

	items := e.Record().Items
	require.Len(t, items, 1)
	assert.Equal(t, invoice.LineItem{ID: "id-2", Description: "Design", Quantity: 3, UnitPrice: 50}, items[0])
	assert.InDelta(t, 150, e.Totals().Subtotal, 1e-9)
}

func TestEngine_RemoveLastItem(t *testing.T) {
	e := newEngine()
	addDesign(e)

	e.RemoveItem(e.Record().Items[0].ID)

	assert.Empty(t, e.Record().Items)
	assert.NotNil(t, e.Record().Items)
	assert.Zero(t, e.Totals().Subtotal)
	assert.Zero(t, e.Totals().Total)
}

func TestEngine_VersionBumps(t *testing.T) {
	type testCase struct {
		name string
		op   func(e *engine.Engine)
		bump int
	}

	tests := []testCase{
		{name: "ApplyUpdates", op: func(e *engine.Engine) { e.ApplyUpdates(invoice.PartialRecord{Notes: new("x")}) }, bump: 1},
		{name: "ApplyEmptyUpdate", op: func(e *engine.Engine) { e.ApplyUpdates(invoice.PartialRecord{}) }, bump: 1},
		{name: "SetField", op: func(e *engine.Engine) { _ = e.SetField("to.name", "Globex") }, bump: 1},
		{name: "SetFieldInvalidValue", op: func(e *engine.Engine) { _ = e.SetField("taxRate", "lots") }, bump: 1},
		{name: "SetFieldUnknownPath", op: func(e *engine.Engine) { _ = e.SetField("to.fax", "x") }, bump: 0},
		{name: "AddItem", op: func(e *engine.Engine) { e.AddItem(engine.ItemFields{}) }, bump: 1},
		{name: "UpdateItemUnknownID", op: func(e *engine.Engine) { e.UpdateItem("nope", engine.ItemFields{}) }, bump: 1},
		{name: "RemoveItemUnknownID", op: func(e *engine.Engine) { e.RemoveItem("nope") }, bump: 1},
		{name: "AppendChat", op: func(e *engine.Engine) { e.AppendChat(chat.RoleUser, "hi") }, bump: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine()
			addDesign(e)
			before := e.Version()

			tt.op(e)

			assert.Equal(t, before+tt.bump, e.Version())
		})
	}
}

func TestEngine_SetField(t *testing.T) {
	e := newEngine()

	require.NoError(t, e.SetField("to.email", "ap@globex.test"))
	require.NoError(t, e.SetField("taxRate", "7.5"))
	require.NoError(t, e.SetField("signatureSource", "to"))

	rec := e.Record()
	assert.Equal(t, "ap@globex.test", rec.To.Email)
	assert.InDelta(t, 7.5, rec.TaxRate, 1e-9)
	assert.Equal(t, invoice.SignatureTo, rec.Signature.Source)

	require.NoError(t, e.SetField("taxRate", "plenty"))
	assert.InDelta(t, 7.5, e.Record().TaxRate, 1e-9)

	err := e.SetField("to.fax", "x")
	assert.ErrorIs(t, err, invoice.ErrUnknownField)
}

func TestEngine_Items(t *testing.T) {
	e := newEngine()

	first := e.AddItem(engine.ItemFields{Description: new("Logo"), UnitPrice: new(200.0)})
	second := e.AddItem(engine.ItemFields{})

	assert.Equal(t, invoice.LineItem{ID: "id-2", Description: "Logo", Quantity: 1, UnitPrice: 200}, first)
	assert.Equal(t, invoice.LineItem{ID: "id-3", Description: "Item", Quantity: 1}, second)

	e.UpdateItem(first.ID, engine.ItemFields{Quantity: new(2.0)})
	e.UpdateItem("missing", engine.ItemFields{Quantity: new(9.0)})

	items := e.Record().Items
	require.Len(t, items, 2)
	assert.InDelta(t, 2, items[0].Quantity, 1e-9)
	assert.InDelta(t, 1, items[1].Quantity, 1e-9)
	assert.InDelta(t, 400, e.Totals().Subtotal, 1e-9)

	e.RemoveItem(first.ID)
	assert.Equal(t, []invoice.LineItem{second}, e.Record().Items)
}

func TestEngine_NegativeUnitPriceIgnored(t *testing.T) {
	e := newEngine()

	item := e.AddItem(engine.ItemFields{Description: new("Refund"), UnitPrice: new(-5.0)})
	assert.Zero(t, item.UnitPrice)

	e.UpdateItem(item.ID, engine.ItemFields{UnitPrice: new(40.0)})
	e.UpdateItem(item.ID, engine.ItemFields{UnitPrice: new(-1.0)})

	items := e.Record().Items
	require.Len(t, items, 1)
	assert.InDelta(t, 40, items[0].UnitPrice, 1e-9)
	assert.InDelta(t, 40, e.Totals().Subtotal, 1e-9)
}

func TestEngine_Reset(t *testing.T) {
	e := newEngine()
	seed := e.State()

	addDesign(e)
	e.AppendChat(chat.RoleUser, "hello")
	require.NoError(t, e.SetField("to.name", "Globex"))

	e.Reset()

	assert.Equal(t, seed, e.State())
	assert.Equal(t, 0, e.Version())
}

func TestEngine_StateIsASnapshot(t *testing.T) {
	e := newEngine()
	addDesign(e)

	state := e.State()
	state.Record.Items[0].Quantity = 99
	state.Chat[0].Content = "tampered"

	assert.InDelta(t, 2, e.Record().Items[0].Quantity, 1e-9)
	assert.Equal(t, chat.Greeting, e.State().Chat[0].Content)
}

func TestEngine_TotalsMatchRecord(t *testing.T) {
	e := newEngine()
	addDesign(e)
	e.ApplyUpdates(invoice.PartialRecord{Discount: new(150.0), TaxRate: new(20.0)})

	assert.Equal(t, invoice.ComputeTotals(e.Record()), e.Totals())
	assert.Zero(t, e.Totals().Total)
}
