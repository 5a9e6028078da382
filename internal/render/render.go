// Package render builds immutable, display-ready snapshots of an invoice.
package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

var ErrUnknownTheme = errors.New("unknown theme")

type Theme string

const (
	ThemeProfessional Theme = "professional"
	ThemeCreative     Theme = "creative"
)

func Themes() []Theme {
	return []Theme{ThemeProfessional, ThemeCreative}
}

// ParseTheme maps a theme name to a Theme. The empty string selects the
// professional theme.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case "", ThemeProfessional:
		return ThemeProfessional, nil
	case ThemeCreative:
		return ThemeCreative, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
	}
}

// Next returns the theme that follows t in Themes.
func (t Theme) Next() Theme {
	if t == ThemeCreative {
		return ThemeProfessional
	}

	return ThemeCreative
}

type Line struct {
	ID            string  `json:"id"`
	Description   string  `json:"description"`
	Quantity      float64 `json:"quantity"`
	UnitPrice     float64 `json:"unitPrice"`
	Amount        float64 `json:"amount"`
	UnitPriceText string  `json:"unitPriceText"`
	AmountText    string  `json:"amountText"`
}

type SummaryLine struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
	Text   string  `json:"text"`
}

// Snapshot is a read-only view of a record for one theme.
type Snapshot struct {
	Theme     Theme          `json:"theme"`
	Symbol    string         `json:"symbol"`
	Record    invoice.Record `json:"record"`
	Totals    invoice.Totals `json:"totals"`
	Lines     []Line         `json:"lines"`
	Summary   []SummaryLine  `json:"summary"`
	Signatory string         `json:"signatory,omitempty"`
}

func New(r invoice.Record, theme Theme) Snapshot {
	rec := r.Clone()
	totals := invoice.ComputeTotals(rec)
	sym := Symbol(rec.Currency)

	lines := make([]Line, 0, len(rec.Items))
	for _, it := range rec.Items {
		amount := it.Amount()
		lines = append(lines, Line{
			ID:            it.ID,
			Description:   it.Description,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			Amount:        amount,
			UnitPriceText: FormatMoney(sym, it.UnitPrice),
			AmountText:    FormatMoney(sym, amount),
		})
	}

	summary := []SummaryLine{{Label: "Subtotal", Amount: totals.Subtotal, Text: FormatMoney(sym, totals.Subtotal)}}

	if rec.Discount != 0 {
		summary = append(summary, SummaryLine{
			Label:  fmt.Sprintf("Discount (%s%%)", formatRate(rec.Discount)),
			Amount: -totals.DiscountAmount,
			Text:   FormatMoney(sym, -totals.DiscountAmount),
		})
	}

	if rec.TaxRate != 0 {
		summary = append(summary, SummaryLine{
			Label:  fmt.Sprintf("Tax (%s%%)", formatRate(rec.TaxRate)),
			Amount: totals.TaxAmount,
			Text:   FormatMoney(sym, totals.TaxAmount),
		})
	}

	summary = append(summary, SummaryLine{Label: "Total", Amount: totals.Total, Text: FormatMoney(sym, totals.Total)})

	return Snapshot{
		Theme:     theme,
		Symbol:    sym,
		Record:    rec,
		Totals:    totals,
		Lines:     lines,
		Summary:   summary,
		Signatory: rec.Signatory(),
	}
}

var printer = message.NewPrinter(language.AmericanEnglish)

// Symbol returns the display symbol for an ISO 4217 code, or the code itself
// when it is not a known currency.
func Symbol(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))

	unit, err := currency.ParseISO(code)
	if err != nil {
		return code
	}

	return printer.Sprint(currency.Symbol(unit))
}

// FormatMoney rounds v half away from zero to two places and prefixes it with sym.
func FormatMoney(sym string, v float64) string {
	d := decimal.NewFromFloat(v).Round(2)

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	sep := ""
	if last, _ := utf8.DecodeLastRuneInString(sym); unicode.IsLetter(last) {
		sep = " "
	}

	return sign + sym + sep + d.StringFixed(2)
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}
