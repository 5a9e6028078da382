package invoice

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// CoerceString converts a loosely typed value to a string. Strings pass through,
// numbers and booleans are formatted; nil, objects and arrays are rejected.
func CoerceString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return "", false
		}

		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case bool:
		return strconv.FormatBool(t), true
	}

	return "", false
}

// CoerceNumber converts a loosely typed value to a finite number.
// Strings such as "$1,250.50", "10%" or " 3 " are accepted.
func CoerceNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return finite(t)
	case int:
		return float64(t), true
	case json.Number:
		return parseNumber(t.String())
	case string:
		return parseNumber(t)
	}

	return 0, false
}

// CoerceBool accepts booleans and the strings "true"/"false" (any case).
func CoerceBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false, false
		}

		return b, true
	}

	return false, false
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = trimCurrency(s)
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")

	if s == "" {
		return 0, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}

	return finite(d.InexactFloat64())
}

// trimCurrency drops a leading currency symbol or ISO 4217 code, as in
// "$ 12" or "EUR 99". Other leading words are kept so parsing fails.
func trimCurrency(s string) string {
	s = strings.TrimLeftFunc(s, isSymbolOrSpace)

	if len(s) < 3 {
		return s
	}

	if _, err := currency.ParseISO(s[:3]); err != nil {
		return s
	}

	if r, _ := utf8.DecodeRuneInString(s[3:]); unicode.IsLetter(r) {
		return s
	}

	return strings.TrimLeftFunc(s[3:], isSymbolOrSpace)
}

func isSymbolOrSpace(r rune) bool {
	return unicode.Is(unicode.Sc, r) || unicode.IsSpace(r)
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}
