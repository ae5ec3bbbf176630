// Package price renders USD amounts for display, converting to hryvnia for
// the Ukrainian storefront when a rate is known.
package price

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/micronstore/storefront/pkg/enums"
	"github.com/micronstore/storefront/pkg/types"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var half = decimal.NewFromFloat(0.5)

// Formatter turns amounts into display strings for one Locale.
type Formatter struct {
	locale  Locale
	printer *message.Printer
}

func NewFormatter(loc Locale) *Formatter {
	return &Formatter{
		locale:  loc,
		printer: message.NewPrinter(language.Ukrainian),
	}
}

// Locale returns the locale the formatter was built with.
func (f *Formatter) Locale() Locale {
	return f.locale
}

// Format renders amount. Values that are not numbers come back unchanged.
func (f *Formatter) Format(amount any) string {
	d, ok := toDecimal(amount)
	if !ok {
		return passthrough(amount)
	}
	return f.FormatDecimal(d)
}

// FormatDecimal renders a known amount.
func (f *Formatter) FormatDecimal(d decimal.Decimal) string {
	if f.locale.Language == enums.LanguageUkrainian && f.locale.HasRate() {
		uah := d.Mul(*f.locale.Rate).Add(half).Floor().IntPart()
		return enums.CurrencyUAH.Symbol() + f.printer.Sprintf("%d", uah)
	}
	return enums.CurrencyUSD.Symbol() + d.StringFixed(2)
}

func toDecimal(amount any) (decimal.Decimal, bool) {
	switch v := amount.(type) {
	case decimal.Decimal:
		return v, true
	case *decimal.Decimal:
		if v == nil {
			return decimal.Decimal{}, false
		}
		return *v, true
	case types.Amount:
		if !v.Numeric {
			return decimal.Decimal{}, false
		}
		return v.Value, true
	case json.Number:
		return parseLeadingNumber(v.String())
	case string:
		return parseLeadingNumber(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(v), true
	case float32:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat32(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int32:
		return decimal.NewFromInt32(v), true
	case int64:
		return decimal.NewFromInt(v), true
	case uint:
		return decimal.NewFromUint64(uint64(v)), true
	case uint64:
		return decimal.NewFromUint64(v), true
	default:
		return decimal.Decimal{}, false
	}
}

func passthrough(amount any) string {
	switch v := amount.(type) {
	case nil:
		return ""
	case string:
		return v
	case types.Amount:
		return v.Raw
	default:
		return fmt.Sprint(v)
	}
}
