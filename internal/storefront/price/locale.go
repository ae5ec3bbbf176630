package price

import (
	"strings"

	"github.com/micronstore/storefront/internal/storefront/view"
	"github.com/micronstore/storefront/pkg/enums"
	"github.com/micronstore/storefront/pkg/types"
	"github.com/shopspring/decimal"
)

const (
	// LanguageAttr and RateAttr are read from the element carrying the page locale.
	LanguageAttr = "data-language"
	RateAttr     = "data-uah-rate"
	// LocaleSelector matches the element carrying LanguageAttr.
	LocaleSelector = "[data-language]"
)

// Locale is the page's display language and optional USD to UAH rate.
// It is resolved once per page and never mutated.
type Locale struct {
	Language enums.Language
	Rate     *decimal.Decimal
}

// DefaultLocale renders dollars.
func DefaultLocale() Locale {
	return Locale{Language: enums.LanguageEnglish}
}

// NewLocale builds a locale from raw attribute strings. A rate that is not a
// number, or is zero, counts as absent.
func NewLocale(language, rate string) Locale {
	loc := Locale{Language: enums.Language(strings.TrimSpace(language))}
	if d, ok := parseLeadingNumber(rate); ok && !d.IsZero() {
		loc.Rate = &d
	}
	return loc
}

// HasRate reports whether a conversion rate is available.
func (l Locale) HasRate() bool {
	return l.Rate != nil && !l.Rate.IsZero()
}

// ResolveLocale prefers the page attributes and falls back to the process
// defaults when the page does not carry a language attribute.
func ResolveLocale(attrs map[string]string, fallback Locale) Locale {
	language, ok := attrs[LanguageAttr]
	if !ok {
		return fallback
	}
	return NewLocale(language, attrs[RateAttr])
}

// LocaleFromDocument reads the locale attributes from doc.
func LocaleFromDocument(doc view.Document, fallback Locale) Locale {
	if doc == nil || !doc.Exists(LocaleSelector) {
		return fallback
	}
	attrs := map[string]string{}
	if v, ok := doc.Attr(LocaleSelector, LanguageAttr); ok {
		attrs[LanguageAttr] = v
	}
	if v, ok := doc.Attr(LocaleSelector, RateAttr); ok {
		attrs[RateAttr] = v
	}
	return ResolveLocale(attrs, fallback)
}

// parseLeadingNumber reads the numeric prefix of s; "12.5abc" is 12.5 and
// "abc" or "1e400" is not a number.
func parseLeadingNumber(s string) (decimal.Decimal, bool) {
	return types.ParseNumber(s)
}
