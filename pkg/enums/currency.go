package enums

import (
	"fmt"
	"strings"
)

// Language is a storefront UI language and URL prefix.
type Language string

const (
	LanguageEnglish   Language = "en"
	LanguageUkrainian Language = "uk"
)

var validLanguages = []Language{
	LanguageEnglish,
	LanguageUkrainian,
}

// String implements fmt.Stringer.
func (l Language) String() string {
	return string(l)
}

// IsValid reports whether the language is recognized.
func (l Language) IsValid() bool {
	for _, candidate := range validLanguages {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLanguage converts a raw string into a Language.
func ParseLanguage(value string) (Language, error) {
	normalized := Language(strings.ToLower(strings.TrimSpace(value)))
	if normalized.IsValid() {
		return normalized, nil
	}
	return "", fmt.Errorf("invalid language %q", value)
}

// Currency is the denomination prices are displayed in.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyUAH Currency = "UAH"
)

// Symbol returns the display prefix for the currency.
func (c Currency) Symbol() string {
	switch c {
	case CurrencyUAH:
		return "₴"
	default:
		return "$"
	}
}

// DisplayCurrency maps a UI language to the currency its prices are shown in.
func DisplayCurrency(lang Language) Currency {
	if lang == LanguageUkrainian {
		return CurrencyUAH
	}
	return CurrencyUSD
}
