package types

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// maxFinite is the largest magnitude a float64 can hold. Anything above it
// reads as Infinity in the browser and is not a usable amount.
var maxFinite = decimal.RequireFromString("1.7976931348623157e308")

// ParseNumber reads the numeric prefix of s the way form inputs and JSON
// payloads are read in the browser: "12.5abc" and "10 USD" are numbers,
// "abc" is not, and values that overflow a float64 are rejected.
func ParseNumber(s string) (decimal.Decimal, bool) {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(m)
	if err != nil || d.Abs().GreaterThan(maxFinite) {
		return decimal.Decimal{}, false
	}
	return d, true
}
