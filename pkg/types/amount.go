package types

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Amount is a money field that the storefront endpoints send either as a JSON
// number or as a numeric string. Raw keeps the text as received so values
// that are not numbers can still be shown verbatim.
type Amount struct {
	Raw     string
	Value   decimal.Decimal
	Numeric bool
}

// NewAmount wraps an already known decimal.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Raw: d.String(), Value: d, Numeric: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*a = Amount{}
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	raw := string(trimmed)
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
	}
	a.Raw = raw

	if d, ok := ParseNumber(raw); ok {
		a.Value = d
		a.Numeric = true
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	switch {
	case a.Numeric:
		return []byte(a.Value.String()), nil
	case a.Raw == "":
		return []byte("null"), nil
	default:
		return json.Marshal(a.Raw)
	}
}

// Present reports whether the field carried any value.
func (a Amount) Present() bool {
	return a.Raw != "" || a.Numeric
}

// IsPositive is true for numeric amounts above zero.
func (a Amount) IsPositive() bool {
	return a.Numeric && a.Value.IsPositive()
}

func (a Amount) String() string {
	if a.Numeric && a.Raw == "" {
		return a.Value.String()
	}
	return a.Raw
}
