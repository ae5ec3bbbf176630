package enums

import "fmt"

// SortOrder is the product listing ordering accepted by the filter endpoint.
type SortOrder string

const (
	SortPriceAsc  SortOrder = "price"
	SortPriceDesc SortOrder = "-price"
	SortDateAsc   SortOrder = "date"
	SortDateDesc  SortOrder = "-date"
)

var validSortOrders = []SortOrder{
	SortPriceAsc,
	SortPriceDesc,
	SortDateAsc,
	SortDateDesc,
}

// DefaultSortOrder is restored by the filter reset control.
const DefaultSortOrder = SortPriceAsc

// String implements fmt.Stringer.
func (s SortOrder) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SortOrder.
func (s SortOrder) IsValid() bool {
	for _, candidate := range validSortOrders {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSortOrder converts raw input into a SortOrder.
func ParseSortOrder(value string) (SortOrder, error) {
	for _, candidate := range validSortOrders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort order %q", value)
}

// DiscountFilter narrows listings by their discount flag.
type DiscountFilter string

const (
	DiscountAny  DiscountFilter = ""
	DiscountOnly DiscountFilter = "true"
	DiscountNone DiscountFilter = "false"
)

// ParseDiscountFilter maps anything other than "true"/"false" to DiscountAny.
func ParseDiscountFilter(value string) DiscountFilter {
	switch DiscountFilter(value) {
	case DiscountOnly, DiscountNone:
		return DiscountFilter(value)
	}
	return DiscountAny
}
