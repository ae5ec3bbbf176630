package types

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "12.5", want: "12.5", wantOK: true},
		{in: " 40 ", want: "40", wantOK: true},
		{in: "10 USD", want: "10", wantOK: true},
		{in: "12.5abc", want: "12.5", wantOK: true},
		{in: ".5", want: "0.5", wantOK: true},
		{in: "-3e2", want: "-300", wantOK: true},
		{in: "1e308", want: "1e308", wantOK: true},
		{in: "1e-400", want: "1e-400", wantOK: true},
		{in: "abc"},
		{in: ""},
		{in: "USD 10"},
		{in: "1e400"},
		{in: "-1e400"},
		{in: "1.8e308"},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		if ok != tt.wantOK {
			t.Fatalf("ParseNumber(%q): expected ok=%v, got %v", tt.in, tt.wantOK, ok)
		}
		if ok && !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Fatalf("ParseNumber(%q): expected %s, got %s", tt.in, tt.want, got)
		}
	}
}
