package filter

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestBuildQueryOrderAndOptionalParams(t *testing.T) {
	q := BuildQuery(Criteria{
		MinPrice: decimal.NewFromInt(10),
		MaxPrice: decimal.RequireFromString("250.5"),
		Page:     2,
		Order:    "-price",
	})
	if got := q.Encode(); got != "min_price=10&max_price=250.5&page=2&order=-price" {
		t.Fatalf("unexpected query %q", got)
	}
	if _, ok := q.Get(ParamCategory); ok {
		t.Fatal("empty category must be omitted")
	}

	q = BuildQuery(Criteria{
		MinPrice:    decimal.Zero,
		MaxPrice:    decimal.NewFromInt(1000),
		Discount:    "true",
		Category:    "phones",
		Order:       "date",
		SearchQuery: "red phone",
		Page:        0,
	})
	want := "min_price=0&max_price=1000&page=1&discount=true&category=phones&order=date&search_query=red+phone"
	if got := q.Encode(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if q.Values().Get(ParamSearchQuery) != "red phone" {
		t.Fatal("expected values conversion to keep search query")
	}
}

func TestParseCriteria(t *testing.T) {
	b := Bounds{Min: decimal.NewFromInt(5), Max: decimal.NewFromInt(900)}

	c := ParseCriteria("?min_price=20&max_price=300&discount=false&category=laptops&order=-date&search_query=mac&page=3", b)
	if !c.MinPrice.Equal(decimal.NewFromInt(20)) || !c.MaxPrice.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("unexpected prices %s..%s", c.MinPrice, c.MaxPrice)
	}
	if c.Discount != "false" || c.Category != "laptops" || c.Order != "-date" || c.SearchQuery != "mac" || c.Page != 3 {
		t.Fatalf("unexpected criteria %+v", c)
	}

	c = ParseCriteria("min_price=abc&page=-1", b)
	if !c.MinPrice.Equal(b.Min) || !c.MaxPrice.Equal(b.Max) {
		t.Fatalf("expected bounds fallback, got %s..%s", c.MinPrice, c.MaxPrice)
	}
	if c.Order != "price" || c.Page != 1 {
		t.Fatalf("expected defaults, got %+v", c)
	}
}

func TestEndpointPath(t *testing.T) {
	langs := []string{"en", "uk"}
	tests := map[string]string{
		"/uk/products/":        "/uk/products/",
		"/en/products/phones/": "/en/products/",
		"/products/":           "/products/",
		"/":                    "/products/",
		"":                     "/products/",
		"/fr/products/":        "/products/",
	}
	for in, want := range tests {
		if got := EndpointPath(in, langs); got != want {
			t.Fatalf("EndpointPath(%q) = %q, want %q", in, got, want)
		}
	}
}
