package product

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/micronstore/storefront/internal/storefront/price"
	"github.com/micronstore/storefront/pkg/pagination"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer produces the product grid fragment returned to the filter sidebar.
// Product text is sanitised: names lose all markup, descriptions keep the
// user-content subset.
type Renderer struct {
	tmpl   *template.Template
	strict *bluemonday.Policy
	ugc    *bluemonday.Policy
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse product templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, strict: bluemonday.StrictPolicy(), ugc: bluemonday.UGCPolicy()}, nil
}

// GridInput is everything one grid render needs.
type GridInput struct {
	Listing   Listing
	Favorites map[uint]struct{}
	Formatter *price.Formatter
	// PathPrefix is the language prefix of product links, e.g. "/uk".
	PathPrefix string
}

type card struct {
	ID          uint
	Name        string
	Description template.HTML
	Image       string
	URL         string
	FavoriteURL string
	Price       string
	OldPrice    string
	OnSale      bool
	Favorite    bool
}

type gridView struct {
	Cards []card
	Page  pagination.Page
	Range []int
}

// Grid renders one listing page.
func (r *Renderer) Grid(in GridInput) (string, error) {
	f := in.Formatter
	if f == nil {
		f = price.NewFormatter(price.DefaultLocale())
	}
	prefix := strings.TrimRight(in.PathPrefix, "/")

	view := gridView{Page: in.Listing.Page, Range: in.Listing.Page.CustomRange()}
	for _, p := range in.Listing.Products {
		current := p.CurrentPrice()
		c := card{
			ID:          p.ID,
			Name:        r.strict.Sanitize(p.Name),
			Description: template.HTML(r.ugc.Sanitize(p.Description)),
			Image:       p.Image,
			URL:         fmt.Sprintf("%s/products/%s/", prefix, p.Slug),
			FavoriteURL: fmt.Sprintf("%s/add-to-favorites/%d/", prefix, p.ID),
			Price:       f.FormatDecimal(current),
			OnSale:      p.Discount && !current.Equal(p.Price),
		}
		if c.OnSale {
			c.OldPrice = f.FormatDecimal(p.Price)
		}
		if _, ok := in.Favorites[p.ID]; ok {
			c.Favorite = true
		}
		view.Cards = append(view.Cards, c)
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "grid", view); err != nil {
		return "", fmt.Errorf("render product grid: %w", err)
	}
	return buf.String(), nil
}
