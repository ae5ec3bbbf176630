package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var bonusPointsRate = decimal.NewFromFloat(0.3)

// Category groups products; listings filter on its slug.
type Category struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex:categories_slug_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// Product is a catalogue listing. EffectivePrice and BonusPoints are derived
// on every save.
type Product struct {
	ID                uint                `gorm:"column:id;primaryKey"`
	CategoryID        uint                `gorm:"column:category_id;not null;index:products_category_id_idx"`
	Category          *Category           `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	Name              string              `gorm:"column:name;not null"`
	Slug              string              `gorm:"column:slug;not null;index:products_slug_idx"`
	Description       string              `gorm:"column:description"`
	Image             string              `gorm:"column:image"`
	Price             decimal.Decimal     `gorm:"column:price;type:numeric(10,2);not null"`
	PriceWithDiscount decimal.NullDecimal `gorm:"column:price_with_discount;type:numeric(10,2)"`
	EffectivePrice    decimal.Decimal     `gorm:"column:effective_price;type:numeric(10,2);not null;index:products_effective_price_idx"`
	BonusPoints       decimal.Decimal     `gorm:"column:bonus_points;type:numeric(10,2);not null;default:0"`
	Available         bool                `gorm:"column:available;not null;default:true"`
	Discount          bool                `gorm:"column:discount;not null;default:false"`
	Quantity          int                 `gorm:"column:quantity;not null;default:0"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime;index:products_created_at_idx"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// CurrentPrice is the price a shopper pays: the discounted price when the
// listing is on discount and has one, the base price otherwise.
func (p Product) CurrentPrice() decimal.Decimal {
	if p.Discount && p.PriceWithDiscount.Valid {
		return p.PriceWithDiscount.Decimal
	}
	return p.Price
}

// CartPrice is the unit price captured when the product enters a cart.
func (p Product) CartPrice() decimal.Decimal {
	if p.PriceWithDiscount.Valid && !p.PriceWithDiscount.Decimal.IsZero() {
		return p.PriceWithDiscount.Decimal
	}
	return p.Price
}

// BeforeSave keeps the derived pricing columns in sync.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.EffectivePrice = p.CurrentPrice()
	p.BonusPoints = p.EffectivePrice.Mul(bonusPointsRate).Round(2)
	return nil
}
