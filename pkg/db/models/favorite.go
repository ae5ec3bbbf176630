package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite links a shopper to a product they starred.
type Favorite struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:favorites_user_product_key"`
	ProductID uint      `gorm:"column:product_id;not null;index:favorites_product_id_idx;uniqueIndex:favorites_user_product_key"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// All lists the models in dependency order for schema bootstrapping.
func All() []any {
	return []any{&Category{}, &Product{}, &Coupon{}, &Favorite{}}
}
