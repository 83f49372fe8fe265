package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gryadkadev/gryadka-backend/pkg/enums"
)

// Product is a storefront listing. Prices are kept per sales unit; a nil
// price means the product does not sell in that unit.
type Product struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID    uuid.UUID          `gorm:"column:category_id;type:uuid;not null;index"`
	Name          string             `gorm:"column:name;not null"`
	Description   *string            `gorm:"column:description"`
	ImageURL      *string            `gorm:"column:image_url"`
	Unit          enums.Unit         `gorm:"column:unit;not null"`
	PriceKg       *decimal.Decimal   `gorm:"column:price_kg;type:numeric(12,2)"`
	PricePiece    *decimal.Decimal   `gorm:"column:price_piece;type:numeric(12,2)"`
	PricePackage  *decimal.Decimal   `gorm:"column:price_package;type:numeric(12,2)"`
	PriceBox      *decimal.Decimal   `gorm:"column:price_box;type:numeric(12,2)"`
	PriceMulti    *decimal.Decimal   `gorm:"column:price_multi;type:numeric(12,2)"`
	OldPrice      *decimal.Decimal   `gorm:"column:old_price;type:numeric(12,2)"`
	Badge         enums.ProductBadge `gorm:"column:badge;not null;default:''"`
	StockQuantity *decimal.Decimal   `gorm:"column:stock_quantity;type:numeric(12,3)"`
	IsActive      bool               `gorm:"column:is_active;not null;default:true"`
	Images        []ProductImage     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
