package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
	"github.com/gryadkadev/gryadka-backend/pkg/enums"
)

// CategoryDTO is the storefront shape of a category.
type CategoryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Emoji     *string   `json:"emoji,omitempty"`
	SortOrder int       `json:"sort_order"`
	IsActive  bool      `json:"is_active"`
}

// ProductDTO is the storefront shape of a product with all unit prices.
type ProductDTO struct {
	ID            uuid.UUID          `json:"id"`
	CategoryID    uuid.UUID          `json:"category_id"`
	Name          string             `json:"name"`
	Description   *string            `json:"description,omitempty"`
	ImageURL      *string            `json:"image_url,omitempty"`
	Images        []string           `json:"images,omitempty"`
	Unit          enums.Unit         `json:"unit"`
	PriceKg       *decimal.Decimal   `json:"price_kg,omitempty"`
	PricePiece    *decimal.Decimal   `json:"price_piece,omitempty"`
	PricePackage  *decimal.Decimal   `json:"price_package,omitempty"`
	PriceBox      *decimal.Decimal   `json:"price_box,omitempty"`
	PriceMulti    *decimal.Decimal   `json:"price_multi,omitempty"`
	OldPrice      *decimal.Decimal   `json:"old_price,omitempty"`
	Badge         enums.ProductBadge `json:"badge,omitempty"`
	StockQuantity *decimal.Decimal   `json:"stock_quantity,omitempty"`
	IsActive      bool               `json:"is_active"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// ProductListDTO is one page of the product listing.
type ProductListDTO struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// ProductFilters narrows the product listing.
type ProductFilters struct {
	CategoryID      *uuid.UUID
	Badge           *enums.ProductBadge
	Query           string
	IncludeInactive bool
}

// CreateCategoryDTO carries admin input for a new category.
type CreateCategoryDTO struct {
	Name      string
	Emoji     *string
	SortOrder int
}

// UpdateCategoryDTO carries partial admin updates; nil fields are untouched.
type UpdateCategoryDTO struct {
	Name      *string
	Emoji     *string
	SortOrder *int
	IsActive  *bool
}

// CreateProductDTO carries admin input for a new product.
type CreateProductDTO struct {
	CategoryID    uuid.UUID
	Name          string
	Description   *string
	ImageURL      *string
	Unit          enums.Unit
	PriceKg       *decimal.Decimal
	PricePiece    *decimal.Decimal
	PricePackage  *decimal.Decimal
	PriceBox      *decimal.Decimal
	PriceMulti    *decimal.Decimal
	OldPrice      *decimal.Decimal
	Badge         enums.ProductBadge
	StockQuantity *decimal.Decimal
}

// UpdateProductDTO carries partial admin updates; nil fields are untouched.
type UpdateProductDTO struct {
	CategoryID    *uuid.UUID
	Name          *string
	Description   *string
	ImageURL      *string
	Unit          *enums.Unit
	PriceKg       *decimal.Decimal
	PricePiece    *decimal.Decimal
	PricePackage  *decimal.Decimal
	PriceBox      *decimal.Decimal
	PriceMulti    *decimal.Decimal
	OldPrice      *decimal.Decimal
	Badge         *enums.ProductBadge
	StockQuantity *decimal.Decimal
	IsActive      *bool
}

func categoryToDTO(category *models.Category) CategoryDTO {
	return CategoryDTO{
		ID:        category.ID,
		Name:      category.Name,
		Emoji:     category.Emoji,
		SortOrder: category.SortOrder,
		IsActive:  category.IsActive,
	}
}

func ToProductDTO(product *models.Product) ProductDTO {
	images := make([]string, 0, len(product.Images))
	for _, image := range product.Images {
		images = append(images, image.URL)
	}
	return ProductDTO{
		ID:            product.ID,
		CategoryID:    product.CategoryID,
		Name:          product.Name,
		Description:   product.Description,
		ImageURL:      product.ImageURL,
		Images:        images,
		Unit:          product.Unit,
		PriceKg:       product.PriceKg,
		PricePiece:    product.PricePiece,
		PricePackage:  product.PricePackage,
		PriceBox:      product.PriceBox,
		PriceMulti:    product.PriceMulti,
		OldPrice:      product.OldPrice,
		Badge:         product.Badge,
		StockQuantity: product.StockQuantity,
		IsActive:      product.IsActive,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}
