package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gryadkadev/gryadka-backend/api/responses"
	"github.com/gryadkadev/gryadka-backend/api/validators"
	catalogsvc "github.com/gryadkadev/gryadka-backend/internal/catalog"
	"github.com/gryadkadev/gryadka-backend/pkg/enums"
	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
	"github.com/gryadkadev/gryadka-backend/pkg/logger"
)

type createCategoryRequest struct {
	Name      string  `json:"name" validate:"required"`
	Emoji     *string `json:"emoji,omitempty"`
	SortOrder int     `json:"sort_order" validate:"omitempty,min=0"`
}

type updateCategoryRequest struct {
	Name      *string `json:"name,omitempty"`
	Emoji     *string `json:"emoji,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty" validate:"omitempty,min=0"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

type createProductRequest struct {
	CategoryID    string           `json:"category_id" validate:"required"`
	Name          string           `json:"name" validate:"required"`
	Description   *string          `json:"description,omitempty"`
	ImageURL      *string          `json:"image_url,omitempty"`
	Unit          string           `json:"unit" validate:"required"`
	PriceKg       *decimal.Decimal `json:"price_kg,omitempty"`
	PricePiece    *decimal.Decimal `json:"price_piece,omitempty"`
	PricePackage  *decimal.Decimal `json:"price_package,omitempty"`
	PriceBox      *decimal.Decimal `json:"price_box,omitempty"`
	PriceMulti    *decimal.Decimal `json:"price_multi,omitempty"`
	OldPrice      *decimal.Decimal `json:"old_price,omitempty"`
	Badge         *string          `json:"badge,omitempty"`
	StockQuantity *decimal.Decimal `json:"stock_quantity,omitempty"`
}

type updateProductRequest struct {
	CategoryID    *string          `json:"category_id,omitempty"`
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	ImageURL      *string          `json:"image_url,omitempty"`
	Unit          *string          `json:"unit,omitempty"`
	PriceKg       *decimal.Decimal `json:"price_kg,omitempty"`
	PricePiece    *decimal.Decimal `json:"price_piece,omitempty"`
	PricePackage  *decimal.Decimal `json:"price_package,omitempty"`
	PriceBox      *decimal.Decimal `json:"price_box,omitempty"`
	PriceMulti    *decimal.Decimal `json:"price_multi,omitempty"`
	OldPrice      *decimal.Decimal `json:"old_price,omitempty"`
	Badge         *string          `json:"badge,omitempty"`
	StockQuantity *decimal.Decimal `json:"stock_quantity,omitempty"`
	IsActive      *bool            `json:"is_active,omitempty"`
}

type adjustStockRequest struct {
	Delta decimal.Decimal `json:"delta" validate:"required"`
}

type bulkPriceRequest struct {
	Percent decimal.Decimal `json:"percent" validate:"required"`
}

type attachImageRequest struct {
	URL       string `json:"url" validate:"required"`
	SortOrder int    `json:"sort_order" validate:"omitempty,min=0"`
}

// AdminListCategories returns every category, inactive included.
func AdminListCategories(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.ListCategories(r.Context(), true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"categories": categories})
	}
}

func AdminCreateCategory(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createCategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.CreateCategory(r.Context(), catalogsvc.CreateCategoryDTO{
			Name:      validators.SanitizeString(payload.Name, 120),
			Emoji:     payload.Emoji,
			SortOrder: payload.SortOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

func AdminUpdateCategory(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := pathUUID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.UpdateCategory(r.Context(), categoryID, catalogsvc.UpdateCategoryDTO{
			Name:      payload.Name,
			Emoji:     payload.Emoji,
			SortOrder: payload.SortOrder,
			IsActive:  payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, category)
	}
}

func AdminDeleteCategory(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := pathUUID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteCategory(r.Context(), categoryID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminListProducts returns one page of products, inactive included.
func AdminListProducts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := parseProductFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.IncludeInactive = true

		page, err := svc.ListProducts(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

func AdminGetProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID, true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func AdminCreateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func AdminUpdateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func AdminDeleteProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminAdjustStock applies a signed delta to a product's stock.
func AdminAdjustStock(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adjustStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.AdjustStock(r.Context(), productID, payload.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// AdminBulkAdjustPrices scales every unit price in a category by a percent.
func AdminBulkAdjustPrices(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := pathUUID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload bulkPriceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.BulkAdjustCategoryPrices(r.Context(), categoryID, payload.Percent)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int64{"updated": updated})
	}
}

func AdminAttachProductImage(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload attachImageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.AttachImage(r.Context(), productID, strings.TrimSpace(payload.URL), payload.SortOrder)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func AdminDetachProductImage(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		imageID, err := pathUUID(r, "imageId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.DetachImage(r.Context(), productID, imageID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func (p createProductRequest) toCreateInput() (catalogsvc.CreateProductDTO, error) {
	categoryID, err := uuid.Parse(strings.TrimSpace(p.CategoryID))
	if err != nil {
		return catalogsvc.CreateProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id")
	}

	unit, err := enums.ParseUnit(strings.TrimSpace(p.Unit))
	if err != nil {
		return catalogsvc.CreateProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit")
	}

	var badge enums.ProductBadge
	if p.Badge != nil && strings.TrimSpace(*p.Badge) != "" {
		badge, err = enums.ParseProductBadge(strings.TrimSpace(*p.Badge))
		if err != nil {
			return catalogsvc.CreateProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid badge")
		}
	}

	return catalogsvc.CreateProductDTO{
		CategoryID:    categoryID,
		Name:          strings.TrimSpace(p.Name),
		Description:   p.Description,
		ImageURL:      p.ImageURL,
		Unit:          unit,
		PriceKg:       p.PriceKg,
		PricePiece:    p.PricePiece,
		PricePackage:  p.PricePackage,
		PriceBox:      p.PriceBox,
		PriceMulti:    p.PriceMulti,
		OldPrice:      p.OldPrice,
		Badge:         badge,
		StockQuantity: p.StockQuantity,
	}, nil
}

func (p updateProductRequest) toUpdateInput() (catalogsvc.UpdateProductDTO, error) {
	input := catalogsvc.UpdateProductDTO{
		Name:          p.Name,
		Description:   p.Description,
		ImageURL:      p.ImageURL,
		PriceKg:       p.PriceKg,
		PricePiece:    p.PricePiece,
		PricePackage:  p.PricePackage,
		PriceBox:      p.PriceBox,
		PriceMulti:    p.PriceMulti,
		OldPrice:      p.OldPrice,
		StockQuantity: p.StockQuantity,
		IsActive:      p.IsActive,
	}

	if p.CategoryID != nil {
		categoryID, err := uuid.Parse(strings.TrimSpace(*p.CategoryID))
		if err != nil {
			return catalogsvc.UpdateProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id")
		}
		input.CategoryID = &categoryID
	}

	if p.Unit != nil {
		unit, err := enums.ParseUnit(strings.TrimSpace(*p.Unit))
		if err != nil {
			return catalogsvc.UpdateProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit")
		}
		input.Unit = &unit
	}

	if p.Badge != nil {
		// An explicit empty string clears the badge.
		badge := enums.ProductBadge("")
		if trimmed := strings.TrimSpace(*p.Badge); trimmed != "" {
			parsed, err := enums.ParseProductBadge(trimmed)
			if err != nil {
				return catalogsvc.UpdateProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid badge")
			}
			badge = parsed
		}
		input.Badge = &badge
	}

	return input, nil
}
