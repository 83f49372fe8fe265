package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
	"github.com/gryadkadev/gryadka-backend/pkg/pagination"
)

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	CatalogRepo *Repository
}

// Service exposes storefront reads and back-office catalog management.
type Service interface {
	ListCategories(ctx context.Context, includeInactive bool) ([]CategoryDTO, error)
	ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductListDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID, includeInactive bool) (ProductDTO, error)

	CreateCategory(ctx context.Context, dto CreateCategoryDTO) (CategoryDTO, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, dto UpdateCategoryDTO) (CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, dto CreateProductDTO) (ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (ProductDTO, error)
	BulkAdjustCategoryPrices(ctx context.Context, categoryID uuid.UUID, percent decimal.Decimal) (int64, error)
	AttachImage(ctx context.Context, productID uuid.UUID, url string, sortOrder int) (ProductDTO, error)
	DetachImage(ctx context.Context, productID, imageID uuid.UUID) (ProductDTO, error)
}

type service struct {
	catalogRepo *Repository
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	return &service{catalogRepo: params.CatalogRepo}, nil
}

func (s *service) ListCategories(ctx context.Context, includeInactive bool) ([]CategoryDTO, error) {
	categories, err := s.catalogRepo.ListCategories(ctx, includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	items := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		items = append(items, categoryToDTO(&categories[i]))
	}
	return items, nil
}

func (s *service) ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductListDTO, error) {
	if filters.Badge != nil && !filters.Badge.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown badge")
	}
	list, err := s.catalogRepo.ListProducts(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return list, nil
}

// GetProduct returns a product. Storefront callers only see active listings;
// the back office passes includeInactive.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID, includeInactive bool) (ProductDTO, error) {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return ProductDTO{}, err
	}
	if !product.IsActive && !includeInactive {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return ToProductDTO(product), nil
}

func (s *service) CreateCategory(ctx context.Context, dto CreateCategoryDTO) (CategoryDTO, error) {
	if strings.TrimSpace(dto.Name) == "" {
		return CategoryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	category := &models.Category{
		Name:      strings.TrimSpace(dto.Name),
		Emoji:     dto.Emoji,
		SortOrder: dto.SortOrder,
		IsActive:  true,
	}
	created, err := s.catalogRepo.CreateCategory(ctx, category)
	if err != nil {
		return CategoryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return categoryToDTO(created), nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, dto UpdateCategoryDTO) (CategoryDTO, error) {
	if _, err := s.loadCategory(ctx, id); err != nil {
		return CategoryDTO{}, err
	}
	updates := map[string]any{}
	if dto.Name != nil {
		if strings.TrimSpace(*dto.Name) == "" {
			return CategoryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "category name cannot be empty")
		}
		updates["name"] = strings.TrimSpace(*dto.Name)
	}
	if dto.Emoji != nil {
		updates["emoji"] = *dto.Emoji
	}
	if dto.SortOrder != nil {
		updates["sort_order"] = *dto.SortOrder
	}
	if dto.IsActive != nil {
		updates["is_active"] = *dto.IsActive
	}
	if err := s.catalogRepo.UpdateCategory(ctx, id, updates); err != nil {
		return CategoryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	category, err := s.loadCategory(ctx, id)
	if err != nil {
		return CategoryDTO{}, err
	}
	return categoryToDTO(category), nil
}

// DeleteCategory refuses to drop a category that still holds products.
func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loadCategory(ctx, id); err != nil {
		return err
	}
	count, err := s.catalogRepo.CountProductsInCategory(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count category products")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category still contains products")
	}
	if err := s.catalogRepo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

func (s *service) CreateProduct(ctx context.Context, dto CreateProductDTO) (ProductDTO, error) {
	if strings.TrimSpace(dto.Name) == "" {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if !dto.Unit.IsValid() {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown unit")
	}
	if dto.Badge != "" && !dto.Badge.IsValid() {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown badge")
	}
	if _, err := s.loadCategory(ctx, dto.CategoryID); err != nil {
		return ProductDTO{}, err
	}
	product := &models.Product{
		CategoryID:    dto.CategoryID,
		Name:          strings.TrimSpace(dto.Name),
		Description:   dto.Description,
		ImageURL:      dto.ImageURL,
		Unit:          dto.Unit,
		PriceKg:       dto.PriceKg,
		PricePiece:    dto.PricePiece,
		PricePackage:  dto.PricePackage,
		PriceBox:      dto.PriceBox,
		PriceMulti:    dto.PriceMulti,
		OldPrice:      dto.OldPrice,
		Badge:         dto.Badge,
		StockQuantity: dto.StockQuantity,
		IsActive:      true,
	}
	if _, err := UnitPrice(product, dto.Unit); err != nil {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "price for the default unit is required")
	}
	created, err := s.catalogRepo.CreateProduct(ctx, product)
	if err != nil {
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return ToProductDTO(created), nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (ProductDTO, error) {
	if _, err := s.loadProduct(ctx, id); err != nil {
		return ProductDTO{}, err
	}
	updates := map[string]any{}
	if dto.CategoryID != nil {
		if _, err := s.loadCategory(ctx, *dto.CategoryID); err != nil {
			return ProductDTO{}, err
		}
		updates["category_id"] = *dto.CategoryID
	}
	if dto.Name != nil {
		if strings.TrimSpace(*dto.Name) == "" {
			return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		updates["name"] = strings.TrimSpace(*dto.Name)
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.ImageURL != nil {
		updates["image_url"] = *dto.ImageURL
	}
	if dto.Unit != nil {
		if !dto.Unit.IsValid() {
			return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown unit")
		}
		updates["unit"] = *dto.Unit
	}
	if dto.PriceKg != nil {
		updates["price_kg"] = *dto.PriceKg
	}
	if dto.PricePiece != nil {
		updates["price_piece"] = *dto.PricePiece
	}
	if dto.PricePackage != nil {
		updates["price_package"] = *dto.PricePackage
	}
	if dto.PriceBox != nil {
		updates["price_box"] = *dto.PriceBox
	}
	if dto.PriceMulti != nil {
		updates["price_multi"] = *dto.PriceMulti
	}
	if dto.OldPrice != nil {
		updates["old_price"] = *dto.OldPrice
	}
	if dto.Badge != nil {
		if *dto.Badge != "" && !dto.Badge.IsValid() {
			return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown badge")
		}
		updates["badge"] = *dto.Badge
	}
	if dto.StockQuantity != nil {
		updates["stock_quantity"] = *dto.StockQuantity
	}
	if dto.IsActive != nil {
		updates["is_active"] = *dto.IsActive
	}
	if err := s.catalogRepo.UpdateProduct(ctx, id, updates); err != nil {
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return ProductDTO{}, err
	}
	return ToProductDTO(product), nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loadProduct(ctx, id); err != nil {
		return err
	}
	if err := s.catalogRepo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// AdjustStock shifts tracked stock by delta; going negative or adjusting an
// untracked product is rejected.
func (s *service) AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (ProductDTO, error) {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return ProductDTO{}, err
	}
	if product.StockQuantity == nil {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "product stock is not tracked")
	}
	affected, err := s.catalogRepo.AdjustStock(ctx, id, delta)
	if err != nil {
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust stock")
	}
	if affected == 0 {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "stock cannot go negative")
	}
	product, err = s.loadProduct(ctx, id)
	if err != nil {
		return ProductDTO{}, err
	}
	return ToProductDTO(product), nil
}

// BulkAdjustCategoryPrices scales all unit prices in a category by percent
// and returns the number of touched products.
func (s *service) BulkAdjustCategoryPrices(ctx context.Context, categoryID uuid.UUID, percent decimal.Decimal) (int64, error) {
	if _, err := s.loadCategory(ctx, categoryID); err != nil {
		return 0, err
	}
	if percent.LessThanOrEqual(decimal.NewFromInt(-100)) {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "adjustment would zero out prices")
	}
	affected, err := s.catalogRepo.BulkAdjustCategoryPrices(ctx, categoryID, percent)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bulk adjust prices")
	}
	return affected, nil
}

func (s *service) AttachImage(ctx context.Context, productID uuid.UUID, url string, sortOrder int) (ProductDTO, error) {
	if strings.TrimSpace(url) == "" {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "image url is required")
	}
	if _, err := s.loadProduct(ctx, productID); err != nil {
		return ProductDTO{}, err
	}
	image := &models.ProductImage{
		ProductID: productID,
		URL:       strings.TrimSpace(url),
		SortOrder: sortOrder,
	}
	if _, err := s.catalogRepo.AttachImage(ctx, image); err != nil {
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach image")
	}
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return ProductDTO{}, err
	}
	return ToProductDTO(product), nil
}

func (s *service) DetachImage(ctx context.Context, productID, imageID uuid.UUID) (ProductDTO, error) {
	if _, err := s.loadProduct(ctx, productID); err != nil {
		return ProductDTO{}, err
	}
	affected, err := s.catalogRepo.DetachImage(ctx, productID, imageID)
	if err != nil {
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "detach image")
	}
	if affected == 0 {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "image not found")
	}
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return ProductDTO{}, err
	}
	return ToProductDTO(product), nil
}

func (s *service) loadCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	category, err := s.catalogRepo.FindCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.catalogRepo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}
