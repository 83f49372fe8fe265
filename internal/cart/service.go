package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gryadkadev/gryadka-backend/internal/catalog"
	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
)

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	CartRepo      *Repository
	ProductLoader productLoader
}

type productLoader interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes cart management for the storefront.
type Service interface {
	Add(ctx context.Context, userID uuid.UUID, dto AddItemDTO) (*CartDTO, error)
	List(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity decimal.Decimal) (*CartDTO, error)
	Remove(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	cartRepo *Repository
	products productLoader
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.ProductLoader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product loader is required")
	}
	return &service{cartRepo: params.CartRepo, products: params.ProductLoader}, nil
}

// Add puts a product into the cart; an existing (product, unit) line merges
// quantities. The live unit price is snapshotted as price_at_add.
func (s *service) Add(ctx context.Context, userID uuid.UUID, dto AddItemDTO) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if dto.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if !dto.Unit.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown unit")
	}
	if dto.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindProductByID(ctx, dto.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	price, err := catalog.UnitPrice(product, dto.Unit)
	if err != nil {
		return nil, err
	}
	if product.StockQuantity != nil && dto.Quantity.GreaterThan(*product.StockQuantity) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "not enough stock")
	}

	if err := s.cartRepo.AddOrMerge(ctx, userID, dto.ProductID, dto.Unit, dto.Quantity, price); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
	}
	return s.List(ctx, userID)
}

// List returns the cart with totals built from the add-time price snapshot.
// The live unit price rides along for display only. Lines whose product
// disappeared or went inactive are skipped from totals but still removable.
func (s *service) List(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart")
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	productsByID, err := s.cartRepo.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
	}

	cart := &CartDTO{Items: make([]LineDTO, 0, len(items)), Subtotal: decimal.Zero}
	for _, item := range items {
		product, ok := productsByID[item.ProductID]
		if !ok || !product.IsActive {
			continue
		}
		unitPrice, err := catalog.UnitPrice(product, item.Unit)
		if err != nil {
			unitPrice = item.PriceAtAdd
		}
		lineTotal := item.PriceAtAdd.Mul(item.Quantity)
		cart.Items = append(cart.Items, LineDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: product.Name,
			ImageURL:    product.ImageURL,
			Unit:        item.Unit,
			Quantity:    item.Quantity,
			UnitPrice:   unitPrice,
			PriceAtAdd:  item.PriceAtAdd,
			LineTotal:   lineTotal,
			CreatedAt:   item.CreatedAt,
		})
		cart.Subtotal = cart.Subtotal.Add(lineTotal)
	}
	return cart, nil
}

// UpdateQuantity overwrites a line's quantity; zero or below removes it.
func (s *service) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity decimal.Decimal) (*CartDTO, error) {
	if userID == uuid.Nil || itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and item id are required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return s.Remove(ctx, userID, itemID)
	}
	affected, err := s.cartRepo.UpdateQuantity(ctx, itemID, userID, quantity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return s.List(ctx, userID)
}

// Remove drops one line from the cart.
func (s *service) Remove(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil || itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and item id are required")
	}
	affected, err := s.cartRepo.Remove(ctx, itemID, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return s.List(ctx, userID)
}

// Clear empties the cart.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}
