package favorites

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gryadkadev/gryadka-backend/internal/catalog"
	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
)

type productLoader interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ServiceParams groups dependencies for the favorites service.
type ServiceParams struct {
	FavoritesRepo *Repository
	ProductLoader productLoader
}

// Service exposes favorites management for the storefront.
type Service interface {
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	Toggle(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	List(ctx context.Context, userID uuid.UUID) ([]catalog.ProductDTO, error)
}

type service struct {
	favoritesRepo *Repository
	products      productLoader
}

// NewService builds a favorites service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.FavoritesRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "favorites repo is required")
	}
	if params.ProductLoader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product loader is required")
	}
	return &service{favoritesRepo: params.FavoritesRepo, products: params.ProductLoader}, nil
}

// Add marks the product as a favorite; duplicates are a no-op.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return err
	}
	if err := s.favoritesRepo.Add(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add favorite")
	}
	return nil
}

// Remove drops the favorite regardless of prior state.
func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and product id are required")
	}
	if _, err := s.favoritesRepo.Remove(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite")
	}
	return nil
}

// Toggle flips the favorite state and reports whether it is now set.
func (s *service) Toggle(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return false, err
	}
	exists, err := s.favoritesRepo.Exists(ctx, userID, productID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check favorite")
	}
	if exists {
		if _, err := s.favoritesRepo.Remove(ctx, userID, productID); err != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite")
		}
		return false, nil
	}
	if err := s.favoritesRepo.Add(ctx, userID, productID); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add favorite")
	}
	return true, nil
}

// List returns the user's favorited products, active listings only.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]catalog.ProductDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	products, err := s.favoritesRepo.ListProducts(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}
	items := make([]catalog.ProductDTO, 0, len(products))
	for i := range products {
		items = append(items, catalog.ToProductDTO(&products[i]))
	}
	return items, nil
}

func (s *service) ensureProduct(ctx context.Context, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.products.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}
