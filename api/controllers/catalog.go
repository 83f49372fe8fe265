package controllers

import (
	"net/http"
	"strings"

	"github.com/gryadkadev/gryadka-backend/api/responses"
	"github.com/gryadkadev/gryadka-backend/api/validators"
	catalogsvc "github.com/gryadkadev/gryadka-backend/internal/catalog"
	"github.com/gryadkadev/gryadka-backend/pkg/enums"
	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
	"github.com/gryadkadev/gryadka-backend/pkg/logger"
)

// ListCategories returns the active categories in display order.
func ListCategories(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context(), false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"categories": categories})
	}
}

// ListProducts returns one page of active products, optionally narrowed by
// category, badge, or a name search.
func ListProducts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

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

		page, err := svc.ListProducts(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// GetProduct returns a single active product.
func GetProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID, false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func parseProductFilters(r *http.Request) (catalogsvc.ProductFilters, error) {
	var filters catalogsvc.ProductFilters

	categoryID, err := validators.ParseQueryUUID(r, "category_id")
	if err != nil {
		return filters, err
	}
	filters.CategoryID = categoryID

	if raw := strings.TrimSpace(r.URL.Query().Get("badge")); raw != "" {
		badge, parseErr := enums.ParseProductBadge(raw)
		if parseErr != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid badge")
		}
		filters.Badge = &badge
	}

	filters.Query = validators.SanitizeString(r.URL.Query().Get("q"), 120)
	return filters, nil
}
