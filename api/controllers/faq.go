package controllers

import (
	"net/http"

	"github.com/gryadkadev/gryadka-backend/api/responses"
	faqsvc "github.com/gryadkadev/gryadka-backend/internal/faq"
	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
	"github.com/gryadkadev/gryadka-backend/pkg/logger"
)

// ListFAQ returns the published FAQ entries in display order.
func ListFAQ(svc faqsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "faq service unavailable"))
			return
		}

		items, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}
