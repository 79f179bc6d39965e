package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/VamsiDavuluri/vendor-inventory/api/responses"
	"github.com/VamsiDavuluri/vendor-inventory/internal/catalog"
	"github.com/VamsiDavuluri/vendor-inventory/internal/gallery"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/logger"
)

// ListProducts returns the vendor's raw catalog rows.
func ListProducts(directory catalog.Directory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID := chi.URLParam(r, "vendorId")

		products, err := directory.Products(vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"vendor_id": vendorID,
			"products":  products,
		})
	}
}

// ListProductsWithStatus returns the vendor's catalog annotated with each
// product's gallery summary (cover URL and image count).
func ListProductsWithStatus(svc *gallery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID := chi.URLParam(r, "vendorId")

		statuses, err := svc.ProductsWithStatus(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"vendor_id": vendorID,
			"products":  statuses,
		})
	}
}
