package controllers

import (
	"net/http"

	"github.com/neevdiamonds/storefront-backend/api/middleware"
	"github.com/neevdiamonds/storefront-backend/api/responses"
	"github.com/neevdiamonds/storefront-backend/api/validators"
	cartsvc "github.com/neevdiamonds/storefront-backend/internal/cart"
	catalogsvc "github.com/neevdiamonds/storefront-backend/internal/catalog"
	pkgerrors "github.com/neevdiamonds/storefront-backend/pkg/errors"
	"github.com/neevdiamonds/storefront-backend/pkg/logger"
)

type catalogPageResponse struct {
	Products   []catalogsvc.ProductDTO `json:"products"`
	Categories []string                `json:"categories"`
	CartCount  int                     `json:"cart_count"`
}

// CatalogList serves the storefront landing data: the filtered product
// list, the category set, and the visitor's cart size.
func CatalogList(svc catalogsvc.Service, carts cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		query := r.URL.Query()
		products, err := svc.List(r.Context(), query.Get("q"), query.Get("cat"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categories, err := svc.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cartCount := 0
		if carts != nil {
			if sessionID := middleware.SessionIDFromContext(r.Context()); sessionID != "" {
				if quote, err := carts.View(r.Context(), sessionID); err == nil {
					cartCount = quote.Count
				}
			}
		}

		responses.WriteSuccess(w, catalogPageResponse{
			Products:   products,
			Categories: categories,
			CartCount:  cartCount,
		})
	}
}

// ProductGet serves one product's detail.
func ProductGet(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
