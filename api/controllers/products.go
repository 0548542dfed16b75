package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Saymandev/samucha-storefront/api/responses"
	"github.com/Saymandev/samucha-storefront/api/validators"
	productsvc "github.com/Saymandev/samucha-storefront/internal/products"
	pkgerrors "github.com/Saymandev/samucha-storefront/pkg/errors"
	"github.com/Saymandev/samucha-storefront/pkg/logger"
	"github.com/Saymandev/samucha-storefront/pkg/pagination"
)

// productDetail is the storefront read of a product: the record plus the
// selectable axes the product page renders pickers for.
type productDetail struct {
	*productsvc.Product
	Axes []productsvc.Axis `json:"axes"`
}

// ProductGet returns an active product with its selectable axes.
func ProductGet(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := pathParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !product.IsActive {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}

		axes := product.Axes()
		if axes == nil {
			axes = []productsvc.Axis{}
		}
		responses.WriteSuccess(w, productDetail{Product: product, Axes: axes})
	}
}

// ProductList pages through the active catalog, newest first.
func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return listProducts(svc, logg, false)
}

// AdminProductList pages through the catalog. include_inactive=true also
// returns products hidden from the storefront.
func AdminProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return listProducts(svc, logg, true)
}

func listProducts(svc productsvc.Service, logg *logger.Logger, admin bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := productsvc.ListProductsInput{
			Params: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		}
		if admin {
			if input.IncludeInactive, err = validators.ParseQueryBool(r, "include_inactive", false); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		page, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

func pathParam(r *http.Request, name string) (string, error) {
	value := strings.TrimSpace(chi.URLParam(r, name))
	if value == "" {
		return "", pkgerrors.Newf(pkgerrors.CodeValidation, "%s is required", name)
	}
	return value, nil
}
