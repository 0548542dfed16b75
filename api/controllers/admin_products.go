package controllers

import (
	"net/http"
	"net/url"

	"github.com/Saymandev/samucha-storefront/api/responses"
	"github.com/Saymandev/samucha-storefront/api/validators"
	productsvc "github.com/Saymandev/samucha-storefront/internal/products"
	pkgerrors "github.com/Saymandev/samucha-storefront/pkg/errors"
	"github.com/Saymandev/samucha-storefront/pkg/logger"
)

// AdminCreateProduct registers a catalog product. Variants are not generated
// until the admin asks for it.
func AdminCreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

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

// AdminReplaceAttributes swaps the whole attribute configuration.
func AdminReplaceAttributes(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload replaceAttributesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defs, err := toDefinitions(payload.Attributes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		applyAttributeEdit(svc, logg, w, r, productsvc.ReplaceAttributes(defs))
	}
}

// AdminAddAttributeValue appends one value to a named attribute.
func AdminAddAttributeValue(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := unescapedPathParam(r, "name")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload attributeValueRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		applyAttributeEdit(svc, logg, w, r, productsvc.AddAttributeValue(name, payload.toValue()))
	}
}

// AdminRemoveAttributeValue drops one value. Removing an absent value is a no-op.
func AdminRemoveAttributeValue(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := unescapedPathParam(r, "name")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		value, err := unescapedPathParam(r, "value")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		applyAttributeEdit(svc, logg, w, r, productsvc.RemoveAttributeValue(name, value))
	}
}

// AdminRemoveAttribute drops a whole attribute.
func AdminRemoveAttribute(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := unescapedPathParam(r, "name")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		applyAttributeEdit(svc, logg, w, r, productsvc.RemoveAttribute(name))
	}
}

// AdminPreviewVariants reports how many combinations generating would produce.
func AdminPreviewVariants(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		preview, err := svc.PreviewCombinations(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, preview)
	}
}

// AdminGenerateVariants rematerializes variants, keeping existing edits.
func AdminGenerateVariants(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		result, err := svc.RegenerateVariants(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdminUpdateVariant applies price, stock, availability or image edits to one variant.
func AdminUpdateVariant(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
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
		variantID, err := pathParam(r, "variantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateVariantRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variant, err := svc.UpdateVariant(r.Context(), productID, variantID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, variant)
	}
}

func applyAttributeEdit(svc productsvc.Service, logg *logger.Logger, w http.ResponseWriter, r *http.Request, edit productsvc.AttributeEdit) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
		return
	}

	productID, err := pathParam(r, "productId")
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	product, err := svc.UpdateAttributes(r.Context(), productID, edit)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	responses.WriteSuccess(w, product)
}

// Attribute names and values may carry spaces or non-ASCII text.
func unescapedPathParam(r *http.Request, name string) (string, error) {
	raw, err := pathParam(r, name)
	if err != nil {
		return "", err
	}
	value, err := url.PathUnescape(raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return value, nil
}
