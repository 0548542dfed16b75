package cart

import (
	"strings"

	cartdto "github.com/Saymandev/samucha-storefront/api/controllers/cart/dto"
	"github.com/Saymandev/samucha-storefront/api/validators"
	cartsvc "github.com/Saymandev/samucha-storefront/internal/cart"
	product "github.com/Saymandev/samucha-storefront/internal/products"
	"github.com/Saymandev/samucha-storefront/pkg/enums"
	pkgerrors "github.com/Saymandev/samucha-storefront/pkg/errors"
)

const maxSelectionLen = 64

func toAddItemInput(payload cartdto.AddItemRequest) cartsvc.AddItemInput {
	return cartsvc.AddItemInput{
		ProductID: strings.TrimSpace(payload.ProductID),
		Quantity:  payload.Quantity,
		Selection: toSelection(payload.Selection),
	}
}

func toSelection(req cartdto.SelectionRequest) product.Selection {
	sel := product.Selection{
		Color:  validators.SanitizeString(req.Color, maxSelectionLen),
		Size:   validators.SanitizeString(req.Size, maxSelectionLen),
		Weight: validators.SanitizeString(req.Weight, maxSelectionLen),
	}
	if len(req.Attributes) > 0 {
		sel.Attributes = make(map[string]string, len(req.Attributes))
		for name, value := range req.Attributes {
			sel.Attributes[validators.SanitizeString(name, maxSelectionLen)] = validators.SanitizeString(value, maxSelectionLen)
		}
	}
	return sel
}

func toPreferencesInput(payload cartdto.PreferencesRequest) (cartsvc.PreferencesInput, error) {
	var input cartsvc.PreferencesInput
	if payload.Theme != nil {
		theme, err := enums.ParseTheme(strings.TrimSpace(*payload.Theme))
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid theme")
		}
		input.Theme = &theme
	}
	if payload.Language != nil {
		lang, err := enums.ParseLanguage(strings.TrimSpace(*payload.Language))
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid language")
		}
		input.Language = &lang
	}
	return input, nil
}

func toSignInInput(payload cartdto.SignInRequest) cartsvc.SignInInput {
	return cartsvc.SignInInput{
		User: cartsvc.User{
			ID:    strings.TrimSpace(payload.UserID),
			Name:  validators.SanitizeString(payload.Name, 120),
			Email: strings.TrimSpace(payload.Email),
		},
		Token: payload.Token,
	}
}
