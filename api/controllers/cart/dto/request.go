package cartdto

// SelectionRequest carries the shopper's pick across a product's axes.
type SelectionRequest struct {
	Color      string            `json:"color,omitempty" validate:"omitempty,max=64"`
	Size       string            `json:"size,omitempty" validate:"omitempty,max=64"`
	Weight     string            `json:"weight,omitempty" validate:"omitempty,max=64"`
	Attributes map[string]string `json:"attributes,omitempty" validate:"omitempty,max=16,dive,keys,required,max=64,endkeys,required,max=64"`
}

// AddItemRequest adds a product to the session cart.
type AddItemRequest struct {
	ProductID string           `json:"product_id" validate:"required,max=64"`
	Quantity  int              `json:"quantity" validate:"required,min=1"`
	Selection SelectionRequest `json:"selection"`
}

// UpdateItemRequest sets an absolute quantity; zero or less removes the line.
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// PreferencesRequest updates display preferences.
type PreferencesRequest struct {
	Theme    *string `json:"theme,omitempty" validate:"omitempty,oneof=light dark"`
	Language *string `json:"language,omitempty" validate:"omitempty,oneof=en bn"`
}

// SignInRequest records an identity the auth backend already verified.
type SignInRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
	Name   string `json:"name,omitempty" validate:"omitempty,max=120"`
	Email  string `json:"email,omitempty" validate:"omitempty,email"`
	Token  string `json:"token" validate:"required"`
}
