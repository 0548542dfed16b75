package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Saymandev/samucha-storefront/api/middleware"
	cartsvc "github.com/Saymandev/samucha-storefront/internal/cart"
	"github.com/Saymandev/samucha-storefront/pkg/enums"
	pkgerrors "github.com/Saymandev/samucha-storefront/pkg/errors"
)

type stubCartService struct {
	view      *cartsvc.View
	addResult *cartsvc.AddItemResult
	err       error

	lastSession     string
	lastAdd         cartsvc.AddItemInput
	lastProductID   string
	lastQuantity    int
	lastPreferences cartsvc.PreferencesInput
	lastSignIn      cartsvc.SignInInput
	signedOut       bool
}

func (s *stubCartService) GetCart(ctx context.Context, sessionID string) (*cartsvc.View, error) {
	s.lastSession = sessionID
	return s.view, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, sessionID string, input cartsvc.AddItemInput) (*cartsvc.AddItemResult, error) {
	s.lastSession = sessionID
	s.lastAdd = input
	return s.addResult, s.err
}

func (s *stubCartService) UpdateItem(ctx context.Context, sessionID, productID string, quantity int) (*cartsvc.View, error) {
	s.lastSession = sessionID
	s.lastProductID = productID
	s.lastQuantity = quantity
	return s.view, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, sessionID, productID string) (*cartsvc.View, error) {
	s.lastSession = sessionID
	s.lastProductID = productID
	return s.view, s.err
}

func (s *stubCartService) ClearCart(ctx context.Context, sessionID string) (*cartsvc.View, error) {
	s.lastSession = sessionID
	return s.view, s.err
}

func (s *stubCartService) UpdatePreferences(ctx context.Context, sessionID string, input cartsvc.PreferencesInput) (*cartsvc.View, error) {
	s.lastSession = sessionID
	s.lastPreferences = input
	return s.view, s.err
}

func (s *stubCartService) SignIn(ctx context.Context, sessionID string, input cartsvc.SignInInput) (*cartsvc.View, error) {
	s.lastSession = sessionID
	s.lastSignIn = input
	return s.view, s.err
}

func (s *stubCartService) SignOut(ctx context.Context, sessionID string) (*cartsvc.View, error) {
	s.lastSession = sessionID
	s.signedOut = true
	return s.view, s.err
}

func sampleView() *cartsvc.View {
	return &cartsvc.View{
		Items: []cartsvc.LineItem{{
			ProductID: "prod-1",
			Name:      "Premium Tea",
			Quantity:  2,
			UnitPrice: decimal.RequireFromString("24.99"),
			Subtotal:  decimal.RequireFromString("49.98"),
		}},
		CartCount: 2,
		CartTotal: decimal.RequireFromString("49.98"),
		Theme:     enums.ThemeLight,
		Language:  enums.LanguageEnglish,
	}
}

func sessionRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.WithSessionID(req.Context(), "sess-1"))
}

func withProductParam(req *http.Request, productID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("productId", productID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestCartFetchSuccess(t *testing.T) {
	svc := &stubCartService{view: sampleView()}
	handler := CartFetch(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodGet, "/api/v1/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastSession != "sess-1" {
		t.Fatalf("unexpected session %q", svc.lastSession)
	}

	var envelope struct {
		Data struct {
			CartCount int    `json:"cart_count"`
			CartTotal string `json:"cart_total"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.CartCount != 2 || envelope.Data.CartTotal != "49.98" {
		t.Fatalf("unexpected aggregates %+v", envelope.Data)
	}
}

func TestCartFetchRequiresSession(t *testing.T) {
	handler := CartFetch(&stubCartService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddItemMapsPayload(t *testing.T) {
	svc := &stubCartService{addResult: &cartsvc.AddItemResult{
		AddResult: cartsvc.AddResult{Outcome: cartsvc.OutcomeAdded, Requested: 2},
		Cart:      sampleView(),
	}}
	handler := CartAddItem(svc, nil)

	body := `{"product_id":" prod-1 ","quantity":2,"selection":{"size":" L ","attributes":{"Color":"Red"}}}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/cart/items", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastAdd.ProductID != "prod-1" || svc.lastAdd.Quantity != 2 {
		t.Fatalf("unexpected input %+v", svc.lastAdd)
	}
	if svc.lastAdd.Selection.Size != "L" || svc.lastAdd.Selection.Attributes["Color"] != "Red" {
		t.Fatalf("unexpected selection %+v", svc.lastAdd.Selection)
	}
}

func TestCartAddItemRejectedOverMaxIsOK(t *testing.T) {
	svc := &stubCartService{addResult: &cartsvc.AddItemResult{
		AddResult: cartsvc.AddResult{Outcome: cartsvc.OutcomeRejectedOverMax, Requested: 9},
		Cart:      &cartsvc.View{Items: []cartsvc.LineItem{}},
	}}
	handler := CartAddItem(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/cart/items", `{"product_id":"prod-1","quantity":9}`))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data struct {
			Outcome string `json:"outcome"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Outcome != string(cartsvc.OutcomeRejectedOverMax) {
		t.Fatalf("unexpected outcome %q", envelope.Data.Outcome)
	}
}

func TestCartAddItemValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing product", `{"quantity":1}`},
		{"zero quantity", `{"product_id":"prod-1","quantity":0}`},
		{"negative quantity", `{"product_id":"prod-1","quantity":-3}`},
		{"unknown field", `{"product_id":"prod-1","quantity":1,"price":1}`},
		{"malformed", `{"product_id":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubCartService{}
			handler := CartAddItem(svc, nil)

			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/cart/items", tc.body))

			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d", resp.Code)
			}
			if svc.lastSession != "" {
				t.Fatalf("service should not be called")
			}
		})
	}
}

func TestCartUpdateItemZeroQuantityIsForwarded(t *testing.T) {
	svc := &stubCartService{view: &cartsvc.View{Items: []cartsvc.LineItem{}}}
	handler := CartUpdateItem(svc, nil)

	req := withProductParam(sessionRequest(http.MethodPatch, "/api/v1/cart/items/prod-1", `{"quantity":0}`), "prod-1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastProductID != "prod-1" || svc.lastQuantity != 0 {
		t.Fatalf("unexpected update %q %d", svc.lastProductID, svc.lastQuantity)
	}
}

func TestCartUpdateItemRequiresQuantity(t *testing.T) {
	handler := CartUpdateItem(&stubCartService{}, nil)

	req := withProductParam(sessionRequest(http.MethodPatch, "/api/v1/cart/items/prod-1", `{}`), "prod-1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartUpdateItemPropagatesServiceError(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds max order quantity")}
	handler := CartUpdateItem(svc, nil)

	req := withProductParam(sessionRequest(http.MethodPatch, "/api/v1/cart/items/prod-1", `{"quantity":50}`), "prod-1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartRemoveItem(t *testing.T) {
	svc := &stubCartService{view: &cartsvc.View{Items: []cartsvc.LineItem{}}}
	handler := CartRemoveItem(svc, nil)

	req := withProductParam(sessionRequest(http.MethodDelete, "/api/v1/cart/items/prod-9", ""), "prod-9")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastProductID != "prod-9" {
		t.Fatalf("unexpected product %q", svc.lastProductID)
	}
}

func TestCartClearDependencyFailure(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeDependency, "session store unavailable")}
	handler := CartClear(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodDelete, "/api/v1/cart", ""))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestSessionPreferencesParsesEnums(t *testing.T) {
	svc := &stubCartService{view: sampleView()}
	handler := SessionPreferences(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPut, "/api/v1/session/preferences", `{"theme":"dark","language":"bn"}`))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastPreferences.Theme == nil || *svc.lastPreferences.Theme != enums.ThemeDark {
		t.Fatalf("theme not forwarded: %+v", svc.lastPreferences)
	}
	if svc.lastPreferences.Language == nil || *svc.lastPreferences.Language != enums.LanguageBangla {
		t.Fatalf("language not forwarded: %+v", svc.lastPreferences)
	}
}

func TestSessionPreferencesRejectsUnknownTheme(t *testing.T) {
	svc := &stubCartService{}
	handler := SessionPreferences(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPut, "/api/v1/session/preferences", `{"theme":"sepia"}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestSessionSignInAndOut(t *testing.T) {
	svc := &stubCartService{view: sampleView()}

	resp := httptest.NewRecorder()
	SessionSignIn(svc, nil).ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/session/sign-in",
		`{"user_id":"u-1","name":" Rahim ","email":"rahim@example.com","token":"tok"}`))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastSignIn.User.ID != "u-1" || svc.lastSignIn.User.Name != "Rahim" || svc.lastSignIn.Token != "tok" {
		t.Fatalf("unexpected sign in %+v", svc.lastSignIn)
	}

	resp = httptest.NewRecorder()
	SessionSignOut(svc, nil).ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/session/sign-out", ""))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !svc.signedOut {
		t.Fatalf("expected sign out to reach service")
	}
}

func TestSessionSignInRejectsBadEmail(t *testing.T) {
	handler := SessionSignIn(&stubCartService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/session/sign-in", `{"user_id":"u-1","email":"nope","token":"tok"}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
