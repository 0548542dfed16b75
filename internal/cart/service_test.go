package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	product "github.com/Saymandev/samucha-storefront/internal/products"
	"github.com/Saymandev/samucha-storefront/pkg/enums"
	pkgerrors "github.com/Saymandev/samucha-storefront/pkg/errors"
	"github.com/Saymandev/samucha-storefront/pkg/logger"
	"github.com/Saymandev/samucha-storefront/pkg/redis"
	"github.com/shopspring/decimal"
)

type stubProducts struct {
	products map[string]product.Product
}

func (s stubProducts) GetProduct(_ context.Context, id string) (*product.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &p, nil
}

type failingSnapshots struct{}

func (failingSnapshots) Load(context.Context, string) (Snapshot, bool, error) {
	return Snapshot{}, false, errors.New("connection refused")
}

func (failingSnapshots) Save(context.Context, string, Snapshot) error {
	return errors.New("connection refused")
}

type testHarness struct {
	svc    Service
	mem    *redis.MemoryCmdable
	client *redis.Client
	logs   *bytes.Buffer
}

func newHarness(t *testing.T, policy enums.OverMaxPolicy) testHarness {
	t.Helper()
	mem := redis.NewMemoryCmdable()
	client := redis.NewWithCmdable(mem)
	repo, err := NewRedisSnapshotRepository(client, "app-storage", time.Hour)
	if err != nil {
		t.Fatalf("snapshot repo: %v", err)
	}
	logs := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: logs})
	catalog := stubProducts{products: map[string]product.Product{
		"product-a": productA(),
		"product-b": productB(),
		"inactive":  {ID: "inactive", Name: "Old", Price: decimal.NewFromInt(1)},
	}}
	svc, err := NewService(repo, catalog, policy, nil, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return testHarness{svc: svc, mem: mem, client: client, logs: logs}
}

func TestServiceAddPersistsSnapshot(t *testing.T) {
	h := newHarness(t, enums.OverMaxPolicyReject)
	ctx := context.Background()

	res, err := h.svc.AddItem(ctx, "sess-1", AddItemInput{ProductID: "product-a", Quantity: 3})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if res.Outcome != OutcomeAdded || res.Cart.CartCount != 3 || !res.Cart.CartTotal.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("unexpected result %+v", res)
	}

	key := h.client.SnapshotKey("app-storage", "sess-1")
	raw, err := h.client.Get(ctx, key)
	if err != nil {
		t.Fatalf("snapshot missing: %v", err)
	}
	var stored map[string]any
	if err := json.Unmarshal(raw, &stored); err != nil {
		t.Fatalf("decode stored snapshot: %v", err)
	}
	for _, field := range []string{"version", "cart", "cartCount", "cartTotal", "isAuthenticated", "theme", "language"} {
		if _, ok := stored[field]; !ok {
			t.Fatalf("snapshot missing %q: %s", field, raw)
		}
	}
	if h.mem.TTL(key) != time.Hour {
		t.Fatalf("expected ttl of 1h, got %s", h.mem.TTL(key))
	}

	view, err := h.svc.GetCart(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if view.CartCount != 3 || len(view.Items) != 1 || view.Theme != enums.ThemeLight {
		t.Fatalf("unexpected view %+v", view)
	}

	other, err := h.svc.GetCart(ctx, "sess-2")
	if err != nil {
		t.Fatalf("get other cart: %v", err)
	}
	if other.CartCount != 0 || len(other.Items) != 0 {
		t.Fatalf("sessions leaked into each other: %+v", other)
	}
}

func TestServiceRejectedAddLeavesCartAndWarns(t *testing.T) {
	h := newHarness(t, enums.OverMaxPolicyReject)
	ctx := context.Background()

	if _, err := h.svc.AddItem(ctx, "sess-1", AddItemInput{ProductID: "product-a", Quantity: 3}); err != nil {
		t.Fatalf("add: %v", err)
	}
	res, err := h.svc.AddItem(ctx, "sess-1", AddItemInput{ProductID: "product-a", Quantity: 4})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if res.Outcome != OutcomeRejectedOverMax || res.Cart.CartCount != 3 || !res.Cart.CartTotal.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected rejected add with unchanged cart, got %+v", res)
	}
	if !strings.Contains(h.logs.String(), "cart add exceeded max order quantity") {
		t.Fatalf("expected warning log, got %s", h.logs.String())
	}
}

func TestServiceUpdateRemoveClear(t *testing.T) {
	h := newHarness(t, enums.OverMaxPolicyReject)
	ctx := context.Background()

	if _, err := h.svc.AddItem(ctx, "sess", AddItemInput{ProductID: "product-a", Quantity: 3}); err != nil {
		t.Fatalf("add a: %v", err)
	}
	if _, err := h.svc.AddItem(ctx, "sess", AddItemInput{ProductID: "product-b", Quantity: 2, Selection: product.Selection{Size: "L"}}); err != nil {
		t.Fatalf("add b: %v", err)
	}

	view, err := h.svc.UpdateItem(ctx, "sess", "product-a", 0)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(view.Items) != 1 || view.CartCount != 2 || !view.CartTotal.Equal(decimal.RequireFromString("49.98")) {
		t.Fatalf("unexpected view after update %+v", view)
	}

	if _, err := h.svc.UpdateItem(ctx, "sess", "product-b", 20); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	view, err = h.svc.RemoveItem(ctx, "sess", "missing")
	if err != nil || view.CartCount != 2 {
		t.Fatalf("expected no-op remove, got %+v %v", view, err)
	}

	view, err = h.svc.ClearCart(ctx, "sess")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if view.CartCount != 0 || !view.CartTotal.IsZero() || len(view.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", view)
	}
}

func TestServicePreferencesAndIdentity(t *testing.T) {
	h := newHarness(t, enums.OverMaxPolicyReject)
	ctx := context.Background()

	dark := enums.ThemeDark
	bangla := enums.LanguageBangla
	view, err := h.svc.UpdatePreferences(ctx, "sess", PreferencesInput{Theme: &dark, Language: &bangla})
	if err != nil {
		t.Fatalf("preferences: %v", err)
	}
	if view.Theme != enums.ThemeDark || view.Language != enums.LanguageBangla {
		t.Fatalf("unexpected preferences %+v", view)
	}

	bad := enums.Theme("neon")
	if _, err := h.svc.UpdatePreferences(ctx, "sess", PreferencesInput{Theme: &bad}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	view, err = h.svc.SignIn(ctx, "sess", SignInInput{User: User{ID: "u-1", Name: "Rahim"}, Token: "tok"})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if !view.IsAuthenticated || view.User == nil || view.User.ID != "u-1" {
		t.Fatalf("unexpected identity %+v", view)
	}
	if _, err := h.svc.AddItem(ctx, "sess", AddItemInput{ProductID: "product-a", Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}

	view, err = h.svc.SignOut(ctx, "sess")
	if err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if view.IsAuthenticated || view.User != nil || view.CartCount != 0 {
		t.Fatalf("expected cleared session, got %+v", view)
	}
	if view.Theme != enums.ThemeDark {
		t.Fatalf("sign out should keep preferences, got %+v", view)
	}
}

func TestServiceDiscardsUnknownSnapshotVersion(t *testing.T) {
	h := newHarness(t, enums.OverMaxPolicyReject)
	ctx := context.Background()

	legacy := `{"version":7,"cart":[{"product_id":"product-a","quantity":2,"unit_price":"50"}],"cartCount":2}`
	if err := h.client.Set(ctx, h.client.SnapshotKey("app-storage", "sess"), []byte(legacy), 0); err != nil {
		t.Fatalf("seed: %v", err)
	}
	view, err := h.svc.GetCart(ctx, "sess")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if view.CartCount != 0 {
		t.Fatalf("expected stale snapshot discarded, got %+v", view)
	}
	if !strings.Contains(h.logs.String(), "unsupported version") {
		t.Fatalf("expected warning log, got %s", h.logs.String())
	}
}

func TestServiceErrors(t *testing.T) {
	h := newHarness(t, enums.OverMaxPolicyReject)
	ctx := context.Background()

	if _, err := h.svc.GetCart(ctx, "  "); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for missing session, got %v", err)
	}
	if _, err := h.svc.AddItem(ctx, "sess", AddItemInput{ProductID: "nope", Quantity: 1}); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := h.svc.AddItem(ctx, "sess", AddItemInput{ProductID: "inactive", Quantity: 1}); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected inactive product hidden, got %v", err)
	}
	if _, err := h.svc.AddItem(ctx, "sess", AddItemInput{ProductID: "product-a", Quantity: 0}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}})
	svc, err := NewService(failingSnapshots{}, stubProducts{}, enums.OverMaxPolicyReject, nil, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := svc.GetCart(ctx, "sess"); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestServiceSerializesSession(t *testing.T) {
	h := newHarness(t, enums.OverMaxPolicyReject)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := h.svc.AddItem(ctx, "shared", AddItemInput{ProductID: "product-b", Quantity: 2}); err != nil {
				t.Errorf("add: %v", err)
			}
		}()
	}
	wg.Wait()

	view, err := h.svc.GetCart(ctx, "shared")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	// product-b caps at 10, so exactly five adds of 2 land
	if view.CartCount != 10 {
		t.Fatalf("expected 10 after serialized adds, got %d", view.CartCount)
	}
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}})
	if _, err := NewService(nil, stubProducts{}, enums.OverMaxPolicyReject, nil, logg); err == nil {
		t.Fatal("expected error for missing snapshots")
	}
	if _, err := NewService(failingSnapshots{}, stubProducts{}, "sometimes", nil, logg); err == nil {
		t.Fatal("expected error for invalid policy")
	}
}
