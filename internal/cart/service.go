package cart

import (
	"context"
	"fmt"
	"strings"

	product "github.com/Saymandev/samucha-storefront/internal/products"
	"github.com/Saymandev/samucha-storefront/pkg/enums"
	pkgerrors "github.com/Saymandev/samucha-storefront/pkg/errors"
	"github.com/Saymandev/samucha-storefront/pkg/logger"
	"github.com/Saymandev/samucha-storefront/pkg/metrics"
	"github.com/shopspring/decimal"
)

// Service exposes the session cart and the preferences stored beside it.
type Service interface {
	GetCart(ctx context.Context, sessionID string) (*View, error)
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (*AddItemResult, error)
	UpdateItem(ctx context.Context, sessionID, productID string, quantity int) (*View, error)
	RemoveItem(ctx context.Context, sessionID, productID string) (*View, error)
	ClearCart(ctx context.Context, sessionID string) (*View, error)
	UpdatePreferences(ctx context.Context, sessionID string, input PreferencesInput) (*View, error)
	SignIn(ctx context.Context, sessionID string, input SignInInput) (*View, error)
	SignOut(ctx context.Context, sessionID string) (*View, error)
}

// AddItemInput is a request to put a product into the cart.
type AddItemInput struct {
	ProductID string
	Quantity  int
	Selection product.Selection
}

// PreferencesInput updates display preferences. Nil fields are left alone.
type PreferencesInput struct {
	Theme    *enums.Theme
	Language *enums.Language
}

// SignInInput records an identity verified elsewhere.
type SignInInput struct {
	User  User
	Token string
}

// View is the client-facing read of a session.
type View struct {
	Items           []LineItem      `json:"items"`
	CartCount       int             `json:"cart_count"`
	CartTotal       decimal.Decimal `json:"cart_total"`
	IsAuthenticated bool            `json:"is_authenticated"`
	User            *User           `json:"user,omitempty"`
	Theme           enums.Theme     `json:"theme"`
	Language        enums.Language  `json:"language"`
}

// AddItemResult pairs the add outcome with the resulting cart.
type AddItemResult struct {
	AddResult
	Cart *View `json:"cart"`
}

type productReader interface {
	GetProduct(ctx context.Context, productID string) (*product.Product, error)
}

type service struct {
	snapshots SnapshotRepository
	products  productReader
	policy    enums.OverMaxPolicy
	locks     *sessionLocks
	metrics   *metrics.StorefrontMetrics
	logg      *logger.Logger
}

// NewService constructs the cart service.
func NewService(snapshots SnapshotRepository, products productReader, policy enums.OverMaxPolicy, m *metrics.StorefrontMetrics, logg *logger.Logger) (Service, error) {
	if snapshots == nil {
		return nil, fmt.Errorf("snapshot repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if !policy.IsValid() {
		return nil, fmt.Errorf("invalid over-max policy %q", policy)
	}
	return &service{
		snapshots: snapshots,
		products:  products,
		policy:    policy,
		locks:     newSessionLocks(),
		metrics:   m,
		logg:      logg,
	}, nil
}

func (s *service) GetCart(ctx context.Context, sessionID string) (*View, error) {
	var view *View
	err := s.withSession(ctx, sessionID, func(ctx context.Context, snap Snapshot, store *Store) (Snapshot, bool, error) {
		view = newView(snap)
		return snap, false, nil
	})
	return view, err
}

func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*AddItemResult, error) {
	productID := strings.TrimSpace(input.ProductID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	result := &AddItemResult{}
	err = s.withSession(ctx, sessionID, func(ctx context.Context, snap Snapshot, store *Store) (Snapshot, bool, error) {
		added, err := store.Add(*p, input.Quantity, input.Selection)
		if err != nil {
			s.metrics.IncCartMutation("add", "invalid")
			return snap, false, err
		}
		s.metrics.IncCartMutation("add", string(added.Outcome))
		result.AddResult = added

		switch added.Outcome {
		case OutcomeRejectedOverMax, OutcomeClampedToMax:
			logCtx := s.logg.WithFields(s.logg.WithProductID(ctx, p.ID), map[string]any{
				"requested":          input.Quantity,
				"max_order_quantity": p.MaxOrderQuantity,
				"outcome":            string(added.Outcome),
			})
			s.logg.Warn(logCtx, "cart add exceeded max order quantity")
		}
		if added.Outcome == OutcomeRejectedOverMax {
			result.Cart = newView(snap)
			return snap, false, nil
		}

		next := withCart(snap, store)
		result.Cart = newView(next)
		return next, true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) UpdateItem(ctx context.Context, sessionID, productID string, quantity int) (*View, error) {
	return s.mutateCart(ctx, sessionID, "update", func(store *Store) error {
		return store.Update(productID, quantity)
	})
}

func (s *service) RemoveItem(ctx context.Context, sessionID, productID string) (*View, error) {
	return s.mutateCart(ctx, sessionID, "remove", func(store *Store) error {
		store.Remove(productID)
		return nil
	})
}

func (s *service) ClearCart(ctx context.Context, sessionID string) (*View, error) {
	return s.mutateCart(ctx, sessionID, "clear", func(store *Store) error {
		store.Clear()
		return nil
	})
}

func (s *service) UpdatePreferences(ctx context.Context, sessionID string, input PreferencesInput) (*View, error) {
	if input.Theme != nil && !input.Theme.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unsupported theme %q", *input.Theme)
	}
	if input.Language != nil && !input.Language.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unsupported language %q", *input.Language)
	}
	var view *View
	err := s.withSession(ctx, sessionID, func(ctx context.Context, snap Snapshot, store *Store) (Snapshot, bool, error) {
		if input.Theme != nil {
			snap.Theme = *input.Theme
		}
		if input.Language != nil {
			snap.Language = *input.Language
		}
		view = newView(snap)
		return snap, true, nil
	})
	return view, err
}

func (s *service) SignIn(ctx context.Context, sessionID string, input SignInInput) (*View, error) {
	if strings.TrimSpace(input.User.ID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if strings.TrimSpace(input.Token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "token is required")
	}
	var view *View
	err := s.withSession(ctx, sessionID, func(ctx context.Context, snap Snapshot, store *Store) (Snapshot, bool, error) {
		user := input.User
		snap.User = &user
		snap.Token = input.Token
		snap.IsAuthenticated = true
		view = newView(snap)
		s.logg.Info(s.logg.WithField(ctx, "user_id", user.ID), "session signed in")
		return snap, true, nil
	})
	return view, err
}

// SignOut drops the identity and empties the cart.
func (s *service) SignOut(ctx context.Context, sessionID string) (*View, error) {
	var view *View
	err := s.withSession(ctx, sessionID, func(ctx context.Context, snap Snapshot, store *Store) (Snapshot, bool, error) {
		store.Clear()
		next := withCart(snap, store)
		next.User = nil
		next.Token = ""
		next.IsAuthenticated = false
		view = newView(next)
		s.metrics.IncCartMutation("clear", "sign_out")
		return next, true, nil
	})
	return view, err
}

func (s *service) mutateCart(ctx context.Context, sessionID, operation string, fn func(*Store) error) (*View, error) {
	var view *View
	err := s.withSession(ctx, sessionID, func(ctx context.Context, snap Snapshot, store *Store) (Snapshot, bool, error) {
		if err := fn(store); err != nil {
			s.metrics.IncCartMutation(operation, "invalid")
			return snap, false, err
		}
		s.metrics.IncCartMutation(operation, "ok")
		next := withCart(snap, store)
		view = newView(next)
		return next, true, nil
	})
	return view, err
}

type sessionFn func(ctx context.Context, snap Snapshot, store *Store) (Snapshot, bool, error)

// withSession runs fn under the session lock with the stored snapshot loaded
// into a fresh Store, then saves the returned snapshot when fn asks for it.
func (s *service) withSession(ctx context.Context, sessionID string, fn sessionFn) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "session id is required")
	}
	ctx = s.logg.WithSessionID(ctx, sessionID)

	unlock := s.locks.lock(sessionID)
	defer unlock()

	snap, err := s.loadSnapshot(ctx, sessionID)
	if err != nil {
		return err
	}
	store := NewStore(s.policy)
	if err := store.Load(snap); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	snap = withCart(snap, store)

	next, save, err := fn(ctx, snap, store)
	if err != nil {
		return err
	}
	if !save {
		return nil
	}
	if err := s.snapshots.Save(ctx, sessionID, next); err != nil {
		s.logg.Error(ctx, "failed to save session snapshot", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save session")
	}
	return nil
}

func (s *service) loadSnapshot(ctx context.Context, sessionID string) (Snapshot, error) {
	snap, found, err := s.snapshots.Load(ctx, sessionID)
	if err != nil {
		s.logg.Error(ctx, "failed to load session snapshot", err)
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	if !found {
		return NewSnapshot(), nil
	}
	if snap.Version != SnapshotVersion {
		s.logg.Warn(s.logg.WithField(ctx, "snapshot_version", snap.Version), "discarding session snapshot with unsupported version")
		return NewSnapshot(), nil
	}
	if !snap.Theme.IsValid() {
		snap.Theme = enums.ThemeLight
	}
	if !snap.Language.IsValid() {
		snap.Language = enums.LanguageEnglish
	}
	return snap, nil
}

func newView(snap Snapshot) *View {
	items := snap.Cart
	if items == nil {
		items = []LineItem{}
	}
	return &View{
		Items:           items,
		CartCount:       snap.CartCount,
		CartTotal:       snap.CartTotal,
		IsAuthenticated: snap.IsAuthenticated,
		User:            snap.User,
		Theme:           snap.Theme,
		Language:        snap.Language,
	}
}
