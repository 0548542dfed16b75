package cart

import (
	"errors"

	"github.com/Saymandev/samucha-storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// SnapshotVersion is the layout version written by this build.
const SnapshotVersion = 1

// ErrSnapshotVersion is returned by Load for a snapshot written with another layout.
var ErrSnapshotVersion = errors.New("unsupported snapshot version")

// User is the signed-in identity carried in a session snapshot.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Snapshot is the flat per-session record persisted after every mutation.
// Writes always replace the whole record.
type Snapshot struct {
	Version         int             `json:"version"`
	Cart            []LineItem      `json:"cart"`
	CartCount       int             `json:"cartCount"`
	CartTotal       decimal.Decimal `json:"cartTotal"`
	User            *User           `json:"user,omitempty"`
	Token           string          `json:"token,omitempty"`
	IsAuthenticated bool            `json:"isAuthenticated"`
	Theme           enums.Theme     `json:"theme"`
	Language        enums.Language  `json:"language"`
}

// NewSnapshot returns an empty snapshot with default preferences.
func NewSnapshot() Snapshot {
	return Snapshot{
		Version:   SnapshotVersion,
		Cart:      []LineItem{},
		CartTotal: decimal.Zero,
		Theme:     enums.ThemeLight,
		Language:  enums.LanguageEnglish,
	}
}

// Load replaces the store contents with the snapshot's line items. Stored
// subtotals and aggregates are recomputed rather than trusted, and items with
// a non-positive quantity are dropped.
func (s *Store) Load(snap Snapshot) error {
	if snap.Version != SnapshotVersion {
		return ErrSnapshotVersion
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]LineItem, 0, len(snap.Cart))
	seen := make(map[string]struct{}, len(snap.Cart))
	for _, item := range snap.Cart {
		if item.ProductID == "" || item.Quantity <= 0 {
			continue
		}
		if _, dup := seen[item.ProductID]; dup {
			continue
		}
		seen[item.ProductID] = struct{}{}
		item.setQuantity(item.Quantity)
		items = append(items, item)
	}
	s.items = items
	s.recompute()
	return nil
}

// Snapshot captures the cart portion of a session record.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := NewSnapshot()
	snap.Cart = make([]LineItem, len(s.items))
	copy(snap.Cart, s.items)
	snap.CartCount = s.count
	snap.CartTotal = s.total
	return snap
}

// withCart returns prev with its cart fields replaced by the store's contents.
func withCart(prev Snapshot, store *Store) Snapshot {
	next := store.Snapshot()
	next.User = prev.User
	next.Token = prev.Token
	next.IsAuthenticated = prev.IsAuthenticated
	next.Theme = prev.Theme
	next.Language = prev.Language
	return next
}
