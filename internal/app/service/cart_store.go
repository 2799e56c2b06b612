package service

import (
	"context"
	"errors"
	"sync"

	"github.com/fruitfulhq/storefront-backend/internal/app/model"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
	ErrProductNotFound  = errors.New("product not found")
	ErrCartUnavailable  = errors.New("cart backend unavailable")
	ErrCartLineNotFound = errors.New("cart line not found")
)

// AddLineInput describes an add-to-cart request.
type AddLineInput struct {
	ProductID string
	Quantity  int
	Variant   *model.VariantSelection
}

// CartStore is one shopper's cart for the duration of a request. Two
// implementations exist: a guest store persisting to Redis and a remote
// store proxying the commerce backend. Which one a shopper gets is decided
// at construction time by CartService, never by branching inside the
// operations.
//
// Every mutation that completes broadcasts the resulting full line list
// before returning, so all mounted views converge on the same cart.
type CartStore interface {
	// Lines returns the current line list.
	Lines(ctx context.Context) ([]model.CartLine, error)
	// AddLine merges into an existing (product, variant) line or appends a
	// new one. Returns the resulting line list.
	AddLine(ctx context.Context, input AddLineInput) ([]model.CartLine, error)
	// RemoveLine deletes the line with the given id. Removing an unknown
	// id is a benign no-op.
	RemoveLine(ctx context.Context, lineID string) ([]model.CartLine, error)
	// SetQuantity overwrites a line's quantity. A quantity of zero or less
	// removes the line.
	SetQuantity(ctx context.Context, lineID string, quantity int) ([]model.CartLine, error)
	// Clear empties the cart.
	Clear(ctx context.Context) ([]model.CartLine, error)
	// Total sums quantity times effective unit price over all lines.
	Total(ctx context.Context) (float64, error)
}

// CartBroadcaster pushes a cart's full line list to every mounted view
// watching that cart key. The WebSocket hub implements it in production.
type CartBroadcaster interface {
	PublishCart(cartKey string, lines []model.CartLine)
}

// ProductCatalog supplies product snapshots for new guest cart lines.
type ProductCatalog interface {
	Snapshot(ctx context.Context, productID string) (*model.ProductSnapshot, error)
}

// sameSelection reports whether a line matches a product+variant pair.
// Lines are unique per (product, variant name); adding the same pair again
// merges quantities instead of duplicating the line.
func sameSelection(line model.CartLine, productID string, variant *model.VariantSelection) bool {
	if line.ProductID != productID {
		return false
	}
	variantName := ""
	if variant != nil {
		variantName = variant.Name
	}
	return line.VariantName() == variantName
}

// keyedLocks serializes mutations per cart key. Without it a rapid
// sequence of mutations races on the reload-after-mutation step and the
// last reload to finish silently wins.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedLocks) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	if l, ok := k.locks[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	k.locks[key] = l
	return l
}

// lockedCartStore wraps a CartStore so all operations on the same cart key
// run one at a time.
type lockedCartStore struct {
	inner CartStore
	mu    *sync.Mutex
}

func (s *lockedCartStore) Lines(ctx context.Context) ([]model.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Lines(ctx)
}

func (s *lockedCartStore) AddLine(ctx context.Context, input AddLineInput) ([]model.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.AddLine(ctx, input)
}

func (s *lockedCartStore) RemoveLine(ctx context.Context, lineID string) ([]model.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.RemoveLine(ctx, lineID)
}

func (s *lockedCartStore) SetQuantity(ctx context.Context, lineID string, quantity int) ([]model.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.SetQuantity(ctx, lineID, quantity)
}

func (s *lockedCartStore) Clear(ctx context.Context) ([]model.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Clear(ctx)
}

func (s *lockedCartStore) Total(ctx context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Total(ctx)
}
