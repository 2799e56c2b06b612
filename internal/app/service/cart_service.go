package service

import (
	"fmt"

	"github.com/fruitfulhq/storefront-backend/internal/app/repository"
	"github.com/fruitfulhq/storefront-backend/pkg/commerce"
)

// CartIdentity says whose cart a request operates on. A non-empty Token
// means an authenticated shopper whose cart lives on the commerce backend;
// otherwise SessionID names an anonymous Redis-backed cart.
type CartIdentity struct {
	UserID    uint
	Token     string
	SessionID string
}

// Authenticated reports whether the identity carries a backend token.
func (i CartIdentity) Authenticated() bool {
	return i.Token != ""
}

// Key is the broadcast/lock key for this identity's cart.
func (i CartIdentity) Key() string {
	if i.Authenticated() {
		return fmt.Sprintf("user:%d", i.UserID)
	}
	return "guest:" + i.SessionID
}

// CartService hands out the right CartStore for a request's identity.
// Mode selection happens here, once, at construction time - the stores
// themselves never branch on authentication state.
type CartService interface {
	StoreFor(identity CartIdentity) CartStore
}

type cartService struct {
	guestRepo   repository.GuestCartRepository
	catalog     ProductCatalog
	client      *commerce.Client
	broadcaster CartBroadcaster
	locks       *keyedLocks
}

func NewCartService(
	guestRepo repository.GuestCartRepository,
	catalog ProductCatalog,
	client *commerce.Client,
	broadcaster CartBroadcaster,
) CartService {
	return &cartService{
		guestRepo:   guestRepo,
		catalog:     catalog,
		client:      client,
		broadcaster: broadcaster,
		locks:       newKeyedLocks(),
	}
}

func (s *cartService) StoreFor(identity CartIdentity) CartStore {
	var store CartStore
	if identity.Authenticated() {
		store = newRemoteCartStore(s.client, identity.Token, identity.UserID, s.broadcaster)
	} else {
		store = newGuestCartStore(identity.SessionID, s.guestRepo, s.catalog, s.broadcaster)
	}

	return &lockedCartStore{
		inner: store,
		mu:    s.locks.get(identity.Key()),
	}
}
