package websocket

import (
	"encoding/json"
	"sync"

	"github.com/fruitfulhq/storefront-backend/internal/app/model"
	"github.com/fruitfulhq/storefront-backend/pkg/logger"
)

// CartEvent is the frame pushed to every view watching a cart. Views
// replace their local line list wholesale with what arrives here.
type CartEvent struct {
	Type  string           `json:"type"` // always "cart_updated"
	Lines []model.CartLine `json:"lines"`
	Total float64          `json:"total"`
}

// Client is one mounted view's WebSocket session. A shopper with the
// storefront open in several tabs holds several clients under the same
// cart key, and all of them receive every update.
type Client struct {
	Hub     *Hub
	Conn    *Conn
	CartKey string
	Send    chan []byte
}

// Hub fans cart updates out to every session watching a cart key. It is
// the production CartBroadcaster: cart stores publish here after each
// mutation.
type Hub struct {
	// Sessions per cart key - multiple tabs per shopper
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *cartBroadcast

	mu sync.RWMutex
}

type cartBroadcast struct {
	cartKey string
	payload []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *cartBroadcast, 1024),
	}
}

// Run processes registrations and broadcasts. Call it once, in its own
// goroutine, at startup.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.CartKey] = append(h.clients[client.CartKey], client)
			sessions := len(h.clients[client.CartKey])
			h.mu.Unlock()
			logger.Info("Cart sync client registered", map[string]interface{}{
				"cart_key":       client.CartKey,
				"total_sessions": sessions,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			// A client can be unregistered twice: once by a full-buffer
			// drop during broadcast and again by its read pump's defer.
			// Only the delivery that actually removes it from the list
			// may close Send.
			found := false
			if clientList, ok := h.clients[client.CartKey]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c == client {
						found = true
						continue
					}
					newList = append(newList, c)
				}

				if found {
					if len(newList) == 0 {
						delete(h.clients, client.CartKey)
					} else {
						h.clients[client.CartKey] = newList
					}

					close(client.Send)
				}
			}
			h.mu.Unlock()
			if found {
				logger.Info("Cart sync client unregistered", map[string]interface{}{
					"cart_key": client.CartKey,
				})
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients[message.cartKey] {
				select {
				case client.Send <- message.payload:
				default:
					// Send buffer full - drop the session rather than block
					go h.Unregister(client)
					logger.Warn("Cart sync client send buffer full, disconnecting", map[string]interface{}{
						"cart_key": message.cartKey,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// PublishCart pushes the full line list to every session watching the
// cart key. Satisfies the cart stores' broadcaster dependency.
func (h *Hub) PublishCart(cartKey string, lines []model.CartLine) {
	if lines == nil {
		lines = []model.CartLine{}
	}

	data, err := json.Marshal(CartEvent{
		Type:  "cart_updated",
		Lines: lines,
		Total: model.CartTotal(lines),
	})
	if err != nil {
		logger.Error("Failed to marshal cart event", err, map[string]interface{}{
			"cart_key": cartKey,
		})
		return
	}

	select {
	case h.broadcast <- &cartBroadcast{cartKey: cartKey, payload: data}:
	default:
		// A dropped frame is recoverable: the next mutation or page load
		// re-syncs the view
		logger.Warn("Cart broadcast channel full, frame dropped", map[string]interface{}{
			"cart_key": cartKey,
		})
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// WatcherCount reports how many sessions are watching a cart key
func (h *Hub) WatcherCount(cartKey string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[cartKey])
}
