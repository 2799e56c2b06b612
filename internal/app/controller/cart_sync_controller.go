package controller

import (
	"net/http"

	apperrors "github.com/fruitfulhq/storefront-backend/internal/errors"
	"github.com/fruitfulhq/storefront-backend/internal/middleware"
	ws "github.com/fruitfulhq/storefront-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type CartSyncController struct {
	hub            *ws.Hub
	allowedOrigins map[string]bool
}

func NewCartSyncController(hub *ws.Hub, allowedOrigins []string) *CartSyncController {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins[origin] = true
	}
	return &CartSyncController{
		hub:            hub,
		allowedOrigins: origins,
	}
}

func (ctrl *CartSyncController) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return ctrl.allowedOrigins[r.Header.Get("Origin")]
		},
	}
}

// Subscribe upgrades the connection and streams cart updates for the
// caller's cart key. Every open tab holds one of these connections, so
// a mutation in any tab reaches all of them.
// GET /api/v1/cart/sync
func (ctrl *CartSyncController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	identity, ok := identityFrom(c)
	if !ok {
		apperrors.BadRequest(c, apperrors.CartSessionMissing, "No cart session found")
		return
	}
	cartKey := identity.Key()

	upgrader := ctrl.upgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := &ws.Client{
		Hub:     ctrl.hub,
		Conn:    &ws.Conn{Conn: conn},
		CartKey: cartKey,
		Send:    make(chan []byte, 256),
	}

	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("Cart sync connection established", map[string]interface{}{
		"cart_key": cartKey,
	})
}
