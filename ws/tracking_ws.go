package ws

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/humamchoudhary/burgnice-backend/middlewares"
	"github.com/humamchoudhary/burgnice-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// TrackingHub pushes order status changes to browsers watching the
// tracking page. One "room" per order id.
type TrackingHub struct {
	clients    map[uint]map[*websocket.Conn]bool // orderID -> set of clients
	broadcast  chan StatusUpdate
	register   chan Subscription
	unregister chan Subscription
	mu         sync.Mutex
	orders     *services.OrderService
	logger     zerolog.Logger
}

type Subscription struct {
	Conn    *websocket.Conn
	OrderID uint
	UserID  uint
}

// StatusUpdate is the frame sent to every watcher of an order.
type StatusUpdate struct {
	OrderID    uint      `json:"orderId"`
	Status     string    `json:"status"`
	StatusText string    `json:"statusText"`
	At         time.Time `json:"at"`
}

func NewTrackingHub(orders *services.OrderService, logger zerolog.Logger) *TrackingHub {
	return &TrackingHub{
		clients:    make(map[uint]map[*websocket.Conn]bool),
		broadcast:  make(chan StatusUpdate, 16),
		register:   make(chan Subscription),
		unregister: make(chan Subscription),
		orders:     orders,
		logger:     logger.With().Str("component", "tracking_ws").Logger(),
	}
}

// OrderStatusChanged implements services.StatusNotifier. The send is
// non-blocking so a stalled hub never holds up an order transaction.
func (h *TrackingHub) OrderStatusChanged(orderID uint, status string) {
	update := StatusUpdate{
		OrderID:    orderID,
		Status:     status,
		StatusText: services.StatusText(status),
		At:         time.Now(),
	}
	select {
	case h.broadcast <- update:
	default:
		h.logger.Warn().Uint("order_id", orderID).Msg("tracking broadcast queue full, update dropped")
	}
}

func (h *TrackingHub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			if h.clients[sub.OrderID] == nil {
				h.clients[sub.OrderID] = make(map[*websocket.Conn]bool)
			}
			h.clients[sub.OrderID][sub.Conn] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[sub.OrderID][sub.Conn]; ok {
				delete(h.clients[sub.OrderID], sub.Conn)
				sub.Conn.Close()
			}
			if len(h.clients[sub.OrderID]) == 0 {
				delete(h.clients, sub.OrderID)
			}
			h.mu.Unlock()

		case update := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients[update.OrderID] {
				if err := conn.WriteJSON(update); err != nil {
					h.logger.Debug().Err(err).Msg("ws write failed, dropping client")
					conn.Close()
					delete(h.clients[update.OrderID], conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WS route: /ws/orders/:id/track
func (h *TrackingHub) HandleWebSocket(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order ID"})
		return
	}
	orderID := uint(id)

	userID := middlewares.CurrentUserID(c)
	admin := middlewares.IsAdmin(c)

	// same owner-or-admin check as the REST tracking endpoint
	if _, err := h.orders.Tracking(orderID, userID, admin); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to track this order"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Debug().Err(err).Msg("ws upgrade failed")
		return
	}

	sub := Subscription{Conn: conn, OrderID: orderID, UserID: userID}
	h.register <- sub

	go h.drain(sub)
}

// drain keeps the read side alive so we notice disconnects. Clients
// never send application frames on this socket.
func (h *TrackingHub) drain(sub Subscription) {
	defer func() { h.unregister <- sub }()
	for {
		if _, _, err := sub.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
