// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package websocket

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/forkline/internal/backend"
	"github.com/tomtom215/forkline/internal/logging"
	"github.com/tomtom215/forkline/internal/metrics"
	"github.com/tomtom215/forkline/internal/models"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline may indicate a hung operation during shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication
const (
	MessageTypeOrderStatus = "order_status"
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
)

// DefaultPollInterval is how often each watched user's orders are listed.
const DefaultPollInterval = 15 * time.Second

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// OrderStatusData is the payload of an order_status message.
type OrderStatusData struct {
	ID     string             `json:"id"`
	Status models.OrderStatus `json:"status"`
}

// OrderLister lists the orders visible to the cookies in ctx, normally
// *backend.OrdersService.
type OrderLister interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
}

// watch is the polling state of one user.
type watch struct {
	cookies  string
	statuses map[string]models.OrderStatus
	primed   bool
}

// Hub tracks connected clients and polls order status on their behalf.
type Hub struct {
	orders   OrderLister
	interval time.Duration

	clients map[*Client]bool
	watches map[string]*watch
	mu      sync.RWMutex

	Register   chan *Client
	Unregister chan *Client

	// done is closed when the run loop returns; nothing receives on
	// Register or Unregister after that.
	done   chan struct{}
	doneMu sync.Mutex

	polling atomic.Bool
}

// NewHub creates a hub polling orders every interval; zero means
// DefaultPollInterval.
func NewHub(orders OrderLister, interval time.Duration) *Hub {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Hub{
		orders:     orders,
		interval:   interval,
		clients:    make(map[*Client]bool),
		watches:    make(map[string]*watch),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Done returns a channel closed once the current run loop has stopped.
func (h *Hub) Done() <-chan struct{} {
	h.doneMu.Lock()
	defer h.doneMu.Unlock()
	return h.done
}

// running marks the start of a run loop. A restarted hub gets a fresh done
// channel.
func (h *Hub) running() chan struct{} {
	h.doneMu.Lock()
	defer h.doneMu.Unlock()
	select {
	case <-h.done:
		h.done = make(chan struct{})
	default:
	}
	return h.done
}

// RunWithContext processes registrations and polls until ctx is canceled,
// then closes every client and returns ctx.Err().
//
// Cancellation is checked first, then lifecycle events, then the poll tick,
// so client state is settled before a poll reads it.
func (h *Hub) RunWithContext(ctx context.Context) error {
	done := h.running()
	defer close(done)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.register(client)
			continue
		case client := <-h.Unregister:
			h.unregister(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.register(client)
		case client := <-h.Unregister:
			h.unregister(client)
		case <-ticker.C:
			// Polls hit the network; run them off the loop and never overlap.
			if h.polling.CompareAndSwap(false, true) {
				go func() {
					defer h.polling.Store(false)
					h.Poll(ctx)
				}()
			}
		}
	}
}

// Serve implements suture.Service.
func (h *Hub) Serve(ctx context.Context) error {
	return h.RunWithContext(ctx)
}

// String names the hub in supervisor logs.
func (h *Hub) String() string {
	return "order-status-hub"
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	w, ok := h.watches[client.userID]
	if !ok {
		w = &watch{statuses: make(map[string]models.OrderStatus)}
		h.watches[client.userID] = w
	}
	// The newest connection carries the freshest session cookie.
	w.cookies = client.cookies
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		if !h.hasUserLocked(client.userID) {
			delete(h.watches, client.userID)
		}
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("websocket client disconnected")
}

func (h *Hub) hasUserLocked(userID string) bool {
	for c := range h.clients {
		if c.userID == userID {
			return true
		}
	}
	return false
}

// reply queues msg for one client if it is still registered.
func (h *Hub) reply(client *Client, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[client] {
		return
	}
	select {
	case client.send <- msg:
	default:
	}
}

// Poll lists the orders of every watched user once and pushes status
// changes. It returns the number of messages queued.
func (h *Hub) Poll(ctx context.Context) int {
	h.mu.RLock()
	users := make([]string, 0, len(h.watches))
	cookies := make(map[string]string, len(h.watches))
	for id, w := range h.watches {
		users = append(users, id)
		cookies[id] = w.cookies
	}
	h.mu.RUnlock()
	sort.Strings(users)

	sent := 0
	for _, userID := range users {
		if ctx.Err() != nil {
			break
		}
		orders, err := h.orders.ListOrders(backend.WithCookies(ctx, cookies[userID]))
		if err != nil {
			metrics.WSErrors.WithLabelValues("poll").Inc()
			logging.Debug().Err(err).Msg("order status poll failed")
			continue
		}
		sent += h.apply(userID, orders)
	}
	return sent
}

// apply records the latest statuses for userID and queues a message for
// every change to each of the user's clients.
func (h *Hub) apply(userID string, orders []models.Order) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	w, ok := h.watches[userID]
	if !ok {
		return 0
	}

	var changes []OrderStatusData
	next := make(map[string]models.OrderStatus, len(orders))
	for _, o := range orders {
		next[o.ID] = o.Status
		prev, seen := w.statuses[o.ID]
		if w.primed && (!seen || prev != o.Status) {
			changes = append(changes, OrderStatusData{ID: o.ID, Status: o.Status})
		}
	}
	w.statuses = next
	w.primed = true

	if len(changes) == 0 {
		return 0
	}

	clients := h.sortedClientsLocked(userID)
	var toRemove []*Client
	sent := 0
	for _, client := range clients {
		n, ok := deliver(client, changes)
		sent += n
		if !ok {
			toRemove = append(toRemove, client)
		}
	}

	// A client that cannot keep up is dropped; its pumps exit on the close.
	for _, client := range toRemove {
		metrics.WSErrors.WithLabelValues("slow_client").Inc()
		close(client.send)
		delete(h.clients, client)
	}
	if len(toRemove) > 0 && !h.hasUserLocked(userID) {
		delete(h.watches, userID)
	}
	return sent
}

// deliver queues changes without blocking. It stops at the first full send
// buffer and reports false.
func deliver(client *Client, changes []OrderStatusData) (int, bool) {
	for i, change := range changes {
		select {
		case client.send <- Message{Type: MessageTypeOrderStatus, Data: change}:
		default:
			return i, false
		}
	}
	return len(changes), true
}

func (h *Hub) sortedClientsLocked(userID string) []*Client {
	var clients []*Client
	for client := range h.clients {
		if client.userID == userID {
			clients = append(clients, client)
		}
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// logGracefulShutdown closes every client and logs the shutdown. The context
// error is expected here and is not logged as an error.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	clear(h.watches)
	metrics.WSConnections.Set(0)
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// WatchCount returns the number of users being polled.
func (h *Hub) WatchCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watches)
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
