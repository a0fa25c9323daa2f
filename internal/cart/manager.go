// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

// Package cart mirrors each session's backend cart so pages can render it
// without a round trip, and applies cart edits optimistically.
//
// Every mutation snapshots the mirror, applies its expected effect, calls the
// backend, restores the snapshot if the call fails, and finally refetches so
// the mirror converges on the backend's answer. Mutations for one session
// run one at a time. Each mirror carries a generation counter; a refetch that
// began before a later change is discarded rather than applied.
package cart

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/forkline/internal/backend"
	"github.com/tomtom215/forkline/internal/logging"
	"github.com/tomtom215/forkline/internal/metrics"
	"github.com/tomtom215/forkline/internal/models"
)

// Default failure messages, used when the backend gives none.
const (
	MsgAddFailed        = "Failed to add to cart"
	MsgUpdateFailed     = "Failed to update cart"
	MsgRemoveItemFailed = "Failed to remove item"
	MsgRemoveCartFailed = "Failed to remove cart"
	MsgAddressRequired  = "Please enter a delivery address"
	MsgCheckoutFailed   = "Failed to place order"
)

// Result is the outcome of a cart mutation as shown to the user.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// API is the backend cart, normally *backend.CartService.
type API interface {
	GetCarts(ctx context.Context) ([]models.Cart, error)
	GetCount(ctx context.Context) (int, error)
	AddItem(ctx context.Context, mealID string, qty int) error
	UpdateItem(ctx context.Context, mealID string, qty int) error
	RemoveItem(ctx context.Context, itemID string) error
	RemoveCart(ctx context.Context, cartID string) error
}

// OrderPlacer creates orders at checkout, normally *backend.OrdersService.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, providerID, address string) (*models.Order, error)
}

// DefaultFreshness is how long a fetched mirror is served before a read
// refetches it.
const DefaultFreshness = 10 * time.Second

// mirror is the cart state of one session.
type mirror struct {
	mutate sync.Mutex // serializes mutations and refetches

	mu        sync.RWMutex
	state     State
	gen       uint64
	loaded    bool // last refetch succeeded
	fetchedAt time.Time
	lastUsed  time.Time
}

func (m *mirror) snapshot() (State, uint64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Clone(), m.gen
}

// set replaces the state and starts a new generation.
func (m *mirror) set(s State) {
	m.mu.Lock()
	m.state = s
	m.gen++
	m.mu.Unlock()
}

// setIfCurrent applies a refetch result only when nothing changed since the
// refetch began at gen. A failed refetch is applied but leaves the mirror
// unloaded so the next read tries again.
func (m *mirror) setIfCurrent(s State, gen uint64, ok bool, at time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		return false
	}
	m.state = s
	m.gen++
	m.loaded = ok
	m.fetchedAt = at
	return true
}

func (m *mirror) isLoaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}

// stale reports whether a read at now should refetch.
func (m *mirror) stale(now time.Time, freshFor time.Duration) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.loaded || now.Sub(m.fetchedAt) >= freshFor
}

// Manager holds one mirror per session key.
type Manager struct {
	api    API
	orders OrderPlacer
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*mirror
	idleTTL  time.Duration
	freshFor time.Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithFreshness sets how long State serves a mirror before refetching it.
func WithFreshness(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.freshFor = d
		}
	}
}

// NewManager creates a cart manager. Mirrors unused for idleTTL are dropped
// by Sweep; zero means one hour.
func NewManager(api API, orders OrderPlacer, idleTTL time.Duration, opts ...Option) *Manager {
	if idleTTL <= 0 {
		idleTTL = time.Hour
	}
	m := &Manager{
		api:      api,
		orders:   orders,
		now:      time.Now,
		sessions: make(map[string]*mirror),
		idleTTL:  idleTTL,
		freshFor: DefaultFreshness,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) mirror(key string) *mirror {
	m.mu.Lock()
	defer m.mu.Unlock()
	mr, ok := m.sessions[key]
	if !ok {
		mr = &mirror{state: Empty()}
		m.sessions[key] = mr
		metrics.CartSessions.Set(float64(len(m.sessions)))
	}
	mr.lastUsed = m.now()
	return mr
}

// State returns the mirrored cart for key. It refetches when the last
// fetch failed or is older than the freshness window, unless a mutation is
// in flight; that mutation reconciles on its own. An empty key is a
// signed-out visitor and always sees an empty cart.
func (m *Manager) State(ctx context.Context, key string) State {
	if key == "" {
		return Empty()
	}
	mr := m.mirror(key)
	if mr.stale(m.now(), m.freshFor) && mr.mutate.TryLock() {
		m.refetch(ctx, mr)
		mr.mutate.Unlock()
	}
	s, _ := mr.snapshot()
	return s
}

// Refresh refetches the cart for key and returns the result. It waits for
// any mutation in flight.
func (m *Manager) Refresh(ctx context.Context, key string) State {
	if key == "" {
		return Empty()
	}
	mr := m.mirror(key)
	mr.mutate.Lock()
	m.refetch(ctx, mr)
	mr.mutate.Unlock()
	s, _ := mr.snapshot()
	return s
}

// Forget drops the mirror for key, for example on sign-out.
func (m *Manager) Forget(key string) {
	m.mu.Lock()
	delete(m.sessions, key)
	metrics.CartSessions.Set(float64(len(m.sessions)))
	m.mu.Unlock()
}

// Sweep drops mirrors idle for longer than the idle TTL and returns how many
// were removed.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.idleTTL)
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for key, mr := range m.sessions {
		if mr.lastUsed.Before(cutoff) {
			delete(m.sessions, key)
			removed++
		}
	}
	metrics.CartSessions.Set(float64(len(m.sessions)))
	return removed
}

// Sessions returns the number of mirrors held.
func (m *Manager) Sessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// refetch loads carts and count from the backend. A failed carts fetch
// leaves no carts and a failed count fetch leaves zero. The result is
// dropped when the mirror changed while the fetch was in flight. Callers
// hold mr.mutate.
func (m *Manager) refetch(ctx context.Context, mr *mirror) {
	_, gen := mr.snapshot()

	next := Empty()
	failed := false

	carts, err := m.api.GetCarts(ctx)
	if err != nil {
		failed = true
		logging.Ctx(ctx).Debug().Err(err).Msg("Cart fetch failed")
	} else if carts != nil {
		next.Carts = carts
	}

	count, err := m.api.GetCount(ctx)
	if err != nil {
		failed = true
		logging.Ctx(ctx).Debug().Err(err).Msg("Cart count fetch failed")
	} else {
		next.Count = count
	}

	switch {
	case !mr.setIfCurrent(next, gen, !failed, m.now()):
		metrics.CartRefetches.WithLabelValues("stale").Inc()
	case failed:
		metrics.CartRefetches.WithLabelValues("failed").Inc()
	default:
		metrics.CartRefetches.WithLabelValues("applied").Inc()
	}
}

// mutate runs one optimistic mutation.
func (m *Manager) mutate(ctx context.Context, key, op, fallback string, apply func(State) State, call func(context.Context) error) Result {
	if key == "" {
		return Result{Success: false, Message: fallback}
	}
	mr := m.mirror(key)

	mr.mutate.Lock()
	defer mr.mutate.Unlock()

	prev, _ := mr.snapshot()
	mr.set(apply(prev))

	err := call(ctx)
	if err != nil {
		mr.set(prev)
		logging.Ctx(ctx).Warn().Err(err).Str("operation", op).Msg("Cart mutation rolled back")
	}
	metrics.RecordCartMutation(op, err == nil)

	// Reconcile on a context that outlives a canceled request so the mirror
	// is not left holding a speculative state.
	m.refetch(context.WithoutCancel(ctx), mr)

	if err != nil {
		return Result{Success: false, Message: backend.UserMessage(err, fallback)}
	}
	return Result{Success: true}
}

// Add adds qty of a meal to the session's cart.
func (m *Manager) Add(ctx context.Context, key, mealID string, qty int) Result {
	return m.mutate(ctx, key, "add", MsgAddFailed,
		func(s State) State { return applyAdd(s, mealID, qty) },
		func(ctx context.Context) error { return m.api.AddItem(ctx, mealID, qty) })
}

// Update sets a meal's quantity. Zero or less removes it.
func (m *Manager) Update(ctx context.Context, key, mealID string, qty int) Result {
	return m.mutate(ctx, key, "update", MsgUpdateFailed,
		func(s State) State { return applyUpdate(s, mealID, qty) },
		func(ctx context.Context) error { return m.api.UpdateItem(ctx, mealID, qty) })
}

// RemoveItem deletes one cart item.
func (m *Manager) RemoveItem(ctx context.Context, key, itemID string) Result {
	return m.mutate(ctx, key, "remove_item", MsgRemoveItemFailed,
		func(s State) State { return applyRemoveItem(s, itemID) },
		func(ctx context.Context) error { return m.api.RemoveItem(ctx, itemID) })
}

// RemoveCart deletes a whole cart.
func (m *Manager) RemoveCart(ctx context.Context, key, cartID string) Result {
	return m.mutate(ctx, key, "remove_cart", MsgRemoveCartFailed,
		func(s State) State { return applyRemoveCart(s, cartID) },
		func(ctx context.Context) error { return m.api.RemoveCart(ctx, cartID) })
}

// CheckoutResult lists the orders placed at checkout.
type CheckoutResult struct {
	Result
	Orders []*models.Order
}

// Checkout places one order per provider in the session's carts, delivering
// to address, then refetches the cart. It stops at the first failed order;
// orders already placed stay placed.
func (m *Manager) Checkout(ctx context.Context, key, address string) CheckoutResult {
	address = strings.TrimSpace(address)
	if address == "" {
		return CheckoutResult{Result: Result{Message: MsgAddressRequired}}
	}
	if key == "" {
		return CheckoutResult{Result: Result{Message: MsgCheckoutFailed}}
	}
	mr := m.mirror(key)

	mr.mutate.Lock()
	defer mr.mutate.Unlock()

	// Orders are placed from the backend's cart, not a possibly stale mirror.
	m.refetch(ctx, mr)
	if !mr.isLoaded() {
		return CheckoutResult{Result: Result{Message: MsgCheckoutFailed}}
	}
	state, _ := mr.snapshot()
	res := CheckoutResult{}
	for _, providerID := range providerIDs(state.Carts) {
		order, err := m.orders.CreateOrder(ctx, providerID, address)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("provider_id", providerID).Msg("Checkout order failed")
			res.Message = backend.UserMessage(err, MsgCheckoutFailed)
			m.refetch(context.WithoutCancel(ctx), mr)
			return res
		}
		res.Orders = append(res.Orders, order)
	}

	m.refetch(context.WithoutCancel(ctx), mr)
	res.Success = len(res.Orders) > 0
	if !res.Success {
		res.Message = "Your cart is empty"
	}
	return res
}

// providerIDs returns each distinct provider in cart order.
func providerIDs(carts []models.Cart) []string {
	seen := make(map[string]struct{}, len(carts))
	var out []string
	for _, c := range carts {
		id := c.ProviderID
		if id == "" {
			id = c.Provider.ID
		}
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// KeyFor returns the mirror key for a session: the backend session ID, or
// the user ID when the session carries none. Nil means signed out.
func KeyFor(sess *models.Session) string {
	switch {
	case sess == nil:
		return ""
	case sess.Session.ID != "":
		return "s:" + sess.Session.ID
	case sess.User.ID != "":
		return "u:" + sess.User.ID
	default:
		return ""
	}
}
