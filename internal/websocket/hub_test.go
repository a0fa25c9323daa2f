// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package websocket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/forkline/internal/authz"
	"github.com/tomtom215/forkline/internal/backend"
	"github.com/tomtom215/forkline/internal/models"
)

// fakeOrders serves orders per cookie header.
type fakeOrders struct {
	mu       sync.Mutex
	byCookie map[string][]models.Order
	err      error
	cookies  []string
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{byCookie: make(map[string][]models.Order)}
}

func (f *fakeOrders) ListOrders(ctx context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := backend.CookiesFrom(ctx)
	f.cookies = append(f.cookies, c)
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Order(nil), f.byCookie[c]...), nil
}

func (f *fakeOrders) set(cookie string, orders ...models.Order) {
	f.mu.Lock()
	f.byCookie[cookie] = orders
	f.mu.Unlock()
}

func order(id string, status models.OrderStatus) models.Order {
	return models.Order{ID: id, Status: status}
}

func drain(c *Client) []OrderStatusData {
	var out []OrderStatusData
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return out
			}
			if d, ok := msg.Data.(OrderStatusData); ok {
				out = append(out, d)
			}
		default:
			return out
		}
	}
}

func TestHubPollPushesChanges(t *testing.T) {
	t.Parallel()

	orders := newFakeOrders()
	orders.set("sid=a", order("o1", models.OrderPending), order("o2", models.OrderDelivered))
	hub := NewHub(orders, time.Hour)

	c1 := NewClient(hub, nil, "user-a", "sid=a")
	c2 := NewClient(hub, nil, "user-a", "sid=a")
	hub.register(c1)
	hub.register(c2)

	if sent := hub.Poll(context.Background()); sent != 0 {
		t.Fatalf("first poll sent %d messages, want 0", sent)
	}

	orders.set("sid=a",
		order("o1", models.OrderPreparing),
		order("o2", models.OrderDelivered),
		order("o3", models.OrderPending),
	)
	if sent := hub.Poll(context.Background()); sent != 4 {
		t.Fatalf("second poll sent %d messages, want 4", sent)
	}

	for _, c := range []*Client{c1, c2} {
		got := drain(c)
		want := []OrderStatusData{{"o1", models.OrderPreparing}, {"o3", models.OrderPending}}
		if len(got) != len(want) {
			t.Fatalf("client %d got %v, want %v", c.ID(), got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("client %d message %d = %v, want %v", c.ID(), i, got[i], want[i])
			}
		}
	}

	if sent := hub.Poll(context.Background()); sent != 0 {
		t.Errorf("unchanged poll sent %d messages", sent)
	}
}

func TestHubPollsEachUserWithOwnCookie(t *testing.T) {
	t.Parallel()

	orders := newFakeOrders()
	hub := NewHub(orders, time.Hour)
	hub.register(NewClient(hub, nil, "user-a", "sid=a"))
	hub.register(NewClient(hub, nil, "user-b", "sid=b"))
	hub.register(NewClient(hub, nil, "user-b", "sid=b2"))

	hub.Poll(context.Background())

	orders.mu.Lock()
	defer orders.mu.Unlock()
	if len(orders.cookies) != 2 {
		t.Fatalf("polled %d times, want one per user", len(orders.cookies))
	}
	if orders.cookies[0] != "sid=a" || orders.cookies[1] != "sid=b2" {
		t.Errorf("cookies = %v, want newest cookie per user", orders.cookies)
	}
}

func TestHubPollErrorKeepsState(t *testing.T) {
	t.Parallel()

	orders := newFakeOrders()
	orders.set("sid=a", order("o1", models.OrderPending))
	hub := NewHub(orders, time.Hour)
	c := NewClient(hub, nil, "user-a", "sid=a")
	hub.register(c)
	hub.Poll(context.Background())

	orders.mu.Lock()
	orders.err = errors.New("backend down")
	orders.mu.Unlock()
	if sent := hub.Poll(context.Background()); sent != 0 {
		t.Fatalf("failed poll sent %d", sent)
	}

	orders.mu.Lock()
	orders.err = nil
	orders.mu.Unlock()
	orders.set("sid=a", order("o1", models.OrderOnTheWay))
	if sent := hub.Poll(context.Background()); sent != 1 {
		t.Errorf("poll after recovery sent %d, want 1", sent)
	}
}

func TestHubUnregisterDropsWatch(t *testing.T) {
	t.Parallel()

	hub := NewHub(newFakeOrders(), time.Hour)
	c1 := NewClient(hub, nil, "user-a", "sid=a")
	c2 := NewClient(hub, nil, "user-a", "sid=a")
	hub.register(c1)
	hub.register(c2)

	hub.unregister(c1)
	if hub.WatchCount() != 1 {
		t.Fatal("watch dropped while the user still has a client")
	}
	hub.unregister(c2)
	if hub.WatchCount() != 0 || hub.GetClientCount() != 0 {
		t.Errorf("watches=%d clients=%d after last disconnect", hub.WatchCount(), hub.GetClientCount())
	}
	if _, ok := <-c1.send; ok {
		t.Error("send channel should be closed")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	t.Parallel()

	orders := newFakeOrders()
	orders.set("sid=a", order("o1", models.OrderPending))
	hub := NewHub(orders, time.Hour)
	c := NewClient(hub, nil, "user-a", "sid=a")
	hub.register(c)
	hub.Poll(context.Background())

	for len(c.send) < cap(c.send) {
		c.send <- Message{Type: MessageTypePong}
	}
	orders.set("sid=a", order("o1", models.OrderPreparing))
	hub.Poll(context.Background())

	if hub.GetClientCount() != 0 || hub.WatchCount() != 0 {
		t.Errorf("slow client kept: clients=%d watches=%d", hub.GetClientCount(), hub.WatchCount())
	}
}

func TestHubRunWithContextShutdown(t *testing.T) {
	t.Parallel()

	hub := NewHub(newFakeOrders(), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()

	c := NewClient(hub, nil, "user-a", "sid=a")
	hub.Register <- c
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunWithContext() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}
	if hub.GetClientCount() != 0 {
		t.Error("clients left after shutdown")
	}
	if getShutdownReason(ctx) != ShutdownReasonContextCanceled {
		t.Error("unexpected shutdown reason")
	}
}

func TestClientLeaveAfterHubStops(t *testing.T) {
	t.Parallel()

	hub := NewHub(newFakeOrders(), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- hub.RunWithContext(ctx) }()

	c := NewClient(hub, nil, "user-a", "sid=a")
	hub.Register <- c
	cancel()
	<-stopped

	left := make(chan struct{})
	go func() {
		c.leave()
		close(left)
	}()
	select {
	case <-left:
	case <-time.After(2 * time.Second):
		t.Fatal("leave blocked on a stopped hub")
	}

	// A restarted hub accepts unregistrations again.
	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()
	go func() { _ = hub.RunWithContext(ctx2) }()

	c2 := NewClient(hub, nil, "user-b", "sid=b")
	hub.Register <- c2
	select {
	case <-hub.Done():
		t.Fatal("restarted hub reports done")
	default:
	}
	c2.leave()
	deadline := time.Now().Add(2 * time.Second)
	for hub.GetClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("clients = %d after leave, want 0", hub.GetClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCheckOrigin(t *testing.T) {
	t.Parallel()

	check := checkOrigin([]string{"https://shop.example.com"})
	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"no origin", "", true},
		{"same host", "http://forkline.test", true},
		{"allowed", "https://shop.example.com", true},
		{"foreign", "https://evil.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "http://forkline.test/ws/orders", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := check(r); got != tt.want {
				t.Errorf("checkOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}

func TestHandlerRequiresSession(t *testing.T) {
	t.Parallel()

	h := NewHandler(NewHub(newFakeOrders(), time.Hour), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/orders", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestHandlerEndToEnd(t *testing.T) {
	t.Parallel()

	orders := newFakeOrders()
	orders.set("sid=a", order("o1", models.OrderPending))
	hub := NewHub(orders, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = hub.RunWithContext(ctx) }()

	sess := &models.Session{User: models.AuthUser{ID: "user-a"}}
	h := NewHandler(hub, nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r.WithContext(authz.WithSession(r.Context(), sess)))
	}))
	t.Cleanup(srv.Close)

	header := http.Header{}
	header.Set("Cookie", "sid=a")
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(Message{Type: MessageTypePing}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var pong Message
	if err := conn.ReadJSON(&pong); err != nil || pong.Type != MessageTypePong {
		t.Fatalf("pong = %+v, err = %v", pong, err)
	}

	// Let the first poll prime the watch, then change the status.
	deadline := time.Now().Add(2 * time.Second)
	for {
		hub.mu.RLock()
		w := hub.watches["user-a"]
		primed := w != nil && w.primed
		hub.mu.RUnlock()
		if primed || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	orders.set("sid=a", order("o1", models.OrderOnTheWay))

	var msg struct {
		Type string          `json:"type"`
		Data OrderStatusData `json:"data"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != MessageTypeOrderStatus || msg.Data.ID != "o1" || msg.Data.Status != models.OrderOnTheWay {
		t.Errorf("message = %+v", msg)
	}
}
