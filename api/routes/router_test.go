package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/avelinelabs/giftnest-backend/internal/cart"
	"github.com/avelinelabs/giftnest-backend/internal/checkout"
	"github.com/avelinelabs/giftnest-backend/internal/orders"
	"github.com/avelinelabs/giftnest-backend/internal/shopper"
	"github.com/avelinelabs/giftnest-backend/pkg/config"
	"github.com/avelinelabs/giftnest-backend/pkg/enums"
	"github.com/avelinelabs/giftnest-backend/pkg/snapshot"
)

type stubOrderCreator struct{}

func (stubOrderCreator) Create(context.Context, orders.CreateOrderRequest) (string, error) {
	return "ord_router", nil
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Env = "test"

	snapshots := snapshot.NewMemory()
	mgr, err := shopper.NewManager(shopper.ManagerParams{
		Snapshots: snapshots,
		Orders:    stubOrderCreator{},
		Pricing: cart.Pricing{
			TaxRate:         decimal.RequireFromString("0.08"),
			ShippingFlatFee: decimal.RequireFromString("4.99"),
		},
		Checkout:     checkout.Config{EstimatedDeliveryDays: 5, DefaultDeliveryPriority: enums.DeliveryPriorityStandard},
		KeyNamespace: "gn",
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	return NewRouter(cfg, nil, snapshots, mgr, prometheus.NewRegistry())
}

func TestRouterHealthAndPing(t *testing.T) {
	handler := newTestHandler(t)

	for _, path := range []string{"/health/live", "/health/ready", "/api/public/ping"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s = %d", path, w.Code)
		}
	}
}

func TestRouterMetricsExposed(t *testing.T) {
	handler := newTestHandler(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d", w.Code)
	}
}

func TestRouterCartFlowWithSessionHeader(t *testing.T) {
	handler := newTestHandler(t)

	body := strings.NewReader(`{"id":"sku-1","name":"Mug","price":"20.00","quantity":1}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-Id", "sess-router")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/v1/cart/items = %d body=%s", w.Code, w.Body.String())
	}

	// The same session sees the item; a different session does not.
	readCart := func(session string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set("X-Session-Id", session)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("GET /api/v1/cart = %d", w.Code)
		}
		var envelope struct {
			Data struct {
				ItemCount int `json:"itemCount"`
			} `json:"data"`
		}
		if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
			t.Fatalf("decode cart: %v", err)
		}
		return envelope.Data.ItemCount
	}

	if got := readCart("sess-router"); got != 1 {
		t.Fatalf("itemCount = %d, want 1", got)
	}
	if got := readCart("sess-other"); got != 0 {
		t.Fatalf("itemCount for other session = %d, want 0", got)
	}
}

func TestRouterMintsSessionWhenAbsent(t *testing.T) {
	handler := newTestHandler(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/v1/cart = %d", w.Code)
	}
	if w.Header().Get("X-Session-Id") == "" {
		t.Fatal("expected a minted session id header")
	}
}
