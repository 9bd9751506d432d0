package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/avelinelabs/giftnest-backend/api/middleware"
	"github.com/avelinelabs/giftnest-backend/internal/cart"
	"github.com/avelinelabs/giftnest-backend/internal/checkout"
	"github.com/avelinelabs/giftnest-backend/internal/orders"
	"github.com/avelinelabs/giftnest-backend/internal/shopper"
	"github.com/avelinelabs/giftnest-backend/pkg/enums"
	"github.com/avelinelabs/giftnest-backend/pkg/snapshot"
	"github.com/avelinelabs/giftnest-backend/pkg/types"
)

type stubOrderCreator struct {
	calls   int
	orderID string
	err     error
}

func (s *stubOrderCreator) Create(context.Context, orders.CreateOrderRequest) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.orderID, nil
}

func newTestManager(t *testing.T, creator *stubOrderCreator) *shopper.Manager {
	t.Helper()
	mgr, err := shopper.NewManager(shopper.ManagerParams{
		Snapshots: snapshot.NewMemory(),
		Orders:    creator,
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
	return mgr
}

// doRequest serves the request through a route pattern so chi URL params
// resolve, with the session identifier already in context.
func doRequest(t *testing.T, method, pattern, target string, body any, handler http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req = req.WithContext(middleware.WithSessionID(req.Context(), "sess-test"))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	router := chi.NewRouter()
	router.Method(method, pattern, handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	raw, err := json.Marshal(envelope.Data)
	if err != nil {
		t.Fatalf("re-marshal data: %v", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) types.ErrorEnvelope {
	t.Helper()
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope
}
