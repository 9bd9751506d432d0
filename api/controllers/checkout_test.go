package controllers

import (
	"net/http"
	"testing"

	pkgerrors "github.com/avelinelabs/giftnest-backend/pkg/errors"
)

func TestCheckoutPlaceOrderHappyPath(t *testing.T) {
	creator := &stubOrderCreator{orderID: "ord_42"}
	mgr := newTestManager(t, creator)

	w := doRequest(t, http.MethodPost, "/api/v1/cart/items", "/api/v1/cart/items", map[string]any{
		"id": "sku-1", "name": "Mug", "price": "20.00", "quantity": 2,
	}, CartAddItem(mgr, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("add status = %d", w.Code)
	}

	w = doRequest(t, http.MethodPatch, "/api/v1/checkout/shipping-address", "/api/v1/checkout/shipping-address", map[string]any{
		"fullName":       "Priya Raman",
		"email":          "priya@example.com",
		"phone":          "5550100",
		"whatsappNumber": "5550100",
		"address":        "12 Rose Lane",
		"city":           "Austin",
		"state":          "TX",
		"zipCode":        "78701",
		"country":        "US",
	}, CheckoutUpdateShippingAddress(mgr, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("address status = %d body=%s", w.Code, w.Body.String())
	}

	w = doRequest(t, http.MethodPost, "/api/v1/checkout/place-order", "/api/v1/checkout/place-order", nil, CheckoutPlaceOrder(mgr, nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("place-order status = %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		OrderID string `json:"orderId"`
	}
	decodeData(t, w, &resp)
	if resp.OrderID != "ord_42" {
		t.Fatalf("orderId = %q", resp.OrderID)
	}
	if creator.calls != 1 {
		t.Fatalf("collaborator calls = %d", creator.calls)
	}

	// The cart empties and the checkout view reflects completion.
	w = doRequest(t, http.MethodGet, "/api/v1/cart", "/api/v1/cart", nil, CartGet(mgr, nil))
	var cartView cartResponse
	decodeData(t, w, &cartView)
	if cartView.ItemCount != 0 {
		t.Fatalf("cart itemCount = %d after order", cartView.ItemCount)
	}

	w = doRequest(t, http.MethodGet, "/api/v1/checkout", "/api/v1/checkout", nil, CheckoutGet(mgr, nil))
	var view checkoutResponse
	decodeData(t, w, &view)
	if view.State != "completed" || view.OrderID != "ord_42" {
		t.Fatalf("unexpected checkout view: %+v", view)
	}
}

func TestCheckoutPlaceOrderValidationErrors(t *testing.T) {
	creator := &stubOrderCreator{orderID: "ord_1"}
	mgr := newTestManager(t, creator)

	w := doRequest(t, http.MethodPost, "/api/v1/cart/items", "/api/v1/cart/items", map[string]any{
		"id": "sku-1", "name": "Mug", "price": "20.00", "quantity": 1,
	}, CartAddItem(mgr, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("add status = %d", w.Code)
	}

	w = doRequest(t, http.MethodPost, "/api/v1/checkout/place-order", "/api/v1/checkout/place-order", nil, CheckoutPlaceOrder(mgr, nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	envelope := decodeError(t, w)
	if envelope.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("code = %s", envelope.Error.Code)
	}
	details, ok := envelope.Error.Details.(map[string]any)
	if !ok {
		t.Fatalf("details missing: %+v", envelope.Error)
	}
	if _, ok := details["fullName"]; !ok {
		t.Fatalf("expected fullName violation, got %v", details)
	}
	if creator.calls != 0 {
		t.Fatalf("collaborator calls = %d", creator.calls)
	}

	// The checkout view carries the same field errors.
	w = doRequest(t, http.MethodGet, "/api/v1/checkout", "/api/v1/checkout", nil, CheckoutGet(mgr, nil))
	var view checkoutResponse
	decodeData(t, w, &view)
	if view.State != "failed" {
		t.Fatalf("state = %s", view.State)
	}
	if _, ok := view.FieldErrors["email"]; !ok {
		t.Fatalf("expected email field error in view: %+v", view.FieldErrors)
	}
}

func TestCheckoutUpdatePaymentRejectsUnknownMethod(t *testing.T) {
	mgr := newTestManager(t, &stubOrderCreator{orderID: "ord_1"})

	w := doRequest(t, http.MethodPatch, "/api/v1/checkout/payment", "/api/v1/checkout/payment",
		map[string]any{"method": "gift_card"}, CheckoutUpdatePayment(mgr, nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCheckoutUpdatePaymentAcceptsSupportedMethod(t *testing.T) {
	mgr := newTestManager(t, &stubOrderCreator{orderID: "ord_1"})

	w := doRequest(t, http.MethodPatch, "/api/v1/checkout/payment", "/api/v1/checkout/payment",
		map[string]any{"method": "cash_on_delivery_with_advance", "cardHolder": "Priya"}, CheckoutUpdatePayment(mgr, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}

	var view checkoutResponse
	decodeData(t, w, &view)
	if view.Payment.Method != "cash_on_delivery_with_advance" {
		t.Fatalf("method = %s", view.Payment.Method)
	}
	if view.Payment.CardHolder != "Priya" {
		t.Fatalf("cardHolder = %s", view.Payment.CardHolder)
	}
}

func TestCheckoutPlaceOrderDependencyFailure(t *testing.T) {
	creator := &stubOrderCreator{err: pkgerrors.New(pkgerrors.CodeDependency, "order service returned HTTP 502")}
	mgr := newTestManager(t, creator)

	w := doRequest(t, http.MethodPost, "/api/v1/cart/items", "/api/v1/cart/items", map[string]any{
		"id": "sku-1", "name": "Mug", "price": "20.00", "quantity": 1,
	}, CartAddItem(mgr, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("add status = %d", w.Code)
	}

	w = doRequest(t, http.MethodPatch, "/api/v1/checkout/shipping-address", "/api/v1/checkout/shipping-address", map[string]any{
		"fullName": "Priya Raman", "email": "priya@example.com", "phone": "5550100", "whatsappNumber": "5550100",
		"address": "12 Rose Lane", "city": "Austin", "state": "TX", "zipCode": "78701", "country": "US",
	}, CheckoutUpdateShippingAddress(mgr, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("address status = %d", w.Code)
	}

	w = doRequest(t, http.MethodPost, "/api/v1/checkout/place-order", "/api/v1/checkout/place-order", nil, CheckoutPlaceOrder(mgr, nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}

	// Cart survives the failed submission.
	w = doRequest(t, http.MethodGet, "/api/v1/cart", "/api/v1/cart", nil, CartGet(mgr, nil))
	var cartView cartResponse
	decodeData(t, w, &cartView)
	if cartView.ItemCount != 1 {
		t.Fatalf("cart itemCount = %d, want 1", cartView.ItemCount)
	}
}

func TestCheckoutResetClearsForm(t *testing.T) {
	mgr := newTestManager(t, &stubOrderCreator{orderID: "ord_1"})

	w := doRequest(t, http.MethodPatch, "/api/v1/checkout/shipping-address", "/api/v1/checkout/shipping-address",
		map[string]any{"fullName": "Priya Raman"}, CheckoutUpdateShippingAddress(mgr, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("address status = %d", w.Code)
	}

	w = doRequest(t, http.MethodPost, "/api/v1/checkout/reset", "/api/v1/checkout/reset", nil, CheckoutReset(mgr, nil))
	var view checkoutResponse
	decodeData(t, w, &view)
	if view.ShippingAddress.FullName != "" {
		t.Fatalf("fullName = %q after reset", view.ShippingAddress.FullName)
	}
	if view.State != "editing" {
		t.Fatalf("state = %s", view.State)
	}
}
