package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/avelinelabs/giftnest-backend/api/responses"
	"github.com/avelinelabs/giftnest-backend/api/validators"
	"github.com/avelinelabs/giftnest-backend/internal/cart"
	"github.com/avelinelabs/giftnest-backend/internal/shopper"
	pkgerrors "github.com/avelinelabs/giftnest-backend/pkg/errors"
	"github.com/avelinelabs/giftnest-backend/pkg/logger"
)

// CartGet returns the session's cart with recomputed totals.
func CartGet(mgr *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := resolveShopper(mgr, logg, w, r)
		if !ok {
			return
		}
		items, totals := s.Cart.Snapshot()
		responses.WriteSuccess(w, newCartResponse(items, totals))
	}
}

// CartAddItem merges an item into the cart; repeated adds of the same
// product accumulate quantity at the originally captured price.
func CartAddItem(mgr *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := resolveShopper(mgr, logg, w, r)
		if !ok {
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := payload.toLineItem()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		s.Cart.AddItem(r.Context(), item)
		items, totals := s.Cart.Snapshot()
		responses.WriteSuccess(w, newCartResponse(items, totals))
	}
}

// CartUpdateQuantity sets the absolute quantity for one line; zero or
// negative removes the line.
func CartUpdateQuantity(mgr *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := resolveShopper(mgr, logg, w, r)
		if !ok {
			return
		}

		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id required"))
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		s.Cart.UpdateQuantity(r.Context(), productID, *payload.Quantity)
		items, totals := s.Cart.Snapshot()
		responses.WriteSuccess(w, newCartResponse(items, totals))
	}
}

// CartRemoveItem removes one line from the cart.
func CartRemoveItem(mgr *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := resolveShopper(mgr, logg, w, r)
		if !ok {
			return
		}

		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id required"))
			return
		}

		s.Cart.RemoveItem(r.Context(), productID)
		items, totals := s.Cart.Snapshot()
		responses.WriteSuccess(w, newCartResponse(items, totals))
	}
}

// CartClear empties the cart.
func CartClear(mgr *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := resolveShopper(mgr, logg, w, r)
		if !ok {
			return
		}

		s.Cart.Clear(r.Context())
		items, totals := s.Cart.Snapshot()
		responses.WriteSuccess(w, newCartResponse(items, totals))
	}
}

type addCartItemRequest struct {
	ID        string           `json:"id" validate:"required"`
	Name      string           `json:"name" validate:"required"`
	Image     string           `json:"image"`
	Price     decimal.Decimal  `json:"price"`
	SalePrice *decimal.Decimal `json:"salePrice"`
	Quantity  int              `json:"quantity" validate:"min=0"`
	Options   any              `json:"options"`
}

func (p addCartItemRequest) toLineItem() (cart.LineItem, error) {
	if p.Price.Sign() < 0 {
		return cart.LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative").
			WithDetails(map[string]string{"price": "must not be negative"})
	}
	if p.SalePrice != nil && p.SalePrice.Sign() < 0 {
		return cart.LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "sale price must not be negative").
			WithDetails(map[string]string{"salePrice": "must not be negative"})
	}

	options, err := encodeOptions(p.Options)
	if err != nil {
		return cart.LineItem{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid options payload")
	}

	return cart.LineItem{
		ID:        p.ID,
		Name:      p.Name,
		Image:     p.Image,
		Price:     p.Price,
		SalePrice: p.SalePrice,
		Quantity:  p.Quantity,
		Options:   options,
	}, nil
}

// encodeOptions flattens personalization options into a single string.
// Strings pass through; structured payloads are kept as compact JSON.
func encodeOptions(v any) (string, error) {
	switch value := v.(type) {
	case nil:
		return "", nil
	case string:
		return value, nil
	default:
		raw, err := json.Marshal(value)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type cartItemResponse struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Image              string           `json:"image,omitempty"`
	Price              decimal.Decimal  `json:"price"`
	SalePrice          *decimal.Decimal `json:"salePrice,omitempty"`
	Quantity           int              `json:"quantity"`
	Options            string           `json:"options,omitempty"`
	EffectiveUnitPrice decimal.Decimal  `json:"effectiveUnitPrice"`
	LineTotal          decimal.Decimal  `json:"lineTotal"`
}

type cartResponse struct {
	Items     []cartItemResponse `json:"items"`
	ItemCount int                `json:"itemCount"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
	Shipping  decimal.Decimal    `json:"shipping"`
	Tax       decimal.Decimal    `json:"tax"`
	Total     decimal.Decimal    `json:"total"`
}

func newCartResponse(items []cart.LineItem, totals cart.Totals) cartResponse {
	out := cartResponse{
		Items:     make([]cartItemResponse, 0, len(items)),
		ItemCount: totals.ItemCount,
		Subtotal:  totals.Subtotal,
		Shipping:  totals.Shipping,
		Tax:       totals.Tax,
		Total:     totals.Total,
	}
	for _, item := range items {
		unit := item.EffectiveUnitPrice()
		out.Items = append(out.Items, cartItemResponse{
			ID:                 item.ID,
			Name:               item.Name,
			Image:              item.Image,
			Price:              item.Price,
			SalePrice:          item.SalePrice,
			Quantity:           item.Quantity,
			Options:            item.Options,
			EffectiveUnitPrice: unit,
			LineTotal:          unit.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	return out
}
