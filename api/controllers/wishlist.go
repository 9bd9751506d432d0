package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/avelinelabs/giftnest-backend/api/responses"
	"github.com/avelinelabs/giftnest-backend/api/validators"
	"github.com/avelinelabs/giftnest-backend/internal/shopper"
	"github.com/avelinelabs/giftnest-backend/internal/wishlist"
	pkgerrors "github.com/avelinelabs/giftnest-backend/pkg/errors"
	"github.com/avelinelabs/giftnest-backend/pkg/logger"
)

// WishlistGet returns the session's saved items.
func WishlistGet(mgr *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := resolveShopper(mgr, logg, w, r)
		if !ok {
			return
		}
		responses.WriteSuccess(w, newWishlistResponse(s.Wishlist.Items()))
	}
}

// WishlistContains probes membership for one product.
func WishlistContains(mgr *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
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

		responses.WriteSuccess(w, map[string]any{
			"id":         productID,
			"wishlisted": s.Wishlist.Contains(productID),
		})
	}
}

// WishlistAddItem saves a product; adding an already-saved product is a
// no-op.
func WishlistAddItem(mgr *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := resolveShopper(mgr, logg, w, r)
		if !ok {
			return
		}

		var payload addWishlistItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		s.Wishlist.AddItem(r.Context(), wishlist.Item{
			ID:        payload.ID,
			Name:      payload.Name,
			Image:     payload.Image,
			Price:     payload.Price,
			SalePrice: payload.SalePrice,
		})
		responses.WriteSuccess(w, newWishlistResponse(s.Wishlist.Items()))
	}
}

// WishlistRemoveItem removes one saved product.
func WishlistRemoveItem(mgr *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
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

		s.Wishlist.RemoveItem(r.Context(), productID)
		responses.WriteSuccess(w, newWishlistResponse(s.Wishlist.Items()))
	}
}

// WishlistClear empties the wishlist.
func WishlistClear(mgr *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := resolveShopper(mgr, logg, w, r)
		if !ok {
			return
		}

		s.Wishlist.Clear(r.Context())
		responses.WriteSuccess(w, newWishlistResponse(s.Wishlist.Items()))
	}
}

type addWishlistItemRequest struct {
	ID        string           `json:"id" validate:"required"`
	Name      string           `json:"name" validate:"required"`
	Image     string           `json:"image"`
	Price     decimal.Decimal  `json:"price"`
	SalePrice *decimal.Decimal `json:"salePrice"`
}

type wishlistResponse struct {
	Items     []wishlist.Item `json:"items"`
	ItemCount int             `json:"itemCount"`
}

func newWishlistResponse(items []wishlist.Item) wishlistResponse {
	if items == nil {
		items = []wishlist.Item{}
	}
	return wishlistResponse{Items: items, ItemCount: len(items)}
}
