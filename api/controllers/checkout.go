package controllers

import (
	"net/http"

	"github.com/avelinelabs/giftnest-backend/api/responses"
	"github.com/avelinelabs/giftnest-backend/api/validators"
	"github.com/avelinelabs/giftnest-backend/internal/checkout"
	"github.com/avelinelabs/giftnest-backend/internal/shopper"
	"github.com/avelinelabs/giftnest-backend/pkg/enums"
	pkgerrors "github.com/avelinelabs/giftnest-backend/pkg/errors"
	"github.com/avelinelabs/giftnest-backend/pkg/logger"
	"github.com/avelinelabs/giftnest-backend/pkg/types"
)

// CheckoutGet returns the current checkout view: state, form values, and
// any field-level validation errors from the last submission attempt.
func CheckoutGet(mgr *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := resolveShopper(mgr, logg, w, r)
		if !ok {
			return
		}
		responses.WriteSuccess(w, newCheckoutResponse(s.Checkout))
	}
}

// CheckoutUpdateShippingAddress applies a partial shipping-address update.
func CheckoutUpdateShippingAddress(mgr *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := resolveShopper(mgr, logg, w, r)
		if !ok {
			return
		}

		var payload shippingAddressPatchRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		s.Checkout.UpdateShippingAddress(payload.toPatch())
		responses.WriteSuccess(w, newCheckoutResponse(s.Checkout))
	}
}

// CheckoutUpdatePayment applies a partial payment-details update.
func CheckoutUpdatePayment(mgr *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := resolveShopper(mgr, logg, w, r)
		if !ok {
			return
		}

		var payload paymentPatchRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		patch, err := payload.toPatch()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		s.Checkout.UpdatePaymentDetails(patch)
		responses.WriteSuccess(w, newCheckoutResponse(s.Checkout))
	}
}

// CheckoutPlaceOrder validates the form and submits the order once.
func CheckoutPlaceOrder(mgr *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := resolveShopper(mgr, logg, w, r)
		if !ok {
			return
		}

		orderID, err := s.Checkout.PlaceOrder(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"orderId": orderID})
	}
}

// CheckoutReset returns a completed or failed checkout to a blank form so
// the session can start another order.
func CheckoutReset(mgr *shopper.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := resolveShopper(mgr, logg, w, r)
		if !ok {
			return
		}

		s.Checkout.Reset()
		responses.WriteSuccess(w, newCheckoutResponse(s.Checkout))
	}
}

type shippingAddressPatchRequest struct {
	FullName       *string `json:"fullName"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	WhatsappNumber *string `json:"whatsappNumber"`
	Address        *string `json:"address"`
	City           *string `json:"city"`
	State          *string `json:"state"`
	ZipCode        *string `json:"zipCode"`
	Country        *string `json:"country"`
	DeliveryNotes  *string `json:"deliveryNotes"`
	AddressType    *string `json:"addressType"`
}

func (p shippingAddressPatchRequest) toPatch() checkout.AddressPatch {
	return checkout.AddressPatch{
		FullName:       p.FullName,
		Email:          p.Email,
		Phone:          p.Phone,
		WhatsappNumber: p.WhatsappNumber,
		Address:        p.Address,
		City:           p.City,
		State:          p.State,
		ZipCode:        p.ZipCode,
		Country:        p.Country,
		DeliveryNotes:  p.DeliveryNotes,
		AddressType:    p.AddressType,
	}
}

type paymentPatchRequest struct {
	Method     *string `json:"method"`
	CardNumber *string `json:"cardNumber"`
	CardHolder *string `json:"cardHolder"`
	CardExpiry *string `json:"cardExpiry"`
}

func (p paymentPatchRequest) toPatch() (checkout.PaymentPatch, error) {
	patch := checkout.PaymentPatch{
		CardNumber: p.CardNumber,
		CardHolder: p.CardHolder,
		CardExpiry: p.CardExpiry,
	}
	if p.Method != nil {
		method, err := enums.ParsePaymentMethod(*p.Method)
		if err != nil {
			return checkout.PaymentPatch{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method").
				WithDetails(map[string]string{"method": "must be one of the supported options"})
		}
		patch.Method = &method
	}
	return patch, nil
}

type paymentResponse struct {
	Method     string `json:"method"`
	CardNumber string `json:"cardNumber,omitempty"`
	CardHolder string `json:"cardHolder,omitempty"`
	CardExpiry string `json:"cardExpiry,omitempty"`
}

type checkoutResponse struct {
	State             string                `json:"state"`
	IsProcessingOrder bool                  `json:"isProcessingOrder"`
	ShippingAddress   types.ShippingAddress `json:"shippingAddress"`
	Payment           paymentResponse       `json:"payment"`
	FieldErrors       map[string]string     `json:"fieldErrors"`
	LastError         string                `json:"lastError,omitempty"`
	OrderID           string                `json:"orderId,omitempty"`
}

func newCheckoutResponse(orch *checkout.Orchestrator) checkoutResponse {
	payment := orch.PaymentDetails()
	return checkoutResponse{
		State:             orch.State().String(),
		IsProcessingOrder: orch.IsProcessing(),
		ShippingAddress:   orch.ShippingAddress(),
		Payment: paymentResponse{
			Method:     payment.Method.String(),
			CardNumber: payment.CardNumber,
			CardHolder: payment.CardHolder,
			CardExpiry: payment.CardExpiry,
		},
		FieldErrors: orch.FieldErrors(),
		LastError:   orch.LastError(),
		OrderID:     orch.OrderID(),
	}
}
