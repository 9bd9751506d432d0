package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/avelinelabs/giftnest-backend/internal/cart"
	"github.com/avelinelabs/giftnest-backend/internal/orders"
	"github.com/avelinelabs/giftnest-backend/pkg/enums"
	pkgerrors "github.com/avelinelabs/giftnest-backend/pkg/errors"
	"github.com/avelinelabs/giftnest-backend/pkg/logger"
	"github.com/avelinelabs/giftnest-backend/pkg/metrics"
	"github.com/avelinelabs/giftnest-backend/pkg/types"
)

type orderCreator interface {
	Create(ctx context.Context, req orders.CreateOrderRequest) (string, error)
}

// PaymentDetails carries the shopper's payment selection. The card fields
// are display-only demonstration data and are never transmitted.
type PaymentDetails struct {
	Method     enums.PaymentMethod `json:"method"`
	CardNumber string              `json:"cardNumber,omitempty"`
	CardHolder string              `json:"cardHolder,omitempty"`
	CardExpiry string              `json:"cardExpiry,omitempty"`
}

// AddressPatch is a partial shipping-address update; nil fields are left
// untouched.
type AddressPatch struct {
	FullName       *string
	Email          *string
	Phone          *string
	WhatsappNumber *string
	Address        *string
	City           *string
	State          *string
	ZipCode        *string
	Country        *string
	DeliveryNotes  *string
	AddressType    *string
}

// PaymentPatch is a partial payment-details update.
type PaymentPatch struct {
	Method     *enums.PaymentMethod
	CardNumber *string
	CardHolder *string
	CardExpiry *string
}

// Config holds the fixed order-composition values.
type Config struct {
	EstimatedDeliveryDays   int
	DefaultDeliveryPriority enums.DeliveryPriority
}

// OrchestratorParams groups dependencies for a checkout orchestrator.
type OrchestratorParams struct {
	Cart    *cart.Store
	Orders  orderCreator
	Config  Config
	Logger  *logger.Logger             // optional
	Metrics *metrics.StorefrontMetrics // optional
	Clock   func() time.Time           // optional; tests override
}

// Orchestrator owns the multi-field shipping/payment form state and drives
// the single transition that converts a cart snapshot into a submitted
// order: Editing -> Validating -> Submitting -> Completed, with any
// validation or submission failure landing in Failed until the shopper
// edits and resubmits. There are no automatic retries anywhere.
type Orchestrator struct {
	mu      sync.Mutex
	cart    *cart.Store
	orders  orderCreator
	cfg     Config
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
	clock   func() time.Time

	state       enums.CheckoutState
	address     types.ShippingAddress
	payment     PaymentDetails
	fieldErrors map[string]string
	lastError   string
	orderID     string
	processing  bool
}

// NewOrchestrator builds a checkout orchestrator in the Editing state.
func NewOrchestrator(params OrchestratorParams) (*Orchestrator, error) {
	if params.Cart == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order creator required")
	}
	cfg := params.Config
	if cfg.EstimatedDeliveryDays <= 0 {
		cfg.EstimatedDeliveryDays = 5
	}
	if cfg.DefaultDeliveryPriority == "" {
		cfg.DefaultDeliveryPriority = enums.DeliveryPriorityStandard
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Orchestrator{
		cart:        params.Cart,
		orders:      params.Orders,
		cfg:         cfg,
		logg:        params.Logger,
		metrics:     params.Metrics,
		clock:       clock,
		state:       enums.CheckoutStateEditing,
		payment:     PaymentDetails{Method: enums.PaymentMethodPayInFullOnline},
		fieldErrors: map[string]string{},
	}, nil
}

// UpdateShippingAddress merges the patch into the current address and
// clears any recorded validation error for each updated field. Editing
// after a failure returns the orchestrator to the Editing state.
func (o *Orchestrator) UpdateShippingAddress(patch AddressPatch) {
	o.mu.Lock()
	defer o.mu.Unlock()

	apply := func(dst *string, src *string, field string) {
		if src == nil {
			return
		}
		*dst = *src
		delete(o.fieldErrors, field)
	}

	apply(&o.address.FullName, patch.FullName, "fullName")
	apply(&o.address.Email, patch.Email, "email")
	apply(&o.address.Phone, patch.Phone, "phone")
	apply(&o.address.WhatsappNumber, patch.WhatsappNumber, "whatsappNumber")
	apply(&o.address.Address, patch.Address, "address")
	apply(&o.address.City, patch.City, "city")
	apply(&o.address.State, patch.State, "state")
	apply(&o.address.ZipCode, patch.ZipCode, "zipCode")
	apply(&o.address.Country, patch.Country, "country")
	apply(&o.address.DeliveryNotes, patch.DeliveryNotes, "deliveryNotes")
	apply(&o.address.AddressType, patch.AddressType, "addressType")

	if o.state == enums.CheckoutStateFailed {
		o.state = enums.CheckoutStateEditing
	}
}

// UpdatePaymentDetails merges the patch into the payment state. No
// validation happens here; an invalid method surfaces on placeOrder.
func (o *Orchestrator) UpdatePaymentDetails(patch PaymentPatch) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if patch.Method != nil {
		o.payment.Method = *patch.Method
		delete(o.fieldErrors, "paymentMethod")
	}
	if patch.CardNumber != nil {
		o.payment.CardNumber = *patch.CardNumber
	}
	if patch.CardHolder != nil {
		o.payment.CardHolder = *patch.CardHolder
	}
	if patch.CardExpiry != nil {
		o.payment.CardExpiry = *patch.CardExpiry
	}

	if o.state == enums.CheckoutStateFailed {
		o.state = enums.CheckoutStateEditing
	}
}

// PlaceOrder validates the shipping form, composes the order payload from
// the cart snapshot, and issues exactly one order-creation call. On
// success the cart is cleared and the server-assigned identifier is
// returned; on any failure the cart is left untouched and the shopper must
// resubmit manually.
func (o *Orchestrator) PlaceOrder(ctx context.Context) (string, error) {
	o.mu.Lock()
	if o.processing {
		o.mu.Unlock()
		return "", pkgerrors.New(pkgerrors.CodeStateConflict, "an order submission is already in progress")
	}
	if o.state == enums.CheckoutStateCompleted {
		o.mu.Unlock()
		return "", pkgerrors.New(pkgerrors.CodeStateConflict, "checkout already completed")
	}

	o.state = enums.CheckoutStateValidating

	violations := validateShippingAddress(o.address)
	if !o.payment.Method.IsValid() {
		violations["paymentMethod"] = "payment method must be one of the supported options"
	}
	if len(violations) > 0 {
		o.fieldErrors = violations
		o.state = enums.CheckoutStateFailed
		details := copyFieldMap(violations)
		o.mu.Unlock()
		return "", pkgerrors.New(pkgerrors.CodeValidation, "checkout details are incomplete").WithDetails(details)
	}

	items, totals := o.cart.Snapshot()
	if len(items) == 0 {
		o.state = enums.CheckoutStateFailed
		o.lastError = "your cart is empty"
		o.mu.Unlock()
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
	}

	o.fieldErrors = map[string]string{}
	req := o.composeRequestLocked(items, totals)
	o.processing = true
	o.state = enums.CheckoutStateSubmitting
	o.mu.Unlock()

	start := time.Now()
	orderID, err := o.orders.Create(ctx, req)
	o.metrics.ObserveOrderDuration(time.Since(start))

	o.mu.Lock()
	o.processing = false
	if err != nil {
		o.state = enums.CheckoutStateFailed
		o.lastError = "we couldn't place your order; please try again"
		o.mu.Unlock()

		o.metrics.IncOrderFailure()
		if o.logg != nil {
			o.logg.Error(ctx, "order submission failed", err)
		}
		return "", err
	}

	o.state = enums.CheckoutStateCompleted
	o.orderID = orderID
	o.lastError = ""
	o.mu.Unlock()

	o.cart.Clear(ctx)
	o.metrics.IncOrderSuccess()
	if o.logg != nil {
		o.logg.Info(o.logg.WithField(ctx, "order_id", orderID), "order placed")
	}
	return orderID, nil
}

// Reset returns a completed or failed checkout to a blank Editing state so
// the session can start another order.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.processing {
		return
	}
	o.state = enums.CheckoutStateEditing
	o.address = types.ShippingAddress{}
	o.payment = PaymentDetails{Method: enums.PaymentMethodPayInFullOnline}
	o.fieldErrors = map[string]string{}
	o.lastError = ""
	o.orderID = ""
}

// State returns the current checkout state.
func (o *Orchestrator) State() enums.CheckoutState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// IsProcessing reports whether a submission is in flight; the UI uses it
// to disable resubmission.
func (o *Orchestrator) IsProcessing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.processing
}

// ShippingAddress returns the current form values.
func (o *Orchestrator) ShippingAddress() types.ShippingAddress {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.address
}

// PaymentDetails returns the current payment selection.
func (o *Orchestrator) PaymentDetails() PaymentDetails {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.payment
}

// FieldErrors returns a copy of the field-level validation errors from the
// last placeOrder attempt.
func (o *Orchestrator) FieldErrors() map[string]string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return copyFieldMap(o.fieldErrors)
}

// LastError returns the human-readable message from the last submission
// failure, if any.
func (o *Orchestrator) LastError() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastError
}

// OrderID returns the server-assigned identifier once Completed.
func (o *Orchestrator) OrderID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.orderID
}

func (o *Orchestrator) composeRequestLocked(items []cart.LineItem, totals cart.Totals) orders.CreateOrderRequest {
	orderItems := make([]orders.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, orders.OrderItem{
			ProductRef: item.ID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			Price:      item.Price,
			SalePrice:  item.SalePrice,
			Image:      item.Image,
			Options:    item.Options,
		})
	}

	return orders.CreateOrderRequest{
		ShippingAddress:   o.address,
		Items:             orderItems,
		PaymentMethod:     o.payment.Method,
		Subtotal:          totals.Subtotal,
		Shipping:          totals.Shipping,
		Tax:               totals.Tax,
		Total:             totals.Total,
		DeliveryNotes:     o.address.DeliveryNotes,
		DeliveryPriority:  o.cfg.DefaultDeliveryPriority,
		EstimatedDelivery: o.clock().AddDate(0, 0, o.cfg.EstimatedDeliveryDays),
	}
}

func copyFieldMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
