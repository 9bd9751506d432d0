package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avelinelabs/giftnest-backend/pkg/enums"
	pkgerrors "github.com/avelinelabs/giftnest-backend/pkg/errors"
	"github.com/avelinelabs/giftnest-backend/pkg/logger"
	"github.com/avelinelabs/giftnest-backend/pkg/types"
	"github.com/shopspring/decimal"
)

const (
	createOrderPath  = "/api/orders"
	maxResponseBytes = 1 << 20
)

// OrderItem is the wire shape the collaborator expects for each line.
type OrderItem struct {
	ProductRef string           `json:"productRef"`
	Name       string           `json:"name"`
	Quantity   int              `json:"quantity"`
	Price      decimal.Decimal  `json:"price"`
	SalePrice  *decimal.Decimal `json:"salePrice,omitempty"`
	Image      string           `json:"image,omitempty"`
	Options    string           `json:"options,omitempty"`
}

// CreateOrderRequest is the order-submission payload.
type CreateOrderRequest struct {
	ShippingAddress   types.ShippingAddress  `json:"shippingAddress"`
	Items             []OrderItem            `json:"items"`
	PaymentMethod     enums.PaymentMethod    `json:"paymentMethod"`
	Subtotal          decimal.Decimal        `json:"subtotal"`
	Shipping          decimal.Decimal        `json:"shipping"`
	Tax               decimal.Decimal        `json:"tax"`
	Total             decimal.Decimal        `json:"total"`
	DeliveryNotes     string                 `json:"deliveryNotes,omitempty"`
	DeliveryPriority  enums.DeliveryPriority `json:"deliveryPriority"`
	EstimatedDelivery time.Time              `json:"estimatedDelivery"`
}

// createOrderResponse tolerates the identifier at the top level or nested
// under a data field.
type createOrderResponse struct {
	MongoID string               `json:"_id"`
	ID      string               `json:"id"`
	OrderID string               `json:"orderId"`
	Data    *createOrderResponse `json:"data"`
}

func (r *createOrderResponse) orderID() string {
	if r == nil {
		return ""
	}
	for _, candidate := range []string{r.MongoID, r.ID, r.OrderID} {
		if candidate != "" {
			return candidate
		}
	}
	return r.Data.orderID()
}

// ClientParams groups dependencies for the order-creation client.
type ClientParams struct {
	BaseURL string
	// Timeout bounds the whole submission call. Zero means no client-side
	// deadline; the collaborator's behavior decides when the call resolves.
	Timeout    time.Duration
	HTTPClient *http.Client   // optional
	Logger     *logger.Logger // optional
}

// Client submits orders to the external order-creation endpoint. It never
// retries: a failed submission is terminal for that attempt.
type Client struct {
	http    *http.Client
	baseURL string
	logg    *logger.Logger
}

// NewClient builds an order-creation client for the collaborator API.
func NewClient(params ClientParams) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(params.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("orders base url required")
	}
	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: params.Timeout}
	}
	return &Client{
		http:    httpClient,
		baseURL: base,
		logg:    params.Logger,
	}, nil
}

// Create issues one order-creation request and returns the server-assigned
// order identifier. Any non-success status, transport error, or response
// without a recognizable identifier is a submission failure.
func (c *Client) Create(ctx context.Context, req CreateOrderRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode order payload")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+createOrderPath, bytes.NewReader(body))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build order request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order submission failed")
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if c.logg != nil {
			ctx = c.logg.WithField(ctx, "status", resp.StatusCode)
			c.logg.Warn(ctx, "order collaborator returned non-success status")
		}
		return "", pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("order service responded with status %d", resp.StatusCode))
	}

	var parsed createOrderResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&parsed); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode order response")
	}

	orderID := parsed.orderID()
	if orderID == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "order response missing identifier")
	}
	return orderID, nil
}
