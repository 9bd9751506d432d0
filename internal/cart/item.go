package cart

import "github.com/shopspring/decimal"

// LineItem is one aggregated cart entry keyed by product identifier. The
// product identifier is the only aggregation key: adding the same product
// twice merges quantities even when the selected options differ.
type LineItem struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Image     string           `json:"image,omitempty"`
	Price     decimal.Decimal  `json:"price"`
	SalePrice *decimal.Decimal `json:"salePrice,omitempty"`
	Quantity  int              `json:"quantity"`
	Options   string           `json:"options,omitempty"`
}

// EffectiveUnitPrice returns the sale price when present and lower than the
// base price, otherwise the base price.
func (li LineItem) EffectiveUnitPrice() decimal.Decimal {
	if li.SalePrice != nil && li.SalePrice.LessThan(li.Price) {
		return *li.SalePrice
	}
	return li.Price
}

func (li LineItem) clone() LineItem {
	out := li
	if li.SalePrice != nil {
		sale := *li.SalePrice
		out.SalePrice = &sale
	}
	return out
}

// Pricing holds the fixed rates applied to every cart.
type Pricing struct {
	TaxRate         decimal.Decimal
	ShippingFlatFee decimal.Decimal
}

// Totals is the derived, read-only view of a cart. It is recomputed on
// every read; nothing is cached.
type Totals struct {
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
}
