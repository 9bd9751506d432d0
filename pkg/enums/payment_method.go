package enums

import "fmt"

// PaymentMethod enumerates how a shopper settles an order.
type PaymentMethod string

const (
	PaymentMethodPayInFullOnline           PaymentMethod = "pay_in_full_online"
	PaymentMethodCashOnDeliveryWithAdvance PaymentMethod = "cash_on_delivery_with_advance"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodPayInFullOnline,
	PaymentMethodCashOnDeliveryWithAdvance,
}

// String implements fmt.Stringer.
func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid reports whether the value is a known PaymentMethod.
func (m PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
