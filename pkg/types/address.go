package types

// ShippingAddress is the delivery destination collected during checkout.
// Every field except DeliveryNotes and AddressType is mandatory for order
// submission.
type ShippingAddress struct {
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	WhatsappNumber string `json:"whatsappNumber"`
	Address        string `json:"address"`
	City           string `json:"city"`
	State          string `json:"state"`
	ZipCode        string `json:"zipCode"`
	Country        string `json:"country"`
	DeliveryNotes  string `json:"deliveryNotes,omitempty"`
	AddressType    string `json:"addressType,omitempty"`
}
