package checkout

import (
	"testing"

	"github.com/avelinelabs/giftnest-backend/pkg/types"
)

func TestValidateShippingAddressCollectsAllViolations(t *testing.T) {
	violations := validateShippingAddress(types.ShippingAddress{})

	required := []string{"fullName", "email", "phone", "whatsappNumber", "address", "city", "state", "zipCode", "country"}
	for _, field := range required {
		if _, ok := violations[field]; !ok {
			t.Errorf("missing violation for %s", field)
		}
	}
	if len(violations) != len(required) {
		t.Fatalf("violations = %v", violations)
	}
}

func TestValidateShippingAddressEmailFormat(t *testing.T) {
	addr := types.ShippingAddress{
		FullName:       "Priya Raman",
		Email:          "not-an-email",
		Phone:          "5550100",
		WhatsappNumber: "5550100",
		Address:        "12 Rose Lane",
		City:           "Austin",
		State:          "TX",
		ZipCode:        "78701",
		Country:        "US",
	}

	violations := validateShippingAddress(addr)
	if len(violations) != 1 {
		t.Fatalf("violations = %v", violations)
	}
	if _, ok := violations["email"]; !ok {
		t.Fatal("expected email violation")
	}
}

func TestValidateShippingAddressTrimsWhitespace(t *testing.T) {
	addr := types.ShippingAddress{
		FullName:       "   ",
		Email:          " priya@example.com ",
		Phone:          "5550100",
		WhatsappNumber: "5550100",
		Address:        "12 Rose Lane",
		City:           "Austin",
		State:          "TX",
		ZipCode:        "78701",
		Country:        "US",
	}

	violations := validateShippingAddress(addr)
	if _, ok := violations["fullName"]; !ok {
		t.Fatal("whitespace-only fullName should be a violation")
	}
	if _, ok := violations["email"]; ok {
		t.Fatal("padded but valid email should pass")
	}
}
