package checkout

import (
	"regexp"
	"strings"

	"github.com/avelinelabs/giftnest-backend/pkg/types"
)

// Minimal shape check: something before the @, a domain with a dot after it.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validateShippingAddress trims every mandatory field and collects ALL
// violations into a field-to-message map, keyed by the field's wire name.
// An empty map means the address is ready for submission.
func validateShippingAddress(addr types.ShippingAddress) map[string]string {
	violations := map[string]string{}

	require := func(field, value, label string) {
		if strings.TrimSpace(value) == "" {
			violations[field] = label + " is required"
		}
	}

	require("fullName", addr.FullName, "full name")
	require("phone", addr.Phone, "phone number")
	require("whatsappNumber", addr.WhatsappNumber, "whatsapp number")
	require("address", addr.Address, "street address")
	require("city", addr.City, "city")
	require("state", addr.State, "state")
	require("zipCode", addr.ZipCode, "zip code")
	require("country", addr.Country, "country")

	email := strings.TrimSpace(addr.Email)
	switch {
	case email == "":
		violations["email"] = "email is required"
	case !emailPattern.MatchString(email):
		violations["email"] = "email must be a valid address"
	}

	return violations
}
