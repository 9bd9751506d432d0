package enums

// CheckoutState tracks where a checkout attempt sits in its lifecycle.
type CheckoutState string

const (
	CheckoutStateEditing    CheckoutState = "editing"
	CheckoutStateValidating CheckoutState = "validating"
	CheckoutStateSubmitting CheckoutState = "submitting"
	CheckoutStateCompleted  CheckoutState = "completed"
	CheckoutStateFailed     CheckoutState = "failed"
)

// String implements fmt.Stringer.
func (s CheckoutState) String() string {
	return string(s)
}

// Terminal reports whether the checkout reached a successful end state.
func (s CheckoutState) Terminal() bool {
	return s == CheckoutStateCompleted
}
