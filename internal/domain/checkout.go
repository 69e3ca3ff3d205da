package domain

// CheckoutState is the explicit order-submission state machine. One machine is
// shared by every call site (direct checkout, gateway callback), so the
// compensating-delete path exists in exactly one place.
type CheckoutState string

const (
	StateIdle              CheckoutState = "IDLE"
	StateValidating        CheckoutState = "VALIDATING"
	StateSubmittingOrder   CheckoutState = "SUBMITTING_ORDER"
	StateSubmittingDetails CheckoutState = "SUBMITTING_DETAILS"
	StateGeneratingInvoice CheckoutState = "GENERATING_INVOICE"
	StateDone              CheckoutState = "DONE"
)

var checkoutTransitions = map[CheckoutState][]CheckoutState{
	StateIdle:              {StateValidating},
	StateValidating:        {StateSubmittingOrder, StateIdle},
	StateSubmittingOrder:   {StateSubmittingDetails, StateIdle},
	StateSubmittingDetails: {StateGeneratingInvoice, StateIdle},
	StateGeneratingInvoice: {StateDone},
}

// CanTransitionTo reports whether moving from one checkout state to another is legal.
func CanTransitionTo(from, to CheckoutState) bool {
	for _, next := range checkoutTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s CheckoutState) IsTerminal() bool {
	return s == StateDone
}

// String representation (for logging)
func (s CheckoutState) String() string {
	return string(s)
}
