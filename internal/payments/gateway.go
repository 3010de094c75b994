package payments

import "math"

// Event types the webhook receiver dispatches on.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// Intent is a freshly created remote payment intent.
type Intent struct {
	ID           string
	ClientSecret string
}

// ChargeDetails captures the settlement details of a charge.
type ChargeDetails struct {
	ID         string
	ReceiptURL string
	CardBrand  string
	CardLast4  string
}

// EventIntent is the payment intent carried by a verified webhook event.
type EventIntent struct {
	ID             string
	LatestChargeID string
	Metadata       map[string]string
}

// Event is a verified webhook event from the payment processor.
type Event struct {
	Type   string
	Intent *EventIntent // nil for event types we do not handle
}

// Gateway abstracts the external payment processor so the payment service can
// be constructed with a fake in tests.
type Gateway interface {
	// Configured reports whether the processor credentials look usable.
	Configured() bool
	// CreateCustomer creates a remote customer record and returns its ID.
	CreateCustomer(email, name string, userID uint) (string, error)
	// CreateIntent creates a remote payment intent for the amount in minor
	// currency units.
	CreateIntent(amountMinor int64, currency, customerID string, metadata map[string]string) (*Intent, error)
	// UpdateIntentMetadata replaces the intent's metadata.
	UpdateIntentMetadata(intentID string, metadata map[string]string) error
	// CancelIntent voids a previously created intent.
	CancelIntent(intentID string) error
	// GetCharge retrieves settlement details for a charge.
	GetCharge(chargeID string) (*ChargeDetails, error)
	// ConstructEvent verifies the signature over the raw payload and parses
	// the event. An invalid signature is an error; no state may be trusted
	// before this succeeds.
	ConstructEvent(payload []byte, sigHeader string) (*Event, error)
}

// MinorUnits converts a major-unit amount (e.g. euros) to minor units
// (cents), rounding to the nearest cent and flooring at zero.
func MinorUnits(amount float64) int64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0
	}
	n := int64(math.Round(amount * 100))
	if n < 0 {
		return 0
	}
	return n
}
