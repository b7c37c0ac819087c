package payments

import "context"

// Metadata key carrying our purchase id through the provider's checkout
// session and payment intent objects.
const MetadataPurchaseID = "purchase_id"

// Event types the webhook handler acts on. Everything else is acknowledged
// and recorded without side effects.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// CheckoutSessionInput describes a provider-hosted payment flow for one
// purchase. UnitAmount is in the provider's minor currency units.
type CheckoutSessionInput struct {
	PurchaseID  string
	CourseTitle string
	Currency    string
	UnitAmount  int64
	SuccessURL  string
	CancelURL   string
}

// CheckoutSession is the subset of the provider session we care about.
type CheckoutSession struct {
	ID         string
	URL        string
	PurchaseID string
}

// Event is a verified, normalized webhook event.
type Event struct {
	ID              string
	Type            string
	PaymentIntentID string
	// PurchaseID is recovered from the payment intent metadata when present;
	// empty means the caller must fall back to a session lookup.
	PurchaseID string
}

// Gateway abstracts the payment provider so the purchase service and its
// tests do not depend on the live API.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, in CheckoutSessionInput) (*CheckoutSession, error)
	FindSessionByPaymentIntent(ctx context.Context, paymentIntentID string) (*CheckoutSession, error)
	VerifyEvent(payload []byte, signatureHeader string) (*Event, error)
}
