package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/coursebay/coursebay/internal/pkg/env"
)

// StripeGateway implements Gateway against the Stripe API.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

func NewStripeGateway(apiKey, webhookSecret string) *StripeGateway {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &StripeGateway{
		api:           api,
		webhookSecret: webhookSecret,
	}
}

func NewStripeGatewayFromEnv() *StripeGateway {
	return NewStripeGateway(
		strings.TrimSpace(env.GetEnv("PAYMENT_SECRET_KEY", "")),
		strings.TrimSpace(env.GetEnv("PAYMENT_WEBHOOK_SECRET", "")),
	)
}

// CreateCheckoutSession opens a provider-hosted payment page. The purchase id
// is written into both the session metadata and the payment intent metadata,
// so succeeded/failed events carry it directly and the session-list fallback
// is only needed for legacy sessions.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, in CheckoutSessionInput) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(in.SuccessURL),
		CancelURL:  stripe.String(in.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(strings.ToLower(in.Currency)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(in.CourseTitle),
					},
					UnitAmount: stripe.Int64(in.UnitAmount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{MetadataPurchaseID: in.PurchaseID},
		},
	}
	params.Context = ctx
	params.AddMetadata(MetadataPurchaseID, in.PurchaseID)

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &CheckoutSession{
		ID:         sess.ID,
		URL:        sess.URL,
		PurchaseID: sess.Metadata[MetadataPurchaseID],
	}, nil
}

// FindSessionByPaymentIntent recovers the checkout session (and its purchase
// id) for a payment intent. Kept as a fallback for events whose intent
// metadata is missing.
func (g *StripeGateway) FindSessionByPaymentIntent(ctx context.Context, paymentIntentID string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionListParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	params.Context = ctx

	iter := g.api.CheckoutSessions.List(params)
	for iter.Next() {
		sess := iter.CheckoutSession()
		return &CheckoutSession{
			ID:         sess.ID,
			URL:        sess.URL,
			PurchaseID: sess.Metadata[MetadataPurchaseID],
		}, nil
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list checkout sessions: %w", err)
	}
	return nil, ErrSessionNotFound
}

// VerifyEvent checks the webhook signature against the shared secret and
// normalizes the event. Verification happens before anything in the payload
// is trusted.
func (g *StripeGateway) VerifyEvent(payload []byte, signatureHeader string) (*Event, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &Event{
		ID:   event.ID,
		Type: string(event.Type),
	}
	switch out.Type {
	case EventPaymentSucceeded, EventPaymentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, fmt.Errorf("decode payment intent: %w", err)
		}
		out.PaymentIntentID = intent.ID
		out.PurchaseID = intent.Metadata[MetadataPurchaseID]
	}
	return out, nil
}
