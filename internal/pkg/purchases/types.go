package purchases

import "github.com/coursebay/coursebay/app/models"

// Result is the orchestrator's answer to a purchase request. Exactly one of
// Redirect (free path) or SessionURL (paid path) is set.
type Result struct {
	Purchase   *models.Purchase
	Redirect   string
	SessionURL string
}

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	Provider        string
	ProviderEventID string
	EventType       string
	PayloadJSON     string
	SignatureValid  bool
}
