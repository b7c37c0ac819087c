package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coursebay/coursebay/app/controllers"
)

type WebhookRouter struct {
}

// InstallRouter registers the provider-facing webhook endpoints. Both
// authenticate via payload signatures over the raw body, not session tokens.
func (h WebhookRouter) InstallRouter(app *fiber.App) {
	app.Post("/webhooks/payments", controllers.HandlePaymentWebhook)
	app.Post("/webhooks/identity", controllers.HandleIdentityWebhook)
}

func NewWebhookRouter() *WebhookRouter {
	return &WebhookRouter{}
}
