package controllers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/coursebay/coursebay/app/models"
	"github.com/coursebay/coursebay/app/repository"
	"github.com/coursebay/coursebay/internal/pkg/database"
	"github.com/coursebay/coursebay/internal/pkg/env"
	"github.com/coursebay/coursebay/internal/pkg/identity"
	"github.com/coursebay/coursebay/internal/pkg/payments"
	"github.com/coursebay/coursebay/internal/pkg/purchases"
)

// Webhook handlers answer outside the success envelope. Signature failures
// get a 4xx so the provider flags the endpoint; everything after a verified
// signature is acknowledged with 200 and any processing error is recorded on
// the stored event row instead of being surfaced to the provider.

// HandlePaymentWebhook receives payment provider events.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	payload := append([]byte(nil), c.BodyRaw()...)
	gateway := payments.NewStripeGatewayFromEnv()

	event, err := gateway.VerifyEvent(payload, c.Get("Stripe-Signature"))
	if err != nil {
		log.Printf("payment webhook signature rejected: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid signature"})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 15*time.Second)
	defer cancel()

	svc := purchases.NewServiceFromDB(database.GetDB(), gateway, env.GetEnv("CURRENCY", "usd"))
	created, stored, err := svc.RecordWebhookEvent(ctx, purchases.WebhookEventInput{
		Provider:        models.WebhookProviderPayments,
		ProviderEventID: event.ID,
		EventType:       event.Type,
		PayloadJSON:     string(payload),
		SignatureValid:  true,
	})
	if err != nil {
		log.Printf("payment webhook event persist failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "event persist failed"})
	}
	if !created {
		return c.JSON(fiber.Map{"received": true, "duplicate": true})
	}

	procErr := svc.HandlePaymentEvent(ctx, event)
	if err := svc.MarkWebhookProcessed(ctx, stored.ID, procErr); err != nil {
		log.Printf("payment webhook event %d mark processed failed: %v", stored.ID, err)
	}
	if procErr != nil {
		log.Printf("payment webhook event %s (%s) processing error: %v", event.ID, event.Type, procErr)
	}

	return c.JSON(fiber.Map{"received": true})
}

// HandleIdentityWebhook receives user lifecycle events from the identity
// provider and mirrors them into the local user table.
func HandleIdentityWebhook(c *fiber.Ctx) error {
	payload := append([]byte(nil), c.BodyRaw()...)

	msgID := firstHeaderValue(c, "webhook-id", "svix-id")
	timestamp := firstHeaderValue(c, "webhook-timestamp", "svix-timestamp")
	signature := firstHeaderValue(c, "webhook-signature", "svix-signature")

	secret := env.GetEnv("IDENTITY_WEBHOOK_SECRET", "")
	if err := identity.VerifyWebhookSignature(payload, msgID, timestamp, signature, secret, time.Now()); err != nil {
		log.Printf("identity webhook signature rejected: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid signature"})
	}

	event, err := identity.ParseEvent(payload)
	if err != nil {
		log.Printf("identity webhook payload rejected: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 15*time.Second)
	defer cancel()

	svc := purchases.NewServiceFromDB(database.GetDB(), nil, "")
	created, stored, err := svc.RecordWebhookEvent(ctx, purchases.WebhookEventInput{
		Provider:        models.WebhookProviderIdentity,
		ProviderEventID: msgID,
		EventType:       event.Type,
		PayloadJSON:     string(payload),
		SignatureValid:  true,
	})
	if err != nil {
		log.Printf("identity webhook event persist failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "event persist failed"})
	}
	if !created {
		return c.JSON(fiber.Map{"received": true, "duplicate": true})
	}

	procErr := applyIdentityEvent(event)
	if err := svc.MarkWebhookProcessed(ctx, stored.ID, procErr); err != nil {
		log.Printf("identity webhook event %d mark processed failed: %v", stored.ID, err)
	}
	if procErr != nil {
		log.Printf("identity webhook event %s (%s) processing error: %v", msgID, event.Type, procErr)
	}

	return c.JSON(fiber.Map{"received": true})
}

func applyIdentityEvent(event *identity.WebhookEvent) error {
	if !identity.IsUserEvent(event.Type) {
		return nil
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	switch event.Type {
	case identity.EventUserCreated:
		user := &models.User{
			ID:       event.Data.ID,
			Email:    event.Data.PrimaryEmail(),
			Name:     models.DisplayName(event.Data.FirstName, event.Data.LastName),
			ImageURL: event.Data.ImageURL,
			Resume:   "",
		}
		if err := user.Validate(); err != nil {
			return err
		}
		return repo.Upsert(user)
	case identity.EventUserUpdated:
		err := repo.UpdateProfile(
			event.Data.ID,
			event.Data.PrimaryEmail(),
			models.DisplayName(event.Data.FirstName, event.Data.LastName),
			event.Data.ImageURL,
		)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("update for unknown user " + event.Data.ID)
		}
		return err
	case identity.EventUserDeleted:
		return repo.Delete(event.Data.ID)
	}
	return nil
}
