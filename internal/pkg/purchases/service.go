package purchases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/coursebay/coursebay/app/models"
	"github.com/coursebay/coursebay/internal/pkg/payments"
)

// Service orchestrates course purchases and applies payment webhook events.
type Service struct {
	repo     Repository
	gateway  payments.Gateway
	currency string
}

// NewService creates a purchase service from injected collaborators.
func NewService(repo Repository, gateway payments.Gateway, currency string) *Service {
	if currency == "" {
		currency = "usd"
	}
	return &Service{repo: repo, gateway: gateway, currency: currency}
}

// NewServiceFromDB creates a purchase service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, gateway payments.Gateway, currency string) *Service {
	return NewService(NewRepository(db), gateway, currency)
}

// PurchaseCourse validates the course, records the purchase attempt and
// either enrolls immediately (free course) or opens a provider checkout
// session. Enrollment on the paid path only ever happens through the
// webhook-driven finalization.
func (s *Service) PurchaseCourse(ctx context.Context, userID string, courseID uint, origin string) (*Result, error) {
	course, err := s.repo.GetPublishedCourse(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if _, err := s.repo.GetUser(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	finalAmount := FinalAmount(course.CoursePrice, course.Discount)
	purchase := &models.Purchase{
		CourseID: course.ID,
		UserID:   userID,
		Amount:   finalAmount,
		Status:   models.PurchaseStatusPending,
	}
	if err := s.repo.CreatePurchase(purchase); err != nil {
		return nil, err
	}

	if IsFree(course.CoursePrice, finalAmount) {
		completed, err := s.repo.CompletePurchase(purchase.ID)
		if err != nil {
			return nil, err
		}
		return &Result{
			Purchase: completed,
			Redirect: strings.TrimRight(origin, "/") + "/loading/my-enrollments",
		}, nil
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payments.CheckoutSessionInput{
		PurchaseID:  purchase.ID,
		CourseTitle: course.CourseTitle,
		Currency:    s.currency,
		UnitAmount:  MinorUnits(finalAmount),
		SuccessURL:  strings.TrimRight(origin, "/") + "/loading/my-enrollments",
		CancelURL:   strings.TrimRight(origin, "/") + "/",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return &Result{
		Purchase:   purchase,
		SessionURL: session.URL,
	}, nil
}

// VerifyPurchase loads a purchase record by id.
func (s *Service) VerifyPurchase(ctx context.Context, purchaseID string) (*models.Purchase, error) {
	_ = ctx
	purchase, err := s.repo.GetPurchase(strings.TrimSpace(purchaseID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, err
	}
	return purchase, nil
}

// RecordWebhookEvent persists webhook payloads idempotently. Deliveries
// without a provider event id are keyed by a payload hash.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.WebhookEvent, error) {
	_ = ctx
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if provider == "" {
		return false, nil, errors.New("provider is required")
	}
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.WebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		PayloadJSON:     in.PayloadJSON,
		SignatureValid:  in.SignatureValid,
	}
	return s.repo.CreateWebhookEventIfNotExists(event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	_ = ctx
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(webhookEventID, errMsg)
}

// HandlePaymentEvent applies a verified provider event to the purchase it
// refers to. The returned error is recorded on the stored webhook event; the
// HTTP handler still acknowledges the delivery so the provider does not
// retry events whose business effect already happened or does not apply.
func (s *Service) HandlePaymentEvent(ctx context.Context, event *payments.Event) error {
	purchaseID, err := s.resolvePurchaseID(ctx, event)
	if err != nil {
		return err
	}

	switch event.Type {
	case payments.EventPaymentSucceeded:
		if _, err := s.repo.CompletePurchase(purchaseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrPurchaseNotFound, purchaseID)
			}
			return err
		}
		return nil
	case payments.EventPaymentFailed:
		if _, err := s.repo.FailPurchase(purchaseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrPurchaseNotFound, purchaseID)
			}
			return err
		}
		return nil
	default:
		return nil
	}
}

// resolvePurchaseID prefers the id embedded in the payment intent metadata
// and falls back to the provider's session list. The fallback is fragile
// (eventual consistency, rate limits), which is why every failure here ends
// up in the webhook event's processing_error instead of being swallowed.
func (s *Service) resolvePurchaseID(ctx context.Context, event *payments.Event) (string, error) {
	if event.PurchaseID != "" {
		return event.PurchaseID, nil
	}
	if event.PaymentIntentID == "" {
		return "", errors.New("event carries neither purchase id nor payment intent id")
	}
	session, err := s.gateway.FindSessionByPaymentIntent(ctx, event.PaymentIntentID)
	if err != nil {
		if errors.Is(err, payments.ErrSessionNotFound) {
			return "", fmt.Errorf("no checkout session for payment intent %s", event.PaymentIntentID)
		}
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if session.PurchaseID == "" {
		return "", fmt.Errorf("checkout session %s has no purchase id metadata", session.ID)
	}
	return session.PurchaseID, nil
}
