package purchases

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/coursebay/coursebay/app/models"
	"github.com/coursebay/coursebay/internal/pkg/payments"
)

// fakeGateway records checkout calls and serves canned sessions for the
// payment-intent fallback lookup.
type fakeGateway struct {
	lastInput  payments.CheckoutSessionInput
	sessions   map[string]string // payment intent id -> purchase id
	checkedOut int
}

func (f *fakeGateway) CreateCheckoutSession(_ context.Context, in payments.CheckoutSessionInput) (*payments.CheckoutSession, error) {
	f.lastInput = in
	f.checkedOut++
	return &payments.CheckoutSession{
		ID:         "cs_test_1",
		URL:        "https://checkout.example.com/cs_test_1",
		PurchaseID: in.PurchaseID,
	}, nil
}

func (f *fakeGateway) FindSessionByPaymentIntent(_ context.Context, paymentIntentID string) (*payments.CheckoutSession, error) {
	purchaseID, ok := f.sessions[paymentIntentID]
	if !ok {
		return nil, payments.ErrSessionNotFound
	}
	return &payments.CheckoutSession{ID: "cs_test_1", PurchaseID: purchaseID}, nil
}

func (f *fakeGateway) VerifyEvent(payload []byte, signatureHeader string) (*payments.Event, error) {
	return nil, payments.ErrInvalidSignature
}

func newTestService(t *testing.T) (*Service, *fakeGateway, *gorm.DB) {
	t.Helper()

	// One named in-memory database per test; cache=shared keeps it alive
	// across the pooled connections.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Enrollment{},
		&models.Purchase{},
		&models.WebhookEvent{},
	))

	gateway := &fakeGateway{sessions: map[string]string{}}
	return NewService(NewRepository(db), gateway, "usd"), gateway, db
}

func seedUserAndCourse(t *testing.T, db *gorm.DB, price float64, discount int) (*models.User, *models.Course) {
	t.Helper()

	user := &models.User{ID: "user_1", Email: "student@example.com", Name: "Test Student"}
	require.NoError(t, db.Create(user).Error)

	course := &models.Course{
		CourseTitle: "Go From Scratch",
		CoursePrice: price,
		Discount:    discount,
		Published:   true,
	}
	require.NoError(t, db.Create(course).Error)
	return user, course
}

func countEnrollments(t *testing.T, db *gorm.DB, userID string, courseID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).Count(&n).Error)
	return n
}

func TestPurchaseCourse_FreeEnrollsImmediately(t *testing.T) {
	svc, gateway, db := newTestService(t)
	user, course := seedUserAndCourse(t, db, 0, 0)

	result, err := svc.PurchaseCourse(context.Background(), user.ID, course.ID, "https://app.example.com")
	require.NoError(t, err)

	assert.Equal(t, models.PurchaseStatusCompleted, result.Purchase.Status)
	assert.Equal(t, "https://app.example.com/loading/my-enrollments", result.Redirect)
	assert.Empty(t, result.SessionURL)
	assert.Zero(t, gateway.checkedOut)
	assert.EqualValues(t, 1, countEnrollments(t, db, user.ID, course.ID))

	// Buying the same free course twice must not duplicate the enrollment.
	_, err = svc.PurchaseCourse(context.Background(), user.ID, course.ID, "https://app.example.com")
	require.NoError(t, err)
	assert.EqualValues(t, 1, countEnrollments(t, db, user.ID, course.ID))
}

func TestPurchaseCourse_FullDiscountTakesFreePath(t *testing.T) {
	svc, gateway, db := newTestService(t)
	user, course := seedUserAndCourse(t, db, 49.99, 100)

	result, err := svc.PurchaseCourse(context.Background(), user.ID, course.ID, "https://app.example.com")
	require.NoError(t, err)

	assert.Equal(t, models.PurchaseStatusCompleted, result.Purchase.Status)
	assert.Zero(t, result.Purchase.Amount)
	assert.Zero(t, gateway.checkedOut)
}

func TestPurchaseCourse_PaidOpensCheckout(t *testing.T) {
	svc, gateway, db := newTestService(t)
	user, course := seedUserAndCourse(t, db, 100, 25)

	result, err := svc.PurchaseCourse(context.Background(), user.ID, course.ID, "https://app.example.com")
	require.NoError(t, err)

	assert.Equal(t, models.PurchaseStatusPending, result.Purchase.Status)
	assert.Equal(t, 75.0, result.Purchase.Amount)
	assert.Equal(t, "https://checkout.example.com/cs_test_1", result.SessionURL)
	assert.Empty(t, result.Redirect)

	assert.Equal(t, result.Purchase.ID, gateway.lastInput.PurchaseID)
	assert.EqualValues(t, 7500, gateway.lastInput.UnitAmount)
	assert.Equal(t, "usd", gateway.lastInput.Currency)

	// No enrollment until the provider confirms payment.
	assert.EqualValues(t, 0, countEnrollments(t, db, user.ID, course.ID))
}

func TestPurchaseCourse_UnknownCourseAndUser(t *testing.T) {
	svc, _, db := newTestService(t)
	user, course := seedUserAndCourse(t, db, 10, 0)

	_, err := svc.PurchaseCourse(context.Background(), user.ID, course.ID+999, "")
	assert.ErrorIs(t, err, ErrCourseNotFound)

	_, err = svc.PurchaseCourse(context.Background(), "user_missing", course.ID, "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPurchaseCourse_UnpublishedCourseRejected(t *testing.T) {
	svc, _, db := newTestService(t)
	user, _ := seedUserAndCourse(t, db, 10, 0)

	draft := &models.Course{CourseTitle: "Draft", CoursePrice: 10, Published: false}
	require.NoError(t, db.Create(draft).Error)

	_, err := svc.PurchaseCourse(context.Background(), user.ID, draft.ID, "")
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestHandlePaymentEvent_SucceededCompletesAndEnrolls(t *testing.T) {
	svc, _, db := newTestService(t)
	user, course := seedUserAndCourse(t, db, 100, 25)

	result, err := svc.PurchaseCourse(context.Background(), user.ID, course.ID, "")
	require.NoError(t, err)

	event := &payments.Event{
		ID:         "evt_1",
		Type:       payments.EventPaymentSucceeded,
		PurchaseID: result.Purchase.ID,
	}
	require.NoError(t, svc.HandlePaymentEvent(context.Background(), event))

	purchase, err := svc.VerifyPurchase(context.Background(), result.Purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseStatusCompleted, purchase.Status)
	assert.EqualValues(t, 1, countEnrollments(t, db, user.ID, course.ID))

	// Redelivery of the same success is a no-op, not an error.
	require.NoError(t, svc.HandlePaymentEvent(context.Background(), event))
	assert.EqualValues(t, 1, countEnrollments(t, db, user.ID, course.ID))
}

func TestHandlePaymentEvent_FailedLocksPurchase(t *testing.T) {
	svc, _, db := newTestService(t)
	user, course := seedUserAndCourse(t, db, 100, 0)

	result, err := svc.PurchaseCourse(context.Background(), user.ID, course.ID, "")
	require.NoError(t, err)

	failed := &payments.Event{
		ID:         "evt_2",
		Type:       payments.EventPaymentFailed,
		PurchaseID: result.Purchase.ID,
	}
	require.NoError(t, svc.HandlePaymentEvent(context.Background(), failed))

	purchase, err := svc.VerifyPurchase(context.Background(), result.Purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseStatusFailed, purchase.Status)

	// A late success for a failed purchase must not enroll.
	succeeded := &payments.Event{
		ID:         "evt_3",
		Type:       payments.EventPaymentSucceeded,
		PurchaseID: result.Purchase.ID,
	}
	err = svc.HandlePaymentEvent(context.Background(), succeeded)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.EqualValues(t, 0, countEnrollments(t, db, user.ID, course.ID))
}

func TestHandlePaymentEvent_SessionFallbackResolvesPurchase(t *testing.T) {
	svc, gateway, db := newTestService(t)
	user, course := seedUserAndCourse(t, db, 50, 0)

	result, err := svc.PurchaseCourse(context.Background(), user.ID, course.ID, "")
	require.NoError(t, err)
	gateway.sessions["pi_1"] = result.Purchase.ID

	event := &payments.Event{
		ID:              "evt_4",
		Type:            payments.EventPaymentSucceeded,
		PaymentIntentID: "pi_1",
	}
	require.NoError(t, svc.HandlePaymentEvent(context.Background(), event))

	purchase, err := svc.VerifyPurchase(context.Background(), result.Purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseStatusCompleted, purchase.Status)
}

func TestHandlePaymentEvent_UnresolvableEvent(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.HandlePaymentEvent(context.Background(), &payments.Event{
		ID:   "evt_5",
		Type: payments.EventPaymentSucceeded,
	})
	assert.Error(t, err)

	err = svc.HandlePaymentEvent(context.Background(), &payments.Event{
		ID:              "evt_6",
		Type:            payments.EventPaymentSucceeded,
		PaymentIntentID: "pi_unknown",
	})
	assert.Error(t, err)
}

func TestHandlePaymentEvent_UnknownTypeIgnored(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.HandlePaymentEvent(context.Background(), &payments.Event{
		ID:   "evt_7",
		Type: "charge.refunded",
	})
	assert.NoError(t, err)
}

func TestRecordWebhookEvent_Deduplicates(t *testing.T) {
	svc, _, _ := newTestService(t)

	in := WebhookEventInput{
		Provider:        models.WebhookProviderPayments,
		ProviderEventID: "evt_dup",
		EventType:       payments.EventPaymentSucceeded,
		PayloadJSON:     `{"id":"evt_dup"}`,
		SignatureValid:  true,
	}

	created, stored, err := svc.RecordWebhookEvent(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, stored)

	created, replay, err := svc.RecordWebhookEvent(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, stored.ID, replay.ID)
}

func TestRecordWebhookEvent_MissingEventIDKeyedByPayloadHash(t *testing.T) {
	svc, _, _ := newTestService(t)

	in := WebhookEventInput{
		Provider:       models.WebhookProviderIdentity,
		EventType:      "user.created",
		PayloadJSON:    `{"type":"user.created","data":{"id":"user_9"}}`,
		SignatureValid: true,
	}

	created, _, err := svc.RecordWebhookEvent(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, created)

	created, _, err = svc.RecordWebhookEvent(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestMarkWebhookProcessed(t *testing.T) {
	svc, _, db := newTestService(t)

	created, stored, err := svc.RecordWebhookEvent(context.Background(), WebhookEventInput{
		Provider:        models.WebhookProviderPayments,
		ProviderEventID: "evt_proc",
		EventType:       payments.EventPaymentFailed,
		PayloadJSON:     "{}",
		SignatureValid:  true,
	})
	require.NoError(t, err)
	require.True(t, created)

	require.NoError(t, svc.MarkWebhookProcessed(context.Background(), stored.ID, assert.AnError))

	var reloaded models.WebhookEvent
	require.NoError(t, db.First(&reloaded, stored.ID).Error)
	require.NotNil(t, reloaded.ProcessedAt)
	assert.Equal(t, assert.AnError.Error(), reloaded.ProcessingError)
}
