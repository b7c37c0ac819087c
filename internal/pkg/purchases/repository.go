package purchases

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coursebay/coursebay/app/models"
)

// Repository provides DB operations used by the purchase service.
type Repository interface {
	GetPublishedCourse(id uint) (*models.Course, error)
	GetUser(id string) (*models.User, error)
	CreatePurchase(p *models.Purchase) error
	GetPurchase(id string) (*models.Purchase, error)
	CompletePurchase(id string) (*models.Purchase, error)
	FailPurchase(id string) (*models.Purchase, error)
	CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error)
	MarkWebhookProcessed(id uint, processingError string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a purchase repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetPublishedCourse(id uint) (*models.Course, error) {
	var course models.Course
	err := r.db.Where("id = ? AND published = ?", id, true).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *gormRepository) GetUser(id string) (*models.User, error) {
	var user models.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) CreatePurchase(p *models.Purchase) error {
	return r.db.Create(p).Error
}

func (r *gormRepository) GetPurchase(id string) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.db.Where("id = ?", id).First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// CompletePurchase applies the purchase/enrollment finalization as one
// transactional unit keyed by purchase id: guarded status transition plus
// both enrollment directions. Replays against an already-completed purchase
// re-upsert the enrollment row and succeed without side effects.
func (r *gormRepository) CompletePurchase(id string) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&purchase).Error; err != nil {
			return err
		}

		if purchase.Status != models.PurchaseStatusCompleted {
			if !models.CanTransitionPurchaseStatus(purchase.Status, models.PurchaseStatusCompleted) {
				return ErrInvalidTransition
			}
			if err := tx.Model(&purchase).Update("status", models.PurchaseStatusCompleted).Error; err != nil {
				return err
			}
			purchase.Status = models.PurchaseStatusCompleted
		}

		return upsertEnrollment(tx, purchase.UserID, purchase.CourseID)
	})
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// FailPurchase marks a pending purchase as failed. Enrollment is never
// touched on this path.
func (r *gormRepository) FailPurchase(id string) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&purchase).Error; err != nil {
			return err
		}
		if purchase.Status == models.PurchaseStatusFailed {
			return nil
		}
		if !models.CanTransitionPurchaseStatus(purchase.Status, models.PurchaseStatusFailed) {
			return ErrInvalidTransition
		}
		if err := tx.Model(&purchase).Update("status", models.PurchaseStatusFailed).Error; err != nil {
			return err
		}
		purchase.Status = models.PurchaseStatusFailed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func upsertEnrollment(tx *gorm.DB, userID string, courseID uint) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "course_id"},
		},
		DoNothing: true,
	}).Create(&models.Enrollment{UserID: userID, CourseID: courseID}).Error
}

func (r *gormRepository) CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_event_id"},
		},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.WebhookEvent
	if err := r.db.Where("provider = ? AND provider_event_id = ?", event.Provider, event.ProviderEventID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkWebhookProcessed(id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.Model(&models.WebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}
