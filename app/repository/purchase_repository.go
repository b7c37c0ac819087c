package repository

import (
	"gorm.io/gorm"

	"github.com/coursebay/coursebay/app/models"
)

// purchaseRepository implements the PurchaseRepository interface
type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository creates a new purchase repository instance
func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

// GetByID retrieves a purchase record
func (r *purchaseRepository) GetByID(id string) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.db.Where("id = ?", id).First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// ListCompletedByUser returns the user's completed purchases with the course
// summary embedded, newest first
func (r *purchaseRepository) ListCompletedByUser(userID string) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := r.db.Preload("Course").
		Where("user_id = ? AND status = ?", userID, models.PurchaseStatusCompleted).
		Order("created_at DESC").
		Find(&purchases).Error
	return purchases, err
}
