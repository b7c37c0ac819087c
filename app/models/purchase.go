package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusCompleted = "completed"
	PurchaseStatusFailed    = "failed"
)

// Purchase records one payment attempt for one (user, course) pair. The id is
// generated locally and embedded into the provider checkout session metadata,
// so webhook deliveries can always be keyed back to it.
type Purchase struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CourseID  uint      `gorm:"not null;index" json:"course_id"`
	Course    *Course   `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	UserID    string    `gorm:"type:varchar(64);not null;index" json:"user_id"`
	Amount    float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status    string    `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// IsTerminal reports whether the purchase has reached a final status.
func (p *Purchase) IsTerminal() bool {
	return p.Status == PurchaseStatusCompleted || p.Status == PurchaseStatusFailed
}

// CanTransitionPurchaseStatus validates the purchase state machine: pending
// may move to completed or failed, terminal states never move again.
func CanTransitionPurchaseStatus(from, to string) bool {
	switch from {
	case PurchaseStatusPending:
		return to == PurchaseStatusCompleted || to == PurchaseStatusFailed
	default:
		return false
	}
}
