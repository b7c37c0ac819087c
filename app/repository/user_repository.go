package repository

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coursebay/coursebay/app/models"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByID retrieves a user by their provider-issued ID
func (r *userRepository) GetByID(id string) (*models.User, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var user models.User
	err := r.db.Where("id = ?", trimmed).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Upsert inserts the user or refreshes the mutable profile fields if the id
// already exists, which makes replayed user.created deliveries harmless.
func (r *userRepository) Upsert(user *models.User) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email",
			"name",
			"image_url",
			"updated_at",
		}),
	}).Create(user).Error
}

// UpdateProfile overwrites the provider-owned profile fields. A missing id
// surfaces as gorm.ErrRecordNotFound so the caller can record the no-op.
func (r *userRepository) UpdateProfile(id, email, name, imageURL string) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"email":     email,
		"name":      name,
		"image_url": imageURL,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the user record by id
func (r *userRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.User{}).Error
}

// IsEnrolled reports whether the user holds an enrollment row for the course
func (r *userRepository) IsEnrolled(userID string, courseID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

// EnrolledCourseIDs returns the ids of all courses the user is enrolled in
func (r *userRepository) EnrolledCourseIDs(userID string) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Enrollment{}).
		Where("user_id = ?", userID).
		Order("created_at").
		Pluck("course_id", &ids).Error
	return ids, err
}
