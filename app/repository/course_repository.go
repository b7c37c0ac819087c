package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coursebay/coursebay/app/models"
)

// courseRepository implements the CourseRepository interface
type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new course repository instance
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

// GetByID retrieves a course regardless of publication state
func (r *courseRepository) GetByID(id uint) (*models.Course, error) {
	var course models.Course
	err := r.db.First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// GetPublishedByID retrieves a published course with its ratings
func (r *courseRepository) GetPublishedByID(id uint) (*models.Course, error) {
	var course models.Course
	err := r.db.Preload("Ratings").
		Where("id = ? AND published = ?", id, true).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// ListPublished returns the public catalog, newest first
func (r *courseRepository) ListPublished() ([]models.Course, error) {
	var courses []models.Course
	err := r.db.Preload("Ratings").
		Where("published = ?", true).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

// UpsertRating replaces the user's existing rating for the course or adds a
// new one; the composite unique index guarantees one rating per user.
func (r *courseRepository) UpsertRating(courseID uint, userID string, rating int) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "course_id"},
			{Name: "user_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
	}).Create(&models.CourseRating{
		CourseID: courseID,
		UserID:   userID,
		Rating:   rating,
	}).Error
}
