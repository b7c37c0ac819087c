package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coursebay/coursebay/app/models"
)

// progressRepository implements the ProgressRepository interface
type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository creates a new progress repository instance
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

// Get returns the progress record with its completed lectures, or
// gorm.ErrRecordNotFound if the user never tracked progress in this course
func (r *progressRepository) Get(userID string, courseID uint) (*models.CourseProgress, error) {
	var progress models.CourseProgress
	err := r.db.Preload("Lectures").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// AddLecture marks a lecture complete. The progress row and the lecture row
// are both set-semantic inserts, so replays report alreadyCompleted instead
// of growing the set.
func (r *progressRepository) AddLecture(userID string, courseID uint, lectureID string) (bool, error) {
	progress := models.CourseProgress{UserID: userID, CourseID: courseID}
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "course_id"},
		},
		DoNothing: true,
	}).Create(&progress).Error
	if err != nil {
		return false, err
	}
	if progress.ID == 0 {
		// Conflict path: the row existed already.
		if err := r.db.Where("user_id = ? AND course_id = ?", userID, courseID).
			First(&progress).Error; err != nil {
			return false, err
		}
	}

	res := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "course_progress_id"},
			{Name: "lecture_id"},
		},
		DoNothing: true,
	}).Create(&models.CourseProgressLecture{
		CourseProgressID: progress.ID,
		LectureID:        lectureID,
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 0, nil
}

// IsNotFound reports whether err means "no record yet"
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
