package repository

import (
	"gorm.io/gorm"

	"github.com/coursebay/coursebay/app/models"
)

// UserRepository defines the user directory operations. Writes originate
// from the identity webhook handler only.
type UserRepository interface {
	GetByID(id string) (*models.User, error)
	Upsert(user *models.User) error
	UpdateProfile(id, email, name, imageURL string) error
	Delete(id string) error
	IsEnrolled(userID string, courseID uint) (bool, error)
	EnrolledCourseIDs(userID string) ([]uint, error)
}

// CourseRepository defines catalog and rating operations.
type CourseRepository interface {
	GetByID(id uint) (*models.Course, error)
	GetPublishedByID(id uint) (*models.Course, error)
	ListPublished() ([]models.Course, error)
	UpsertRating(courseID uint, userID string, rating int) error
}

// PurchaseRepository defines read access to purchase records; all writes go
// through the purchases service.
type PurchaseRepository interface {
	GetByID(id string) (*models.Purchase, error)
	ListCompletedByUser(userID string) ([]models.Purchase, error)
}

// ProgressRepository defines per-user-per-course lecture completion.
type ProgressRepository interface {
	Get(userID string, courseID uint) (*models.CourseProgress, error)
	AddLecture(userID string, courseID uint, lectureID string) (alreadyCompleted bool, err error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User     UserRepository
	Course   CourseRepository
	Purchase PurchaseRepository
	Progress ProgressRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:     NewUserRepository(db),
		Course:   NewCourseRepository(db),
		Purchase: NewPurchaseRepository(db),
		Progress: NewProgressRepository(db),
	}
}
