package models

import "time"

const (
	RatingMin = 1
	RatingMax = 5
)

// CourseRating holds at most one rating per (course, user); submissions
// replace the previous value via upsert.
type CourseRating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"not null;index:ux_course_ratings_course_user,unique,priority:1" json:"course_id"`
	UserID    string    `gorm:"type:varchar(64);not null;index:ux_course_ratings_course_user,unique,priority:2" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating" validate:"gte=1,lte=5"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsValidRating reports whether a submitted rating is inside the 1..5 range.
func IsValidRating(rating int) bool {
	return rating >= RatingMin && rating <= RatingMax
}
