package models

import "time"

// Enrollment links a user to a course they may access. The composite unique
// index is what makes enrollment writes replay-safe: a duplicate
// payment_intent.succeeded delivery upserts into the same row instead of
// appending a second reference.
type Enrollment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(64);not null;index:ux_enrollments_user_course,unique,priority:1" json:"user_id"`
	CourseID  uint      `gorm:"not null;index:ux_enrollments_user_course,unique,priority:2;index" json:"course_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
