package models

import "time"

// CourseProgress tracks which lectures a user has completed in a course.
// Completed lectures are rows with a unique (progress, lecture) index so the
// add operation is a set insert, never a duplicating append.
type CourseProgress struct {
	ID        uint                    `gorm:"primaryKey" json:"id"`
	UserID    string                  `gorm:"type:varchar(64);not null;index:ux_course_progress_user_course,unique,priority:1" json:"user_id"`
	CourseID  uint                    `gorm:"not null;index:ux_course_progress_user_course,unique,priority:2" json:"course_id"`
	Lectures  []CourseProgressLecture `gorm:"foreignKey:CourseProgressID" json:"-"`
	CreatedAt time.Time               `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time               `gorm:"autoUpdateTime" json:"updated_at"`
}

type CourseProgressLecture struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	CourseProgressID uint      `gorm:"not null;index:ux_progress_lectures,unique,priority:1" json:"-"`
	LectureID        string    `gorm:"type:varchar(64);not null;index:ux_progress_lectures,unique,priority:2" json:"lecture_id"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"completed_at"`
}

// LectureCompleted reports whether the lecture id is already in the
// completed set. Callers must have preloaded Lectures.
func (p *CourseProgress) LectureCompleted(lectureID string) bool {
	for _, l := range p.Lectures {
		if l.LectureID == lectureID {
			return true
		}
	}
	return false
}

// LectureIDs returns the completed lecture ids in insertion order.
func (p *CourseProgress) LectureIDs() []string {
	ids := make([]string, 0, len(p.Lectures))
	for _, l := range p.Lectures {
		ids = append(ids, l.LectureID)
	}
	return ids
}
