package models

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

// Course is a catalog entry. Enrollment and ratings live in their own tables
// so webhook-driven writes stay idempotent (see Enrollment, CourseRating).
type Course struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	CourseTitle       string         `gorm:"type:varchar(200);not null" json:"course_title" validate:"required,max=200"`
	CourseDescription string         `gorm:"type:text" json:"course_description"`
	CoursePrice       float64        `gorm:"type:decimal(10,2);not null;default:0" json:"course_price" validate:"gte=0"`
	Discount          int            `gorm:"not null;default:0" json:"discount" validate:"gte=0,lte=100"`
	CourseImage       string         `gorm:"type:varchar(255)" json:"course_image"`
	Published         bool           `gorm:"default:false;index" json:"published"`
	CourseContent     datatypes.JSON `gorm:"type:json" json:"course_content,omitempty"`
	Ratings           []CourseRating `gorm:"foreignKey:CourseID" json:"course_ratings,omitempty"`
	Enrollments       []Enrollment   `gorm:"foreignKey:CourseID" json:"-"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Course) Validate() error {
	v := validator.New()

	return v.Struct(c)
}

// Chapter is the JSON shape stored in Course.CourseContent.
type Chapter struct {
	ChapterID    string    `json:"chapter_id"`
	ChapterTitle string    `json:"chapter_title"`
	Lectures     []Lecture `json:"chapter_content"`
}

type Lecture struct {
	LectureID       string `json:"lecture_id"`
	LectureTitle    string `json:"lecture_title"`
	LectureDuration int    `json:"lecture_duration"`
	LectureURL      string `json:"lecture_url"`
	IsPreviewFree   bool   `json:"is_preview_free"`
}

// Chapters decodes the stored course content. An empty column yields an
// empty slice, not an error.
func (c *Course) Chapters() ([]Chapter, error) {
	if len(c.CourseContent) == 0 {
		return nil, nil
	}
	var chapters []Chapter
	if err := json.Unmarshal(c.CourseContent, &chapters); err != nil {
		return nil, err
	}
	return chapters, nil
}

// HasLecture reports whether the given lecture id exists in the course
// content. Courses without structured content accept any lecture id so
// progress tracking keeps working for legacy rows.
func (c *Course) HasLecture(lectureID string) bool {
	chapters, err := c.Chapters()
	if err != nil || len(chapters) == 0 {
		return true
	}
	for _, ch := range chapters {
		for _, lec := range ch.Lectures {
			if lec.LectureID == lectureID {
				return true
			}
		}
	}
	return false
}
