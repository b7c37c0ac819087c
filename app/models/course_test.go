package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

const sampleContent = `[
	{
		"chapter_id": "ch_1",
		"chapter_title": "Basics",
		"chapter_content": [
			{"lecture_id": "lec_1", "lecture_title": "Intro", "lecture_duration": 10, "is_preview_free": true},
			{"lecture_id": "lec_2", "lecture_title": "Setup", "lecture_duration": 20}
		]
	},
	{
		"chapter_id": "ch_2",
		"chapter_title": "Advanced",
		"chapter_content": [
			{"lecture_id": "lec_3", "lecture_title": "Deep Dive", "lecture_duration": 45}
		]
	}
]`

func TestCourseChapters(t *testing.T) {
	course := &Course{CourseContent: datatypes.JSON(sampleContent)}

	chapters, err := course.Chapters()
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, "Basics", chapters[0].ChapterTitle)
	assert.Len(t, chapters[0].Lectures, 2)
	assert.True(t, chapters[0].Lectures[0].IsPreviewFree)

	empty := &Course{}
	chapters, err = empty.Chapters()
	require.NoError(t, err)
	assert.Empty(t, chapters)
}

func TestCourseHasLecture(t *testing.T) {
	course := &Course{CourseContent: datatypes.JSON(sampleContent)}

	assert.True(t, course.HasLecture("lec_1"))
	assert.True(t, course.HasLecture("lec_3"))
	assert.False(t, course.HasLecture("lec_99"))

	// Courses without structured content accept any lecture id.
	legacy := &Course{}
	assert.True(t, legacy.HasLecture("anything"))

	broken := &Course{CourseContent: datatypes.JSON(`not json`)}
	assert.True(t, broken.HasLecture("anything"))
}

func TestCourseValidate(t *testing.T) {
	valid := &Course{CourseTitle: "Go From Scratch", CoursePrice: 19.99, Discount: 10}
	assert.NoError(t, valid.Validate())

	assert.Error(t, (&Course{CoursePrice: 10}).Validate())
	assert.Error(t, (&Course{CourseTitle: "X", Discount: 120}).Validate())
	assert.Error(t, (&Course{CourseTitle: "X", CoursePrice: -1}).Validate())
}
