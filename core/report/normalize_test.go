package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Run("coercion and trimming", func(t *testing.T) {
		courses := Normalize([]RawRecord{
			{"course_title": "  Algebra \n", "credits": "4.0", "grade": "A", "course_code": "MAT101", "exam_month": "Jan-2024"},
		})
		if !assert.Len(t, courses, 1) {
			t.FailNow()
		}
		c := courses[0]
		assert.Equal(t, "Algebra", c.CourseTitle)
		assert.Equal(t, float64(4), c.Credits)
		assert.Equal(t, "A", c.Grade)
		assert.Equal(t, "MAT101", c.CourseCode)
		assert.Equal(t, "Jan-2024", c.ExamMonth)
	})

	t.Run("invalid records dropped, siblings survive", func(t *testing.T) {
		courses := Normalize([]RawRecord{
			{"course_title": "Keep Me", "credits": 3.0, "grade": "B"},
			{"course_title": "Unknown Grade", "credits": 3.0, "grade": "X"},
			{"course_title": "", "credits": 3.0, "grade": "A"},
			{"course_title": "No Credits", "grade": "A"},
			{"course_title": "Bad Credits", "credits": "lots", "grade": "A"},
			{"course_title": "Negative Credits", "credits": -1.0, "grade": "A"},
			{"course_title": "Lowercase grade", "credits": 3.0, "grade": "a"},
			{"course_title": "Pass Is Fine", "credits": 2.0, "grade": "P"},
		})
		titles := make([]string, len(courses))
		for i, c := range courses {
			titles[i] = c.CourseTitle
		}
		assert.Equal(t, []string{"Keep Me", "Pass Is Fine"}, titles)
	})

	t.Run("id synthesis", func(t *testing.T) {
		courses := Normalize([]RawRecord{
			{"course_title": "A", "credits": 1.0, "grade": "A"},
			{"course_title": "B", "credits": 1.0, "grade": "A", "id": 7.0},
			{"course_title": "C", "credits": 1.0, "grade": "A"},
		})
		if !assert.Len(t, courses, 3) {
			t.FailNow()
		}
		assert.Equal(t, 1, courses[0].ID)
		assert.Equal(t, 7, courses[1].ID)
		assert.Equal(t, 8, courses[2].ID) // one past the max seen
	})

	t.Run("empty in, empty out", func(t *testing.T) {
		assert.Empty(t, Normalize(nil))
	})
}

func Test_summaryFromRecord(t *testing.T) {
	assert.Nil(t, summaryFromRecord(nil))

	s := summaryFromRecord(RawRecord{
		"id":                 42.0,
		"credits_registered": "120.0",
		"credits_earned":     118.0,
		"cgpa":               "8.9",
		"extra":              "ignored",
	})
	if !assert.NotNil(t, s) {
		t.FailNow()
	}
	assert.Equal(t, 42, s.ID)
	assert.Equal(t, float64(120), s.CreditsRegistered)
	assert.Equal(t, float64(118), s.CreditsEarned)
	assert.Equal(t, 8.9, s.CGPA)

	// header is advisory: junk zeroes the field, never fails
	s = summaryFromRecord(RawRecord{"cgpa": "lol"})
	assert.Equal(t, float64(0), s.CGPA)
}
