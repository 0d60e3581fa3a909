package report

import (
	"math"
	"strconv"

	"github.com/trezcool/alama/core"
)

// Normalize filters raw records into typed courses. A record survives only if
// it has a non-empty (trimmed) course_title, a credits value that is numeric or
// a plain decimal string and >= 0, and a grade in the fixed grade set; failing
// records are silently dropped. Missing ids are synthesized as one more than
// the maximum id seen so far.
//
// Zero survivors means the payload was not course data at all; callers treat
// that as a decode failure, not an empty result.
func Normalize(records []RawRecord) []Course {
	courses := make([]Course, 0, len(records))
	var maxID int
	for _, rec := range records {
		title, _ := stringField(rec, "course_title")
		title = core.CleanString(title)
		if title == "" {
			continue
		}
		credits, ok := floatField(rec, "credits")
		if !ok || credits < 0 {
			continue
		}
		grade, _ := stringField(rec, "grade")
		if !KnownGrade(grade) {
			continue
		}

		c := Course{
			CourseTitle: title,
			Credits:     credits,
			Grade:       grade,
		}
		c.CourseCode, _ = stringField(rec, "course_code")
		c.CourseType, _ = stringField(rec, "course_type")
		c.CourseDistribution, _ = stringField(rec, "course_distribution")
		c.ExamMonth, _ = stringField(rec, "exam_month")
		if id, ok := intField(rec, "id"); ok {
			c.ID = id
		} else {
			c.ID = maxID + 1
		}
		if c.ID > maxID {
			maxID = c.ID
		}
		courses = append(courses, c)
	}
	return courses
}

// summaryFromRecord coerces the enclosing object fields of a full-report
// payload. The summary header is advisory: non-numeric values zero the field
// rather than failing the payload.
func summaryFromRecord(rec RawRecord) *StudentSummary {
	if len(rec) == 0 {
		return nil
	}
	s := &StudentSummary{}
	s.ID, _ = intField(rec, "id")
	s.CreditsRegistered, _ = floatField(rec, "credits_registered")
	s.CreditsEarned, _ = floatField(rec, "credits_earned")
	s.CGPA, _ = floatField(rec, "cgpa")
	return s
}

func stringField(rec RawRecord, key string) (string, bool) {
	v, ok := rec[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// floatField reads a numeric field, coercing decimal-formatted strings ("4.0").
func floatField(rec RawRecord, key string) (float64, bool) {
	switch v := rec[key].(type) {
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case int:
		return float64(v), true
	case string:
		if !numberRe.MatchString(v) {
			return 0, false
		}
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

func intField(rec RawRecord, key string) (int, bool) {
	f, ok := floatField(rec, key)
	if !ok {
		return 0, false
	}
	return int(f), true
}
