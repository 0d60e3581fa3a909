package testutil

import (
	"encoding/json"
	"testing"

	"github.com/trezcool/alama/core/report"
)

// Course builds a minimal valid course fixture.
func Course(id int, title string, credits float64, grade, examMonth string) report.Course {
	return report.Course{
		ID:          id,
		CourseTitle: title,
		Credits:     credits,
		Grade:       grade,
		ExamMonth:   examMonth,
	}
}

// EncodePayload marshals v and wraps it in the transport encoding.
func EncodePayload(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("EncodePayload() failed: %v", err)
	}
	return EncodeText(t, string(data))
}

// EncodeText wraps raw payload text in the transport encoding; useful for
// feeding the parser near-JSON dialects.
func EncodeText(t *testing.T, text string) string {
	t.Helper()
	encoded, err := report.EncodeTransport([]byte(text))
	if err != nil {
		t.Fatalf("EncodeText() failed: %v", err)
	}
	return encoded
}
