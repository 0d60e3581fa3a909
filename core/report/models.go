package report

// Grade symbols accepted from the upstream app.
const (
	GradeS = "S"
	GradeA = "A"
	GradeB = "B"
	GradeC = "C"
	GradeD = "D"
	GradeE = "E"
	GradeF = "F"
	GradeP = "P" // non-graded pass credit
)

// UnscheduledLabel groups courses that carry no exam_month.
const UnscheduledLabel = "Unscheduled"

var (
	// gradePoints maps a grade symbol to its quality points.
	// P is listed for completeness but never enters an average: it marks
	// credit earned without a quality point contribution.
	gradePoints = map[string]float64{
		GradeS: 10,
		GradeA: 9,
		GradeB: 8,
		GradeC: 7,
		GradeD: 6,
		GradeE: 5,
		GradeF: 0,
		GradeP: 0,
	}

	// monthIndex is a closed lookup so semester sorting stays deterministic;
	// no locale-aware date parsing.
	monthIndex = map[string]int{
		"Jan": 0, "Feb": 1, "Mar": 2, "Apr": 3, "May": 4, "Jun": 5,
		"Jul": 6, "Aug": 7, "Sep": 8, "Oct": 9, "Nov": 10, "Dec": 11,
	}
)

// GradePoints returns the quality points for a grade symbol; 0 for unknown grades.
func GradePoints(grade string) float64 {
	return gradePoints[grade]
}

// KnownGrade reports whether grade belongs to the fixed grade set.
func KnownGrade(grade string) bool {
	_, ok := gradePoints[grade]
	return ok
}

// RawRecord is an untyped record as produced by the parser, before validation.
type RawRecord map[string]interface{}

// Document is the parsed form of a decoded payload: the raw course records plus
// any enclosing summary fields when the payload was an object rather than a bare array.
type Document struct {
	Records []RawRecord
	Summary RawRecord
}

// Course is one validated academic course record.
type Course struct {
	ID                 int     `json:"id"`
	CourseCode         string  `json:"course_code,omitempty"`
	CourseTitle        string  `json:"course_title"`
	CourseType         string  `json:"course_type,omitempty"`
	CourseDistribution string  `json:"course_distribution,omitempty"`
	Credits            float64 `json:"credits"`
	Grade              string  `json:"grade"`
	ExamMonth          string  `json:"exam_month,omitempty"`
}

// StudentSummary is the optional enclosing record of a full-report payload.
type StudentSummary struct {
	ID                int     `json:"id,omitempty"`
	CreditsRegistered float64 `json:"credits_registered"`
	CreditsEarned     float64 `json:"credits_earned"`
	CGPA              float64 `json:"cgpa"`
}

// SemesterGroup holds the courses of one exam session and their GPA.
type SemesterGroup struct {
	Label   string   `json:"label"`
	Courses []Course `json:"courses"`
	GPA     float64  `json:"gpa"`
}

// Report is the full computed result for one decoded payload.
// CGPA and SemesterMean are intentionally different statistics: the first is
// the weighted average over all graded courses, the second the plain mean of
// per-semester GPAs. Callers display both.
type Report struct {
	Summary      *StudentSummary `json:"summary,omitempty"`
	Courses      []Course        `json:"courses"`
	Semesters    []SemesterGroup `json:"semesters"`
	CGPA         float64         `json:"cgpa"`
	SemesterMean float64         `json:"semester_mean"`
	Dropped      int             `json:"dropped,omitempty"`
}
