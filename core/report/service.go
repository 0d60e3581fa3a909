package report

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// ErrNoValidCourses indicates that parsing succeeded structurally but zero
// records passed validation — the payload was not course data at all.
var ErrNoValidCourses = errors.New("no valid courses found")

// Service turns encoded academic payloads into computed reports and back.
// It is pure and stateless; one instance serves concurrent requests.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Decode runs the full pipeline: transport decode, parse (with the salvage and
// extraction fallbacks retried whenever the current strategy validates to zero
// courses), normalization and aggregation.
func (svc *Service) Decode(encoded string) (*Report, error) {
	data, err := DecodeTransport(encoded)
	if err != nil {
		return nil, err
	}
	text := string(data)

	var (
		doc       *Document
		courses   []Course
		parsedAny bool
	)
	if d, ok := parseStrict(text); ok {
		parsedAny = true
		doc = d
		courses = Normalize(d.Records)
	}
	// strict success with nothing validatable still gets the salvage pass:
	// the share feature has been seen nesting the literal dialect inside
	// otherwise valid JSON
	if len(courses) == 0 {
		if d, ok := parseStrict(salvageText(text)); ok {
			parsedAny = true
			if c := Normalize(d.Records); len(c) > 0 {
				doc, courses = d, c
			}
		}
	}
	if len(courses) == 0 {
		if recs := extractCourses(text); len(recs) > 0 {
			parsedAny = true
			if c := Normalize(recs); len(c) > 0 {
				doc, courses = &Document{Records: recs}, c
			}
		}
	}
	if len(courses) == 0 {
		if parsedAny {
			return nil, ErrNoValidCourses
		}
		return nil, ErrParse
	}

	rep, err := svc.Summarize(courses)
	if err != nil {
		return nil, err
	}
	rep.Summary = summaryFromRecord(doc.Summary)
	rep.Dropped = len(doc.Records) - len(courses)
	return rep, nil
}

// Summarize aggregates already-validated courses: per-semester groups, overall
// CGPA and the mean of semester GPAs. Cheap enough to recompute on every edit.
func (svc *Service) Summarize(courses []Course) (*Report, error) {
	groups, err := GroupBySemester(courses)
	if err != nil {
		return nil, err
	}
	return &Report{
		Courses:      courses,
		Semesters:    groups,
		CGPA:         WeightedAverage(courses),
		SemesterMean: SemesterMean(groups),
	}, nil
}

// Encode is the reverse direction, used by the export surface: marshal the
// courses (wrapped in a summary object when one is given) and run the
// transport encoder.
func (svc *Service) Encode(courses []Course, summary *StudentSummary) (string, error) {
	var payload interface{} = courses
	if summary != nil {
		payload = struct {
			ID                int      `json:"id,omitempty"`
			CreditsRegistered float64  `json:"credits_registered"`
			CreditsEarned     float64  `json:"credits_earned"`
			CGPA              float64  `json:"cgpa"`
			Courses           []Course `json:"courses"`
		}{summary.ID, summary.CreditsRegistered, summary.CreditsEarned, summary.CGPA, courses}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "marshaling courses")
	}
	return EncodeTransport(data)
}
