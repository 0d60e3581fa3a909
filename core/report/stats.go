package report

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrFormat indicates an exam_month label that does not parse as "Mon-Year";
// it usually means the upstream month-label format changed.
var ErrFormat = errors.New("unrecognized exam month label")

// WeightedAverage computes Σ(points × credits) / Σ(credits) over the graded
// courses. P-graded courses are excluded entirely; an empty graded set returns
// 0 ("no graded courses yet" is a defined state, not an error).
func WeightedAverage(courses []Course) float64 {
	var points, credits float64
	for _, c := range courses {
		if c.Grade == GradeP {
			continue
		}
		points += GradePoints(c.Grade) * c.Credits
		credits += c.Credits
	}
	if credits == 0 {
		return 0
	}
	return points / credits
}

// semesterKey parses a "Mon-Year" label into a comparable (year, month) pair.
func semesterKey(label string) (year, month int, err error) {
	parts := strings.SplitN(label, "-", 2)
	if len(parts) != 2 {
		return 0, 0, errors.Wrapf(ErrFormat, "label %q", label)
	}
	month, ok := monthIndex[canonicalMonth(parts[0])]
	if !ok {
		return 0, 0, errors.Wrapf(ErrFormat, "label %q", label)
	}
	year, aerr := strconv.Atoi(strings.TrimSpace(parts[1]))
	if aerr != nil {
		return 0, 0, errors.Wrapf(ErrFormat, "label %q", label)
	}
	return year, month, nil
}

func canonicalMonth(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// GroupBySemester partitions courses by exam_month and sorts the groups
// chronologically by (year, month) — lexical sort of the labels is wrong across
// multi-year data. Courses without a label gather under UnscheduledLabel,
// sorted last. Each group carries its own weighted-average GPA.
func GroupBySemester(courses []Course) ([]SemesterGroup, error) {
	type keyed struct {
		group       SemesterGroup
		year, month int
		unscheduled bool
	}

	index := make(map[string]int)
	var groups []*keyed
	for _, c := range courses {
		label := c.ExamMonth
		unscheduled := label == ""
		if unscheduled {
			label = UnscheduledLabel
		}
		i, ok := index[label]
		if !ok {
			k := &keyed{group: SemesterGroup{Label: label}, unscheduled: unscheduled}
			if !unscheduled {
				year, month, err := semesterKey(label)
				if err != nil {
					return nil, err
				}
				k.year, k.month = year, month
			}
			index[label] = len(groups)
			i = len(groups)
			groups = append(groups, k)
		}
		groups[i].group.Courses = append(groups[i].group.Courses, c)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.unscheduled != b.unscheduled {
			return b.unscheduled
		}
		if a.year != b.year {
			return a.year < b.year
		}
		return a.month < b.month
	})

	out := make([]SemesterGroup, len(groups))
	for i, k := range groups {
		k.group.GPA = WeightedAverage(k.group.Courses)
		out[i] = k.group
	}
	return out, nil
}

// SemesterMean is the plain mean of per-semester GPAs over groups that hold at
// least one graded (non-P) course. Distinct from the CGPA by design.
func SemesterMean(groups []SemesterGroup) float64 {
	var sum float64
	var n int
	for _, g := range groups {
		if !hasGraded(g.Courses) {
			continue
		}
		sum += g.GPA
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func hasGraded(courses []Course) bool {
	for _, c := range courses {
		if c.Grade != GradeP {
			return true
		}
	}
	return false
}

// Round2 rounds to 2 decimal places. Applied at the presentation boundary
// only; internal computation keeps full precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
