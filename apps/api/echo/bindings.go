package echoapi

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/report"
)

type (
	// DecodeRequest carries the opaque payload, via query param or JSON body.
	DecodeRequest struct {
		Data  string `json:"data" query:"data" form:"data" validate:"required"`
		Plain bool   `json:"plain" query:"plain" form:"plain"`
	}

	// CourseInput is the manual-entry course shape. The legacy minimal shape
	// (title, credits, grade) binds too: the other fields are optional.
	CourseInput struct {
		ID                 int     `json:"id"`
		CourseCode         string  `json:"course_code"`
		CourseTitle        string  `json:"course_title" validate:"required"`
		CourseType         string  `json:"course_type"`
		CourseDistribution string  `json:"course_distribution"`
		Credits            float64 `json:"credits" validate:"min=0"`
		Grade              string  `json:"grade" validate:"required,grade"`
		ExamMonth          string  `json:"exam_month" validate:"omitempty,exammonth"`
	}

	SummaryInput struct {
		ID                int     `json:"id"`
		CreditsRegistered float64 `json:"credits_registered" validate:"min=0"`
		CreditsEarned     float64 `json:"credits_earned" validate:"min=0"`
		CGPA              float64 `json:"cgpa" validate:"min=0,max=10"`
	}

	// EncodeRequest is the export surface: courses to wrap into a payload.
	EncodeRequest struct {
		Courses []CourseInput `json:"courses" validate:"required,min=1,dive"`
		Summary *SummaryInput `json:"summary"`
	}
)

func (r *DecodeRequest) Validate(validate *validator.Validate) error {
	r.Data = core.CleanString(r.Data)
	return validate.Struct(r)
}

func (r *EncodeRequest) Validate(validate *validator.Validate) error {
	for i := range r.Courses {
		r.Courses[i].clean()
	}
	return validate.Struct(r)
}

func (c *CourseInput) clean() {
	c.CourseTitle = core.CleanString(c.CourseTitle)
	c.Grade = core.CleanString(c.Grade)
	c.ExamMonth = core.CleanString(c.ExamMonth)
}

func (c *CourseInput) course() report.Course {
	return report.Course{
		ID:                 c.ID,
		CourseCode:         c.CourseCode,
		CourseTitle:        c.CourseTitle,
		CourseType:         c.CourseType,
		CourseDistribution: c.CourseDistribution,
		Credits:            c.Credits,
		Grade:              c.Grade,
		ExamMonth:          c.ExamMonth,
	}
}

// courses converts validated inputs, synthesizing missing ids like the
// normalizer does.
func toCourses(inputs []CourseInput) []report.Course {
	courses := make([]report.Course, 0, len(inputs))
	var maxID int
	for i := range inputs {
		c := inputs[i].course()
		if c.ID == 0 {
			c.ID = maxID + 1
		}
		if c.ID > maxID {
			maxID = c.ID
		}
		courses = append(courses, c)
	}
	return courses
}
