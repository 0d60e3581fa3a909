package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/report"
)

type reportApi struct {
	svc      *report.Service
	validate *validator.Validate
}

func registerReportAPI(g *echo.Group, svc *report.Service, validate *validator.Validate) {
	api := reportApi{
		svc:      svc,
		validate: validate,
	}

	g.GET("/report", api.retrieve)
	g.POST("/report", api.retrieve)
	g.POST("/cgpa", api.cgpa)
	g.POST("/encode", api.encode)
}

// Handlers

// retrieve decodes an encoded payload and returns the computed report, or the
// bare CGPA as plain text when plain=true.
func (api *reportApi) retrieve(ctx echo.Context) error {
	var data DecodeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DecodeRequest")
	}
	// POST still accepts the query form
	if data.Data == "" {
		data.Data = ctx.QueryParam("data")
		if !data.Plain {
			data.Plain, _ = strconv.ParseBool(ctx.QueryParam("plain"))
		}
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rep, err := api.svc.Decode(data.Data)
	if err != nil {
		return asClientError(err)
	}

	if data.Plain {
		return ctx.String(http.StatusOK, formatGPA(rep.CGPA))
	}
	return ctx.JSON(http.StatusOK, rounded(rep))
}

// cgpa is the manual-entry path: a JSON array of course objects, no transport
// decode involved.
func (api *reportApi) cgpa(ctx echo.Context) error {
	var inputs []CourseInput
	if err := ctx.Bind(&inputs); err != nil {
		return errors.Wrap(err, "binding to []CourseInput")
	}
	if len(inputs) == 0 {
		return core.NewValidationError(errors.New("at least one course is required"))
	}
	for i := range inputs {
		inputs[i].clean()
		if err := api.validate.Struct(&inputs[i]); err != nil {
			return err
		}
	}

	rep, err := api.svc.Summarize(toCourses(inputs))
	if err != nil {
		return asClientError(err)
	}
	return ctx.JSON(http.StatusOK, rounded(rep))
}

// encode wraps courses (plus an optional summary) into a shareable payload.
func (api *reportApi) encode(ctx echo.Context) error {
	var data EncodeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EncodeRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	var summary *report.StudentSummary
	if data.Summary != nil {
		summary = &report.StudentSummary{
			ID:                data.Summary.ID,
			CreditsRegistered: data.Summary.CreditsRegistered,
			CreditsEarned:     data.Summary.CreditsEarned,
			CGPA:              data.Summary.CGPA,
		}
	}
	encoded, err := api.svc.Encode(toCourses(data.Courses), summary)
	if err != nil {
		return errors.Wrap(err, "encoding courses")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"encoded": encoded})
}

// rounded applies the 2-decimal presentation rounding; computation upstream
// keeps full precision.
func rounded(rep *report.Report) *report.Report {
	rep.CGPA = report.Round2(rep.CGPA)
	rep.SemesterMean = report.Round2(rep.SemesterMean)
	for i := range rep.Semesters {
		rep.Semesters[i].GPA = report.Round2(rep.Semesters[i].GPA)
	}
	if rep.Summary != nil {
		rep.Summary.CGPA = report.Round2(rep.Summary.CGPA)
	}
	return rep
}

func formatGPA(v float64) string {
	return strconv.FormatFloat(report.Round2(v), 'f', 2, 64)
}
