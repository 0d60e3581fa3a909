package report

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/alama/core"
)

var (
	// custom validation tags & texts
	gradeTag  = "grade"
	gradeText = "must be one of S, A, B, C, D, E, F, P"

	examMonthTag  = "exammonth"
	examMonthText = "must be a month-year label like Jan-2024"
)

// InitValidators registers course-record validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(gradeTag, gradeValidation)
	core.RegisterCustomTranslation(validate, translator, gradeTag, gradeText)

	_ = validate.RegisterValidation(examMonthTag, examMonthValidation)
	core.RegisterCustomTranslation(validate, translator, examMonthTag, examMonthText)
}

// gradeValidation only allows symbols of the fixed grade set.
func gradeValidation(fl validator.FieldLevel) bool {
	return KnownGrade(fl.Field().String())
}

// examMonthValidation checks the "Mon-Year" shape; pair with omitempty.
func examMonthValidation(fl validator.FieldLevel) bool {
	_, _, err := semesterKey(fl.Field().String())
	return err == nil
}
