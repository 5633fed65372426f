package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	commonerrors "github.com/AlibekovAA/jobboard/internal/common/errors"
)

// CreateJobInput is a job posting as submitted by its poster. Fields are
// trimmed before validation; an empty Salary is stored as NULL.
type CreateJobInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Company     string `json:"company" validate:"required,max=200"`
	Location    string `json:"location" validate:"required,max=200"`
	Type        string `json:"type" validate:"required,oneof=full-time part-time contract internship"`
	Description string `json:"description" validate:"required,max=10000"`
	Salary      string `json:"salary" validate:"max=100"`
}

func (in CreateJobInput) normalize() CreateJobInput {
	return CreateJobInput{
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		Type:        strings.TrimSpace(in.Type),
		Description: strings.TrimSpace(in.Description),
		Salary:      strings.TrimSpace(in.Salary),
	}
}

type JobValidator struct {
	validate *validator.Validate
}

func NewJobValidator() *JobValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &JobValidator{validate: v}
}

// Validate returns ErrValidation with one entry per offending field in
// details, keyed by the field's JSON name.
func (jv *JobValidator) Validate(in CreateJobInput) error {
	err := jv.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return commonerrors.ErrValidation.WithCause(err)
	}

	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = describe(fe)
	}
	return commonerrors.ErrValidation.WithDetails(details).WithCause(err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}
