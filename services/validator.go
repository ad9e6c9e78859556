package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"rpgroster/errx"
	"rpgroster/models"
)

const (
	MinBirthYear = 2000
	MaxBirthYear = 3000
)

// Validator checks a fully merged player candidate before it is persisted.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("birthyear", validateBirthYear); err != nil {
		panic(fmt.Sprintf("register birthyear rule: %v", err))
	}
	return &Validator{validate: v}
}

// validateBirthYear reads epoch milliseconds and checks the calendar year in
// the process-local time zone.
func validateBirthYear(fl validator.FieldLevel) bool {
	year := time.UnixMilli(fl.Field().Int()).In(time.Local).Year()
	return year >= MinBirthYear && year <= MaxBirthYear
}

// Validate returns an INVALID_FIELD error naming the first failing field.
// A nil Banned is set to false.
func (v *Validator) Validate(p *models.PlayerPayload) error {
	if p == nil {
		return errx.ErrBadRequest.WithMsg("player body is required")
	}

	if err := v.validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) || len(verrs) == 0 {
			return errx.ErrInternal.WithCause(err)
		}
		return fieldError(verrs[0].Field(), reasonFor(verrs[0]))
	}

	if p.Banned == nil {
		banned := false
		p.Banned = &banned
	}
	return nil
}

func fieldError(field, reason string) error {
	return errx.ErrInvalidField.
		WithMsg(fmt.Sprintf("%s %s", field, reason)).
		WithData("field", field).
		WithData("reason", reason)
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "birthyear":
		return fmt.Sprintf("year must be between %d and %d", MinBirthYear, MaxBirthYear)
	case "min":
		if fe.Kind() == reflect.String {
			if fe.Param() == "1" {
				return "must not be empty"
			}
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	}
	return "is invalid"
}
