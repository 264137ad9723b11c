// Package validation holds the shared rule table every write path is checked
// against. Rules are declared as `validate` struct tags on service inputs; the
// custom tags below resolve against the value sets in package models.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"issue-tracker/internal/apperrors"
	"issue-tracker/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister("role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).Valid()
	})
	mustRegister("issue_type", func(fl validator.FieldLevel) bool {
		return models.IssueType(fl.Field().String()).Valid()
	})
	mustRegister("issue_status", func(fl validator.FieldLevel) bool {
		return models.IssueStatus(fl.Field().String()).Valid()
	})
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %q validator: %v", tag, err))
	}
}

// Struct validates s. Presence failures (required/notblank) report
// requiredMsg; value-set failures report which set was violated.
func Struct(s any, requiredMsg string) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return apperrors.NewValidationError(requiredMsg, err.Error())
	}

	// presence errors take priority over value-set errors
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" || fe.Tag() == "notblank" {
			return apperrors.NewValidationError(requiredMsg, fe.Field())
		}
	}

	fe := fieldErrs[0]
	if msg := SetMessage(fe.Tag(), fe.Value()); msg != "" {
		return apperrors.NewValidationError(msg, fe.Field())
	}
	return apperrors.NewValidationError(requiredMsg, fe.Field())
}

// SetMessage describes a value-set failure for tag.
func SetMessage(tag string, value any) string {
	switch tag {
	case "role":
		return fmt.Sprintf("Invalid role: %v", value)
	case "issue_type":
		return "Invalid issue_type, must be one of: " + join(models.IssueTypes)
	case "issue_status":
		return "Invalid status, must be one of: " + join(models.IssueStatuses)
	}
	return ""
}

func join[T ~string](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
