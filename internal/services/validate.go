package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/yungbote/course-portal-backend/internal/pkg/errors"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// validateStruct reports the first failing field as ErrInvalidArgument.
func validateStruct(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", pkgerrors.ErrInvalidArgument, err)
	}
	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", pkgerrors.ErrInvalidArgument, field)
	case "email":
		return fmt.Errorf("%w: %s must be a valid email", pkgerrors.ErrInvalidArgument, field)
	case "min":
		return fmt.Errorf("%w: %s must be at least %s characters", pkgerrors.ErrInvalidArgument, field, fe.Param())
	case "max":
		return fmt.Errorf("%w: %s is too long", pkgerrors.ErrInvalidArgument, field)
	case "oneof":
		return fmt.Errorf("%w: %s must be one of %s", pkgerrors.ErrInvalidArgument, field, fe.Param())
	default:
		return fmt.Errorf("%w: %s is invalid", pkgerrors.ErrInvalidArgument, field)
	}
}

// denial maps a zero-row scoped write to the error the caller sees.
func denial(what string, exists bool, err error) error {
	if err != nil {
		return err
	}
	if exists {
		return pkgerrors.ErrForbidden
	}
	return fmt.Errorf("%s %w", what, pkgerrors.ErrNotFound)
}
