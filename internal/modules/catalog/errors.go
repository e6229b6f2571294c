package catalog

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/yungbote/course-portal-backend/internal/pkg/errors"
)

var (
	// ErrFiltersActive refuses a reorder requested from a filtered view.
	ErrFiltersActive = errors.New("reorder only allowed in unfiltered view; clear filters first")
	// ErrUpload aborts a write whose file could not be stored.
	ErrUpload = errors.New("upload failed")
	// ErrUploadsDisabled is returned when no object store is configured.
	ErrUploadsDisabled = errors.New("object storage is not configured")
)

// denied turns a zero-row write into the error the caller should see.
func (c *Catalog) denied(exists bool, err error) error {
	if err != nil {
		return c.storeErr("check material", err)
	}
	if exists {
		return pkgerrors.ErrForbidden
	}
	return fmt.Errorf("material %w", pkgerrors.ErrNotFound)
}

// storeErr keeps domain sentinels as they are. Anything else is logged and
// replaced by a generic unavailable error so driver text never reaches clients.
func (c *Catalog) storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pkgerrors.ErrForbidden) || errors.Is(err, pkgerrors.ErrNotFound) ||
		errors.Is(err, pkgerrors.ErrInvalidArgument) || errors.Is(err, pkgerrors.ErrConflict) {
		return err
	}
	c.log.Warn("catalog store call failed", "op", op, "error", err)
	return fmt.Errorf("could not %s: %w", op, pkgerrors.ErrUnavailable)
}

func validationErr(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", pkgerrors.ErrInvalidArgument, err)
	}
	fe := fieldErrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fe.Field() + " is required"
	case "uuid":
		msg = fe.Field() + " must be a valid id"
	case "material_type":
		msg = "type must be one of video, text, pdf, link, image, html, ai_tool"
	case "max":
		msg = fe.Field() + " is too long"
	default:
		msg = fe.Field() + " is invalid"
	}
	return fmt.Errorf("%w: %s", pkgerrors.ErrInvalidArgument, msg)
}
