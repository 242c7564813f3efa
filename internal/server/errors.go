// Package server provides the HTTP API for the squad builder.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/squad-builder/internal/catalog"
	"github.com/jonathan/squad-builder/internal/pipeline"
	"github.com/jonathan/squad-builder/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// newValidationError turns validator output into an ErrValidation naming the first bad field.
func newValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		msg := "failed " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		return &ErrValidation{Field: fe.Field(), Message: msg}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		unavailable   *catalog.DataUnavailableError
		channelErr    *types.ChannelError
	)
	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, types.ErrInvalidConstraints),
		errors.Is(err, pipeline.ErrNoShortlist):
		return http.StatusBadRequest
	case errors.As(err, &unavailable), errors.Is(err, pipeline.ErrNoCatalog):
		return http.StatusServiceUnavailable
	case errors.As(err, &channelErr):
		if channelErr.Timeout() {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
