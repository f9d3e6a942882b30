package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrRequestNotFound      = errors.New("artist request not found")
	ErrArtistNotFound       = errors.New("artist not found")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrVenueNotFound        = errors.New("venue not found")
	ErrForbidden            = errors.New("not allowed for this account")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrArtistRequired       = errors.New("an artist must be selected")
	ErrRequestNotPending    = errors.New("artist request is not pending")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrInFlight             = errors.New("another update for this item is still in progress")
)

// ValidationError reports a field that failed validation before any state
// change or network call was made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// fromValidator converts the first go-playground field error into a ValidationError.
func fromValidator(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return err
	}
	fe := ves[0]
	msg := "failed on " + fe.Tag()
	if fe.Param() != "" {
		msg += "=" + fe.Param()
	}
	return &ValidationError{Field: strings.ToLower(fe.Field()), Message: msg}
}

// IsValidation reports whether err is a validation failure (as opposed to a
// storage or transport failure).
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrArtistRequired)
}
