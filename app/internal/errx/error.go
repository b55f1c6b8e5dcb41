package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// CatalogErrorMessage describes failures talking to the product API.
	CatalogErrorMessage = "catalog request failed"
	// StoreErrorMessage describes cart persistence failures.
	StoreErrorMessage = "cart store operation failed"
)

// ErrUpstreamStatus marks a non-2xx answer from the product API.
var ErrUpstreamStatus = errors.New("unexpected upstream status")

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// WrapTransport is used when the product API could not be reached at all.
func WrapTransport(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, CatalogErrorMessage)
}

// WrapUpstream turns a non-2xx product API status into an AppError. Client
// errors keep their status, anything else is reported as a bad gateway.
func WrapUpstream(status int) error {
	code := http.StatusBadGateway
	if status >= 400 && status < 500 {
		code = status
	}
	return New(fmt.Errorf("%w: %d", ErrUpstreamStatus, status), code, CatalogErrorMessage)
}

func WrapStore(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, StoreErrorMessage)
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the safe message carried by err.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return SystemErrorMessage
}
