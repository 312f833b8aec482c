package errors

import (
	"errors"
	"net/http"

	"fleetrental/internal/booking"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// FromBookingError maps the engine's error taxonomy onto HTTP statuses:
// conflicts are 409, illegal transitions 422, invalid durations 400, a
// busy vehicle 503 (retryable), store faults 502.
func FromBookingError(err error) *HTTPError {
	var conflict *booking.ConflictError
	var transition *booking.TransitionError
	var persistence *booking.PersistenceError

	switch {
	case errors.Is(err, booking.ErrInvalidDuration):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, booking.ErrBusy):
		return NewHTTPError(http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, booking.ErrClaimNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error())
	case errors.As(err, &conflict):
		return NewHTTPError(http.StatusConflict, err.Error())
	case errors.As(err, &transition):
		return NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &persistence):
		return NewHTTPError(http.StatusBadGateway, "storage error, please try again")
	}
	return NewHTTPError(http.StatusInternalServerError, "internal error")
}
