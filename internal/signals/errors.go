package signals

import (
	"errors"
	"net/http"
)

// Domain errors for signal operations.
var (
	ErrNotFound  = errors.New("signal not found")
	ErrDuplicate = errors.New("signal already exists")
	ErrInvalid   = errors.New("invalid signal data")
)

// MapHTTPStatus maps signal domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalid) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
