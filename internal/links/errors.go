package links

import (
	"errors"
	"net/http"
)

// Domain errors for link operations.
var (
	ErrNotFound  = errors.New("link not found")
	ErrDuplicate = errors.New("link already exists")
	ErrInvalid   = errors.New("invalid link data")
)

// MapHTTPStatus maps link domain errors to appropriate HTTP status codes.
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
