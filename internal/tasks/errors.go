package tasks

import (
	"errors"
	"net/http"
)

// Domain errors for task operations.
var (
	ErrNotFound  = errors.New("task not found")
	ErrDuplicate = errors.New("task already exists")
	ErrInvalid   = errors.New("invalid task data")
)

// MapHTTPStatus maps task domain errors to appropriate HTTP status codes.
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
