package routes

import "net/http"

// Route pairs a method-qualified pattern with its handler. Patterns use the
// net/http "METHOD /path" form once a Group's prefix is applied.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}
