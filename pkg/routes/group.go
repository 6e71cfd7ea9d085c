package routes

import "net/http"

// Group collects routes under a shared path prefix. Nested groups compound
// their prefixes, so a domain can expose sub-resources without repeating the
// parent path in every pattern.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register walks the groups and registers every route on the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, "", group)
	}
}

func registerGroup(mux *http.ServeMux, parentPrefix string, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		pattern := route.Method + " " + fullPrefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	for _, child := range group.Children {
		registerGroup(mux, fullPrefix, child)
	}
}
