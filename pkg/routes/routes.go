// Package routes declares HTTP routes as data and registers them on a
// standard ServeMux.
package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group organizes routes under a common prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	walk(groups, func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, h)
	})
}

// Patterns returns the ServeMux patterns the groups register, in
// declaration order.
func Patterns(groups ...Group) []string {
	var patterns []string
	walk(groups, func(pattern string, _ http.HandlerFunc) {
		patterns = append(patterns, pattern)
	})
	return patterns
}

func walk(groups []Group, fn func(pattern string, h http.HandlerFunc)) {
	for _, group := range groups {
		walkGroup("", group, fn)
	}
}

func walkGroup(parentPrefix string, group Group, fn func(string, http.HandlerFunc)) {
	fullPrefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		fn(route.Method+" "+fullPrefix+route.Pattern, route.Handler)
	}
	for _, child := range group.Children {
		walkGroup(fullPrefix, child, fn)
	}
}
