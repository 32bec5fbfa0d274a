// Package middleware provides composable HTTP middleware for the inference
// stub server.
package middleware

import "net/http"

// System manages an ordered stack of HTTP middleware. The first middleware
// added is the outermost wrapper.
type System interface {
	Use(mw ...func(http.Handler) http.Handler)
	Apply(handler http.Handler) http.Handler
}

type stack struct {
	mws []func(http.Handler) http.Handler
}

// New creates a middleware System seeded with mws.
func New(mws ...func(http.Handler) http.Handler) System {
	s := &stack{}
	s.Use(mws...)
	return s
}

func (s *stack) Use(mws ...func(http.Handler) http.Handler) {
	s.mws = append(s.mws, mws...)
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	for i := len(s.mws) - 1; i >= 0; i-- {
		handler = s.mws[i](handler)
	}
	return handler
}
