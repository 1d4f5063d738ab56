package api

import "net/http"

// Middleware wraps a handler with cross-cutting behavior
type Middleware func(http.Handler) http.Handler

// Chain wraps h so the first middleware listed runs first
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
