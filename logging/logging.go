package logging

import (
	"context"

	"go.uber.org/zap"
)

type requestIDKey struct{}

// WithRequestID returns a copy of ctx carrying the request correlation id
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the correlation id stored in ctx, or an empty string
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// FromContext returns the global sugared logger tagged with the request id, if any
func FromContext(ctx context.Context) *zap.SugaredLogger {
	l := zap.S()
	if id := RequestID(ctx); id != "" {
		return l.With("request_id", id)
	}
	return l
}
