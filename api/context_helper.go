package api

import (
	"context"
	"time"
)

// QueryTimeout is the default timeout for database queries
var QueryTimeout = 10 * time.Second

// WithQueryTimeout creates a context with query timeout, a shorter request
// deadline already on parent still wins.
func WithQueryTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, QueryTimeout)
}
