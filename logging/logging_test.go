package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc-123")

	assert.Equal(t, "abc-123", RequestID(ctx))
	assert.Equal(t, "", RequestID(context.Background()))
}

func TestFromContextTagsRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	FromContext(WithRequestID(context.Background(), "abc-123")).Info("hello")
	FromContext(context.Background()).Info("bare")

	entries := logs.All()
	assert.Len(t, entries, 2)
	assert.Equal(t, "abc-123", entries[0].ContextMap()["request_id"])
	_, ok := entries[1].ContextMap()["request_id"]
	assert.False(t, ok)
}
