package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func TestWithContext(t *testing.T) {
	t.Run("stores and retrieves logger", func(t *testing.T) {
		logger := zap.NewNop()
		ctx := WithContext(context.Background(), logger)

		retrieved := FromContext(ctx)
		assert.Same(t, logger, retrieved)
	})

	t.Run("returns noop logger when not set", func(t *testing.T) {
		retrieved := FromContext(context.Background())
		assert.NotNil(t, retrieved)
	})
}

func TestWithRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	ctx, enriched := WithRequestID(context.Background(), logger, "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))

	enriched.Info("test message")
	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])

	// The enriched logger is also retrievable from the context
	assert.NotNil(t, FromContext(ctx))
}

func TestWithUserID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	ctx, enriched := WithUserID(context.Background(), logger, "user-42")

	assert.Equal(t, "user-42", GetUserID(ctx))

	enriched.Info("test message")
	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "user-42", entries[0].ContextMap()["user_id"])
}

func TestGetRequestID_Empty(t *testing.T) {
	assert.Equal(t, "", GetRequestID(context.Background()))
}

func TestGetUserID_Empty(t *testing.T) {
	assert.Equal(t, "", GetUserID(context.Background()))
}
