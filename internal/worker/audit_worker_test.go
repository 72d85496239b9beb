package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/internal/observability"
)

func TestStartAuditWorker(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	StartAuditWorker(dispatcher, zap.New(core), metrics)

	ctx := context.Background()
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventUserRegistered, "test@example.com", nil)))
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventLoginFailed, "agun@mail.com",
		events.LoginFailedPayload{Reason: "IDENTIFIER_NOT_FOUND"})))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "user_registered", entries[0].Message)
	assert.Equal(t, "audit", entries[0].LoggerName)
	assert.Equal(t, "IDENTIFIER_NOT_FOUND", entries[1].ContextMap()["reason"])

	snap := metrics.Snapshot()
	assert.Equal(t, int64(1), snap.AuthEvents["user_registered"])
	assert.Equal(t, int64(1), snap.AuthEvents["login_failed"])
}

func TestStartAuditWorker_NilDispatcher(t *testing.T) {
	assert.NotPanics(t, func() { StartAuditWorker(nil, zap.NewNop(), nil) })
}
