package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/internal/observability"
)

// StartAuditWorker subscribes log handlers for auth audit events.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) {
	if dispatcher == nil {
		return
	}
	audit := logger.Named("audit")

	handle := func(_ context.Context, e events.Event) error {
		fields := []zap.Field{
			zap.String("event_id", e.ID),
			zap.String("identifier", e.Identifier),
			zap.Time("at", e.Timestamp),
		}
		if p, ok := e.Payload.(events.LoginFailedPayload); ok {
			fields = append(fields, zap.String("reason", p.Reason))
		}
		audit.Info(string(e.Type), fields...)
		metrics.RecordAuthEvent(string(e.Type))
		return nil
	}

	dispatcher.Subscribe(events.EventUserRegistered, handle)
	dispatcher.Subscribe(events.EventLoginSucceeded, handle)
	dispatcher.Subscribe(events.EventLoginFailed, handle)
}
