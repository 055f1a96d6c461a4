package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-listing/internal/events"
	"github.com/spec-kit/ticket-listing/internal/observability"
)

// StartExceptionReporter subscribes a reporter that logs and counts uncaught
// exceptions.
func StartExceptionReporter(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventUncaughtException, func(_ context.Context, event events.Event) error {
		metrics.RecordUncaught()
		payload, ok := event.Payload.(events.UncaughtExceptionPayload)
		if !ok {
			logger.Error("uncaught exception", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
			return nil
		}
		logger.Error("uncaught exception",
			zap.String("event_id", event.ID),
			zap.String("code", payload.Code),
			zap.String("method", payload.Method),
			zap.String("path", payload.Path),
			zap.String("request_id", payload.RequestID),
			zap.Bool("panic", payload.Panic),
			zap.Error(payload.Err))
		return nil
	})
}
