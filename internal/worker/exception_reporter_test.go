package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/ticket-listing/internal/events"
	"github.com/spec-kit/ticket-listing/internal/observability"
)

func TestExceptionReporterLogs(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	dispatcher := events.NewInMemoryDispatcher()
	StartExceptionReporter(dispatcher, zap.New(core), observability.NewMetrics())

	err := dispatcher.Publish(context.Background(), events.NewUncaughtException(events.UncaughtExceptionPayload{
		Err:    errors.New("ticket 4 vanished"),
		Code:   "INVARIANT_VIOLATION",
		Path:   "/tickets",
		Method: "GET",
	}))
	require.NoError(t, err)

	entries := logs.FilterMessage("uncaught exception").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "INVARIANT_VIOLATION", fields["code"])
	assert.Equal(t, "/tickets", fields["path"])
	assert.Equal(t, "ticket 4 vanished", fields["error"])
}

func TestExceptionReporterNilDispatcher(t *testing.T) {
	assert.NotPanics(t, func() {
		StartExceptionReporter(nil, zap.NewNop(), nil)
	})
}
