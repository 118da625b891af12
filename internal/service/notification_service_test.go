package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/queuedesk/queuedesk-api/internal/config"
	"github.com/queuedesk/queuedesk-api/internal/events"
)

func TestNotificationService_HandlesTicketEvents(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	ns := NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{
		EmailFrom:  "desk@example.com",
		WebhookURL: "https://hooks.example.com/queuedesk",
	})
	ns.RegisterHandlers()

	ctx := context.Background()
	for _, eventType := range events.AllTicketEvents {
		require.NoError(t, dispatcher.Publish(ctx, events.Event{
			ID:        "evt-" + string(eventType),
			Type:      eventType,
			TicketID:  "ticket-1",
			Actor:     events.Actor{UserID: "user-1"},
			Timestamp: time.Now(),
		}))
	}

	assert.Equal(t, 4, logs.FilterMessage("ticket event").Len())
	assert.Equal(t, 4, logs.FilterMessage("sendWebhookNotificationStub").Len())
	// email goes out on creation and status changes only
	assert.Equal(t, 2, logs.FilterMessage("sendEmailNotificationStub").Len())
}

func TestNotificationService_StubsSkippedWithoutTargets(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher(nil)
	NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{}).RegisterHandlers()

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventTicketCreated, TicketID: "ticket-1"}))

	assert.Equal(t, 1, logs.FilterMessage("ticket event").Len())
	assert.Zero(t, logs.FilterMessage("sendEmailNotificationStub").Len())
	assert.Zero(t, logs.FilterMessage("sendWebhookNotificationStub").Len())
}
