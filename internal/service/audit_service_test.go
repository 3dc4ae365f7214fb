package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/events"
)

func TestAuditService_RecordsSubscribedEvents(t *testing.T) {
	logs := newMemAuditRepo()
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewAuditService(logs)
	svc.Register(dispatcher)
	ctx := context.Background()

	err := dispatcher.Publish(ctx, events.Event{
		Type:   events.EventStaffCreated,
		Target: "NIS/1",
		Actor:  testActor(),
		Payload: events.StaffChangedPayload{
			StaffID: 1,
			NISNo:   "NIS/1",
		},
	})
	require.NoError(t, err)

	require.Len(t, logs.entries, 1)
	entry := logs.entries[0]
	assert.Equal(t, "staff_created", entry.Action)
	assert.Equal(t, "NIS/1", entry.Target)
	assert.Equal(t, "tester", entry.Actor)
	require.NotNil(t, entry.Details)
	assert.Contains(t, *entry.Details, `"nis_no":"NIS/1"`)
}

func TestAuditService_IgnoresUnsubscribedEvents(t *testing.T) {
	logs := newMemAuditRepo()
	dispatcher := events.NewInMemoryDispatcher()
	NewAuditService(logs).Register(dispatcher)

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:   events.EventType("heartbeat"),
		Target: "n/a",
	})
	require.NoError(t, err)
	assert.Empty(t, logs.entries)
}

func TestAuditService_ListEntries(t *testing.T) {
	logs := newMemAuditRepo()
	svc := NewAuditService(logs)
	ctx := context.Background()

	require.NoError(t, logs.Create(ctx, &domain.AuditLog{Action: "staff_created", Target: "NIS/1", Actor: "tester"}))

	entries, err := svc.ListEntries(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
