package events

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskweave/orchestrator/internal/store"
)

func TestBus_PublishDeliversToMatchingSubscriber(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	ch := bus.Subscribe(store.ActivityMilestone)

	bus.Publish(store.ActivityEvent{Type: store.ActivityMilestone, Message: "halfway"})

	select {
	case got := <-ch:
		assert.Equal(t, "halfway", got.Message)
	case <-time.After(time.Second):
		t.Fatal("expected event delivery")
	}
}

func TestBus_PublishSkipsNonMatchingType(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	ch := bus.Subscribe(store.ActivityMilestone)

	bus.Publish(store.ActivityEvent{Type: store.ActivityTaskStart, Message: "ignored"})

	select {
	case got := <-ch:
		t.Fatalf("unexpected delivery: %+v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_UnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	ch := bus.Subscribe()
	bus.Unsubscribe(ch)

	_, open := <-ch
	assert.False(t, open)
}

func TestLog_PersistsAndPublishes(t *testing.T) {
	path := t.TempDir() + "/orchestrator.db"
	db, err := store.Open(path, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	bus := NewBus(zerolog.Nop())
	ch := bus.Subscribe()

	event, err := Log(db, bus, store.ActivityMilestone, nil, nil, "50% complete")
	require.NoError(t, err)
	assert.NotZero(t, event.ID)

	recent, err := db.RecentEvents(10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	select {
	case got := <-ch:
		assert.Equal(t, event.ID, got.ID)
	case <-time.After(time.Second):
		t.Fatal("expected event delivery")
	}
}
