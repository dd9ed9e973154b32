package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesSubscriber(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe("user-1")
	defer cleanup()

	hub.Publish("user-1", Event{ID: "e1", Name: "task.assigned", Payload: "t-1"})

	select {
	case ev := <-ch:
		assert.Equal(t, "task.assigned", ev.Name)
		assert.Equal(t, "t-1", ev.Payload)
	default:
		t.Fatal("expected event on subscriber channel")
	}
}

func TestHub_PublishToOtherUserIsNotDelivered(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe("user-1")
	defer cleanup()

	hub.Publish("user-2", Event{ID: "e1", Name: "task.assigned"})

	select {
	case <-ch:
		t.Fatal("event delivered to wrong user")
	default:
	}
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()

	_, cleanup := hub.Subscribe("user-1")
	require.Equal(t, 1, hub.SubscriberCount("user-1"))

	cleanup()
	assert.Equal(t, 0, hub.SubscriberCount("user-1"))
}
