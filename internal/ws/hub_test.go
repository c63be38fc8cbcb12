package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/avolkov/luckygrid/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

func receive(t *testing.T, client *Client) dto.ChatEventDTO {
	t.Helper()
	select {
	case data, ok := <-client.Receive():
		require.True(t, ok, "channel closed")
		var event dto.ChatEventDTO
		require.NoError(t, json.Unmarshal(data, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivery")
		return dto.ChatEventDTO{}
	}
}

func assertNoDelivery(t *testing.T, client *Client) {
	t.Helper()
	select {
	case data := <-client.Receive():
		t.Fatalf("unexpected delivery: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubRouting(t *testing.T) {
	hub := startHub(t)

	admin := NewClient(nil, 1, true)
	alice := NewClient(nil, 2, false)
	bob := NewClient(nil, 3, false)
	secondAdmin := NewClient(nil, 4, true)

	for _, c := range []*Client{admin, alice, bob, secondAdmin} {
		hub.Register(c)
	}

	t.Run("user channel targets one user only", func(t *testing.T) {
		hub.PublishToUser(2, dto.EventNewMessage, dto.ChatMessageDTO{ID: 1})

		event := receive(t, alice)
		assert.Equal(t, dto.EventNewMessage, event.Event)
		assertNoDelivery(t, bob)
		assertNoDelivery(t, admin)
	})

	t.Run("admin channel reaches every admin", func(t *testing.T) {
		hub.PublishToAdmins(dto.EventNewMessage, dto.ChatMessageDTO{ID: 2})

		receive(t, admin)
		receive(t, secondAdmin)
		assertNoDelivery(t, alice)
		assertNoDelivery(t, bob)
	})

	t.Run("broadcast reaches everyone", func(t *testing.T) {
		hub.PublishToAll(dto.EventNewMessage, dto.ChatMessageDTO{ID: 3})

		for _, c := range []*Client{admin, alice, bob, secondAdmin} {
			receive(t, c)
		}
	})

	t.Run("client-targeted delivery skips same-user sessions", func(t *testing.T) {
		secondSession := NewClient(nil, 2, false)
		hub.Register(secondSession)

		hub.PublishToClient(alice, dto.EventChatError, dto.ChatErrorDTO{Message: "nope"})

		event := receive(t, alice)
		assert.Equal(t, dto.EventChatError, event.Event)
		assertNoDelivery(t, secondSession)

		hub.Unregister(secondSession)
	})
}

func TestHubUnregister(t *testing.T) {
	hub := startHub(t)

	alice := NewClient(nil, 2, false)
	hub.Register(alice)
	hub.Unregister(alice)

	_, ok := <-alice.Receive()
	assert.False(t, ok, "send channel should be closed")

	// Further publishes to the departed user are no-ops.
	hub.PublishToUser(2, dto.EventNewMessage, dto.ChatMessageDTO{ID: 1})
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := startHub(t)

	slow := NewClient(nil, 2, false)
	hub.Register(slow)

	// Nobody draining the send channel: once the buffer is full the hub
	// must drop the subscriber instead of blocking the run loop.
	for i := 0; i < sendBufferSize+1; i++ {
		hub.PublishToUser(2, dto.EventNewMessage, dto.ChatMessageDTO{ID: i})
	}

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-slow.Receive():
			if !ok {
				return // dropped, channel closed
			}
		case <-deadline:
			t.Fatal("slow client was never dropped")
		}
	}
}
