package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubscriber(convID, id string, buffer int) *Subscriber {
	return &Subscriber{ID: id, ConversationID: convID, Send: make(chan []byte, buffer)}
}

func nextEvent(t *testing.T, sub *Subscriber) Event {
	t.Helper()
	select {
	case frame := <-sub.Send:
		var ev Event
		require.NoError(t, json.Unmarshal(frame, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
	return Event{}
}

func TestConversationHub_BroadcastStaysInRoom(t *testing.T) {
	hub := NewConversationHub(8)
	a1 := newSubscriber("conv-a", "1", 4)
	a2 := newSubscriber("conv-a", "2", 4)
	b := newSubscriber("conv-b", "3", 4)
	assert.Equal(t, 1, hub.Subscribe(a1))
	assert.Equal(t, 2, hub.Subscribe(a2))
	assert.Equal(t, 1, hub.Subscribe(b))

	hub.Broadcast("conv-a", EventNewMessage, map[string]string{"content": "merhaba"})

	for _, sub := range []*Subscriber{a1, a2} {
		ev := nextEvent(t, sub)
		assert.Equal(t, EventNewMessage, ev.Type)
		assert.Equal(t, "conv-a", ev.ConversationID)
		assert.Equal(t, map[string]any{"content": "merhaba"}, ev.Data)
		assert.NotZero(t, ev.Timestamp)
	}

	select {
	case <-b.Send:
		t.Fatal("event leaked into another conversation")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestConversationHub_SlowSubscriberDoesNotBlockRoom(t *testing.T) {
	hub := NewConversationHub(8)
	slow := newSubscriber("conv-a", "slow", 0)
	fast := newSubscriber("conv-a", "fast", 1)
	hub.Subscribe(slow)
	hub.Subscribe(fast)

	delivered := hub.deliver(Event{Type: EventFileUploaded, ConversationID: "conv-a"})

	assert.Equal(t, 1, delivered)
	assert.Len(t, fast.Send, 1)
}

func TestConversationHub_Unsubscribe(t *testing.T) {
	hub := NewConversationHub(8)
	sub := newSubscriber("conv-a", "1", 1)
	hub.Subscribe(sub)

	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub)

	assert.Zero(t, hub.Subscribers("conv-a"))
	_, open := <-sub.Send
	assert.False(t, open)
}

func TestConversationHub_Reply(t *testing.T) {
	hub := NewConversationHub(8)
	sub := newSubscriber("conv-a", "1", 1)
	hub.Subscribe(sub)

	require.NoError(t, hub.Reply(sub, []byte(`{"type":"pong"}`)))
	assert.ErrorIs(t, hub.Reply(sub, []byte(`{"type":"pong"}`)), ErrSubscriberBusy)
	assert.ErrorIs(t, hub.Reply(newSubscriber("conv-a", "ghost", 1), nil), ErrNotSubscribed)
	assert.JSONEq(t, `{"type":"pong"}`, string(<-sub.Send))
}

func TestDefaultConversationHub_Shared(t *testing.T) {
	assert.Same(t, DefaultConversationHub(), DefaultConversationHub())
}
