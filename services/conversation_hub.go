package services

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
)

var (
	ErrNotSubscribed  = errors.New("subscriber not found")
	ErrSubscriberBusy = errors.New("subscriber send buffer full")
)

// Event types pushed to subscribers
const (
	EventNewMessage          = "new_message"
	EventConversationDeleted = "conversation_deleted"
	EventFileUploaded        = "file_uploaded"
)

// Subscriber is one socket following a conversation. Send is drained by the
// socket's writer goroutine and closed by Unsubscribe.
type Subscriber struct {
	ID             string
	ConversationID string
	Conn           *websocket.Conn
	Send           chan []byte
}

// Event is the JSON frame written to subscribers.
type Event struct {
	Type           string      `json:"type"`
	ConversationID string      `json:"conversation_id"`
	Data           interface{} `json:"data"`
	Timestamp      int64       `json:"timestamp"`
}

// ConversationHub groups subscribers into one room per conversation and fans
// events out to a room from a single delivery goroutine.
type ConversationHub struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]*Subscriber
	events chan Event
}

var (
	defaultHub     *ConversationHub
	defaultHubOnce sync.Once
)

// DefaultConversationHub returns the process-wide hub.
func DefaultConversationHub() *ConversationHub {
	defaultHubOnce.Do(func() {
		defaultHub = NewConversationHub(128)
	})
	return defaultHub
}

// NewConversationHub starts a hub whose event queue holds queueSize events.
func NewConversationHub(queueSize int) *ConversationHub {
	if queueSize <= 0 {
		queueSize = 128
	}
	h := &ConversationHub{
		rooms:  make(map[string]map[string]*Subscriber),
		events: make(chan Event, queueSize),
	}
	go h.run()
	return h
}

// Subscribe adds sub to its conversation room and returns the room size.
func (h *ConversationHub) Subscribe(sub *Subscriber) int {
	h.mu.Lock()
	room, ok := h.rooms[sub.ConversationID]
	if !ok {
		room = make(map[string]*Subscriber)
		h.rooms[sub.ConversationID] = room
	}
	room[sub.ID] = sub
	size := len(room)
	h.mu.Unlock()

	slog.Debug("Conversation subscriber joined", "conversationID", sub.ConversationID, "subscriberID", sub.ID, "roomSize", size)
	return size
}

// Unsubscribe removes sub and closes its Send channel. Calling it twice is a
// no-op.
func (h *ConversationHub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	room := h.rooms[sub.ConversationID]
	if _, ok := room[sub.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(room, sub.ID)
	if len(room) == 0 {
		delete(h.rooms, sub.ConversationID)
	}
	close(sub.Send)
	h.mu.Unlock()

	slog.Debug("Conversation subscriber left", "conversationID", sub.ConversationID, "subscriberID", sub.ID)
}

// Broadcast queues an event for a conversation room. It never blocks; the
// event is dropped when the queue is full.
func (h *ConversationHub) Broadcast(conversationID, eventType string, data interface{}) {
	ev := Event{Type: eventType, ConversationID: conversationID, Data: data, Timestamp: time.Now().Unix()}
	select {
	case h.events <- ev:
	default:
		slog.Warn("Conversation event dropped, queue full", "conversationID", conversationID, "type", eventType)
	}
}

func (h *ConversationHub) run() {
	for ev := range h.events {
		h.deliver(ev)
	}
}

// deliver encodes ev once and offers it to every subscriber of the room.
// Slow subscribers miss the event instead of stalling the room.
func (h *ConversationHub) deliver(ev Event) int {
	frame, err := json.Marshal(ev)
	if err != nil {
		slog.Error("Failed to encode conversation event", "type", ev.Type, "error", err)
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, sub := range h.rooms[ev.ConversationID] {
		select {
		case sub.Send <- frame:
			delivered++
		default:
			slog.Warn("Subscriber too slow, event skipped", "conversationID", ev.ConversationID, "subscriberID", sub.ID, "type", ev.Type)
		}
	}
	return delivered
}

// Reply sends a frame to one subscriber, e.g. a pong.
func (h *ConversationHub) Reply(sub *Subscriber, frame []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.rooms[sub.ConversationID][sub.ID]; !ok {
		return ErrNotSubscribed
	}
	select {
	case sub.Send <- frame:
		return nil
	default:
		return ErrSubscriberBusy
	}
}

// Subscribers returns the room size of a conversation.
func (h *ConversationHub) Subscribers(conversationID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[conversationID])
}
