package handlers

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"bilgin-chat/services"
)

// WebSocketHub tracks live subscribers of conversations.
type WebSocketHub interface {
	Broadcaster
	Subscribe(sub *services.Subscriber) int
	Unsubscribe(sub *services.Subscriber)
	Reply(sub *services.Subscriber, frame []byte) error
}

// WebSocketMessage represents an incoming WebSocket message
type WebSocketMessage struct {
	Type string `json:"type"`
}

// WebSocketUpgrade upgrades HTTP connection to WebSocket
func WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// handleWebSocket subscribes the socket to its conversation's events.
func handleWebSocket(hub WebSocketHub) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		conversationID := c.Params("conversationID")

		conn := &services.Subscriber{
			Conn:           c,
			ID:             uuid.New().String(),
			ConversationID: conversationID,
			Send:           make(chan []byte, 256),
		}

		hub.Subscribe(conn)
		defer hub.Unsubscribe(conn)

		welcomeMsg := map[string]interface{}{
			"type":            "connected",
			"message":         "WebSocket connection established",
			"conversation_id": conversationID,
		}
		if welcomeData, err := json.Marshal(welcomeMsg); err == nil {
			c.WriteMessage(websocket.TextMessage, welcomeData)
		}

		go handleWebSocketSend(conn)

		handleWebSocketReceive(hub, conn)
	}
}

// handleWebSocketSend handles sending messages to the WebSocket client
func handleWebSocketSend(conn *services.Subscriber) {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		conn.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			conn.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				conn.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				slog.Error("Failed to write WebSocket message", "error", err)
				return
			}

		case <-ticker.C:
			conn.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleWebSocketReceive reads until the client goes away. Only "ping" is
// understood; everything else is ignored.
func handleWebSocketReceive(hub WebSocketHub, conn *services.Subscriber) {
	conn.Conn.SetReadLimit(64 * 1024)
	conn.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.Conn.SetPongHandler(func(string) error {
		conn.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, messageBytes, err := conn.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket read error", "error", err)
			}
			return
		}

		conn.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var msg WebSocketMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			slog.Warn("Failed to parse WebSocket message", "error", err)
			continue
		}

		switch msg.Type {
		case "ping":
			if pongData, err := json.Marshal(map[string]string{"type": "pong"}); err == nil {
				if err := hub.Reply(conn, pongData); err != nil {
					slog.Debug("Pong not sent", "conversationID", conn.ConversationID, "error", err)
				}
			}
		default:
			slog.Debug("Ignoring WebSocket message", "type", msg.Type, "conversationID", conn.ConversationID)
		}
	}
}
