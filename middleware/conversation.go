package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"bilgin-chat/models"
	"bilgin-chat/services"
)

// Locals keys set by this package
const (
	LocalConversation = "conversation"
	LocalMessageInput = "message_input"
)

// ConversationFinder loads a conversation by ID.
type ConversationFinder interface {
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
}

// RequireConversation loads the :conversationID route param into locals and
// answers 404 when it does not exist.
func RequireConversation(store ConversationFinder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("conversationID")
		if id == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "conversationID is required",
			})
		}

		conv, err := store.GetConversation(c.UserContext(), id)
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Conversation not found",
			})
		}
		if err != nil {
			slog.Error("Failed to get conversation", "error", err, "conversationID", id)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load conversation",
			})
		}

		c.Locals(LocalConversation, conv)
		return c.Next()
	}
}

// Conversation returns the conversation stored by RequireConversation.
func Conversation(c *fiber.Ctx) *models.Conversation {
	conv, _ := c.Locals(LocalConversation).(*models.Conversation)
	return conv
}
