package handlers

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"bilgin-chat/middleware"
	"bilgin-chat/models"
	"bilgin-chat/services"
)

func listConversations(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		conversations, err := deps.Store.ListConversations(c.UserContext())
		if err != nil {
			slog.Error("Failed to list conversations", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to list conversations",
			})
		}
		return c.JSON(conversations)
	}
}

func createConversation(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input models.ConversationCreate
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&input); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid request body",
				})
			}
		}

		title := strings.TrimSpace(input.Title)
		if title == "" {
			title = services.DefaultTitle
		}

		now := time.Now().UTC()
		conv := &models.Conversation{
			ID:        uuid.New().String(),
			Title:     title,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := deps.Store.CreateConversation(c.UserContext(), conv); err != nil {
			slog.Error("Failed to create conversation", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to create conversation",
			})
		}

		slog.Info("Conversation created", "conversationID", conv.ID)
		return c.JSON(conv)
	}
}

func deleteConversation(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		conv := middleware.Conversation(c)

		err := deps.Store.DeleteConversation(c.UserContext(), conv.ID)
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Conversation not found",
			})
		}
		if err != nil {
			slog.Error("Failed to delete conversation", "error", err, "conversationID", conv.ID)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to delete conversation",
			})
		}

		if deps.UploadDir != "" {
			if err := os.RemoveAll(filepath.Join(deps.UploadDir, conv.ID)); err != nil {
				slog.Warn("Failed to remove conversation uploads", "error", err, "conversationID", conv.ID)
			}
		}
		if deps.Hub != nil {
			deps.Hub.Broadcast(conv.ID, services.EventConversationDeleted, fiber.Map{"id": conv.ID})
		}

		slog.Info("Conversation deleted", "conversationID", conv.ID)
		return c.JSON(fiber.Map{"message": "Conversation deleted successfully"})
	}
}
