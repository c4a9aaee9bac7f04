package handlers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"bilgin-chat/middleware"
	"bilgin-chat/models"
	"bilgin-chat/routing"
	"bilgin-chat/services"
)

func listMessages(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		conv := middleware.Conversation(c)
		messages, err := deps.Store.ListMessages(c.UserContext(), conv.ID)
		if err != nil {
			slog.Error("Failed to list messages", "error", err, "conversationID", conv.ID)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to list messages",
			})
		}
		return c.JSON(messages)
	}
}

// sendMessage stores the user turn, routes it and stores the answer. Provider
// failures never surface as HTTP errors; the router answers with an apology.
func sendMessage(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		conv := middleware.Conversation(c)
		input := middleware.MessageInput(c)
		ctx := c.UserContext()

		userMessage := &models.Message{
			ID:             uuid.New().String(),
			ConversationID: conv.ID,
			Role:           models.RoleUser,
			Content:        input.Content,
			Timestamp:      time.Now().UTC(),
		}
		if err := deps.Store.SaveMessage(ctx, userMessage); err != nil {
			slog.Error("Failed to save user message", "error", err, "conversationID", conv.ID)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to save message",
			})
		}
		broadcast(deps, conv.ID, services.EventNewMessage, userMessage)

		var title string
		if count, err := deps.Store.CountMessages(ctx, conv.ID); err != nil {
			slog.Warn("Failed to count messages", "error", err, "conversationID", conv.ID)
		} else if count == 1 {
			title = services.GenerateTitle(input.Content)
		}

		req := routing.Request{
			Question:  input.Content,
			SessionID: conv.ID,
			Context: routing.RoutingContext{
				Tier: routing.ParseTier(input.Version),
				Mode: routing.ParseMode(input.ConversationMode),
			},
			File: fileContext(ctx, deps.Store, conv.ID, input.Content),
		}

		routeCtx, cancel := context.WithTimeout(ctx, deps.RouteTimeout)
		result := deps.Router.Route(routeCtx, req)
		cancel()

		assistantMessage := &models.Message{
			ID:             uuid.New().String(),
			ConversationID: conv.ID,
			Role:           models.RoleAssistant,
			Content:        result.Text,
			Provider:       string(result.Provider),
			Category:       string(result.Category),
			QuestionLabel:  string(result.QuestionCategory),
			Timestamp:      time.Now().UTC(),
		}
		if err := deps.Store.SaveMessage(ctx, assistantMessage); err != nil {
			slog.Error("Failed to save assistant message", "error", err, "conversationID", conv.ID)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to save message",
			})
		}

		if err := deps.Store.UpdateConversation(ctx, conv.ID, title, time.Now().UTC()); err != nil {
			slog.Warn("Failed to update conversation", "error", err, "conversationID", conv.ID)
		}
		broadcast(deps, conv.ID, services.EventNewMessage, assistantMessage)

		slog.Info("Message answered",
			"conversationID", conv.ID,
			"provider", result.Provider,
			"category", result.Category,
			"attempts", len(result.Attempts),
			"exhausted", result.Exhausted,
		)
		return c.JSON(assistantMessage)
	}
}

// fileContext loads the latest upload when the question refers to a file.
func fileContext(ctx context.Context, store Store, conversationID, question string) *routing.FileContext {
	if !routing.IsFileRelated(question, true) {
		return nil
	}
	file, err := store.LatestFile(ctx, conversationID)
	if errors.Is(err, services.ErrNotFound) {
		return nil
	}
	if err != nil {
		slog.Warn("Failed to load uploaded file", "error", err, "conversationID", conversationID)
		return nil
	}
	return &routing.FileContext{Name: file.FileName, Text: file.ExtractedText}
}

func broadcast(deps Deps, conversationID, eventType string, data interface{}) {
	if deps.Hub != nil {
		deps.Hub.Broadcast(conversationID, eventType, data)
	}
}
