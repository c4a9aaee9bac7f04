package middleware

import (
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"bilgin-chat/models"
)

// ValidateMessage parses a MessageCreate body. Blank content and content
// longer than models.MaxMessageLength are rejected with 400.
func ValidateMessage(c *fiber.Ctx) error {
	var input models.MessageCreate
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	input.Content = strings.TrimSpace(input.Content)
	if input.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "content is required",
		})
	}
	if utf8.RuneCountInString(input.Content) > models.MaxMessageLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "content is too long",
			"limit": models.MaxMessageLength,
		})
	}
	if input.Mode == "" {
		input.Mode = "chat"
	}

	c.Locals(LocalMessageInput, &input)
	return c.Next()
}

// MessageInput returns the body stored by ValidateMessage.
func MessageInput(c *fiber.Ctx) *models.MessageCreate {
	input, _ := c.Locals(LocalMessageInput).(*models.MessageCreate)
	return input
}
