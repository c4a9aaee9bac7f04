package handlers

import (
	"errors"
	"io"
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

// uploadFile stores a multipart "file" field and extracts its text for later
// file-related questions.
func uploadFile(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		conv := middleware.Conversation(c)

		header, err := c.FormFile("file")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "file is required",
			})
		}
		if deps.MaxUploadBytes > 0 && header.Size > deps.MaxUploadBytes {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
				"error": "file is too large",
				"limit": deps.MaxUploadBytes,
			})
		}

		src, err := header.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Failed to read file",
			})
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Failed to read file",
			})
		}

		fileName := filepath.Base(header.Filename)
		text, kind, err := services.ExtractText(fileName, data)
		if errors.Is(err, services.ErrUnsupportedFile) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
				"error": "Unsupported file type",
			})
		}
		if err != nil {
			slog.Warn("Failed to extract file text", "error", err, "fileName", fileName, "conversationID", conv.ID)
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "Could not read file content",
			})
		}

		file := &models.UploadedFile{
			ID:             uuid.New().String(),
			ConversationID: conv.ID,
			FileName:       fileName,
			FileType:       kind,
			Size:           int64(len(data)),
			ExtractedText:  text,
			UploadedAt:     time.Now().UTC(),
		}

		if deps.UploadDir != "" {
			dir := filepath.Join(deps.UploadDir, conv.ID)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				slog.Error("Failed to create upload directory", "error", err, "dir", dir)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Failed to store file",
				})
			}
			file.Path = filepath.Join(dir, file.ID+strings.ToLower(filepath.Ext(fileName)))
			if err := os.WriteFile(file.Path, data, 0o644); err != nil {
				slog.Error("Failed to write upload", "error", err, "path", file.Path)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Failed to store file",
				})
			}
		}

		if err := deps.Store.SaveFile(c.UserContext(), file); err != nil {
			slog.Error("Failed to save file record", "error", err, "conversationID", conv.ID)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to store file",
			})
		}
		broadcast(deps, conv.ID, services.EventFileUploaded, file)

		slog.Info("File uploaded",
			"conversationID", conv.ID,
			"fileName", fileName,
			"fileType", kind,
			"size", file.Size,
			"textLength", len(text),
		)
		return c.JSON(fiber.Map{
			"file":        file,
			"text_length": len([]rune(text)),
			"message":     "File uploaded successfully",
		})
	}
}

func listFiles(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		conv := middleware.Conversation(c)
		files, err := deps.Store.ListFiles(c.UserContext(), conv.ID)
		if err != nil {
			slog.Error("Failed to list files", "error", err, "conversationID", conv.ID)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to list files",
			})
		}
		return c.JSON(files)
	}
}
