package handlers

import (
	"context"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"bilgin-chat/middleware"
	"bilgin-chat/models"
	"bilgin-chat/routing"
)

// Store is the persistence the API needs.
type Store interface {
	ListConversations(ctx context.Context) ([]models.Conversation, error)
	CreateConversation(ctx context.Context, conv *models.Conversation) error
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	UpdateConversation(ctx context.Context, id, title string, updatedAt time.Time) error
	DeleteConversation(ctx context.Context, id string) error
	SaveMessage(ctx context.Context, message *models.Message) error
	ListMessages(ctx context.Context, conversationID string) ([]models.Message, error)
	CountMessages(ctx context.Context, conversationID string) (int64, error)
	SaveFile(ctx context.Context, file *models.UploadedFile) error
	ListFiles(ctx context.Context, conversationID string) ([]models.UploadedFile, error)
	LatestFile(ctx context.Context, conversationID string) (*models.UploadedFile, error)
}

// Router answers a user turn.
type Router interface {
	Route(ctx context.Context, req routing.Request) routing.Result
}

// Broadcaster pushes conversation events to live subscribers.
type Broadcaster interface {
	Broadcast(conversationID, eventType string, data interface{})
}

// Deps are the collaborators of the HTTP API.
type Deps struct {
	Store     Store
	Router    Router
	Hub       Broadcaster
	UploadDir string
	// MaxUploadBytes caps a single upload
	MaxUploadBytes int64
	// RouteTimeout bounds one full routing pass
	RouteTimeout time.Duration
}

// RegisterRoutes mounts the chat API under /api.
func RegisterRoutes(app *fiber.App, deps Deps) {
	if deps.RouteTimeout <= 0 {
		deps.RouteTimeout = 2 * time.Minute
	}

	api := app.Group("/api")
	api.Get("/", apiRoot)

	api.Get("/conversations", listConversations(deps))
	api.Post("/conversations", createConversation(deps))

	conv := api.Group("/conversations/:conversationID", middleware.RequireConversation(deps.Store))
	conv.Delete("", deleteConversation(deps))
	conv.Get("/messages", listMessages(deps))
	conv.Post("/messages", middleware.ValidateMessage, sendMessage(deps))
	conv.Post("/upload", uploadFile(deps))
	conv.Get("/files", listFiles(deps))

	if hub, ok := deps.Hub.(WebSocketHub); ok {
		conv.Get("/ws", WebSocketUpgrade, websocket.New(handleWebSocket(hub)))
	}
}

func apiRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "BİLGİN AI Chat API"})
}
