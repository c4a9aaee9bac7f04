package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bilgin-chat/models"
)

// ErrNotFound is returned when a conversation or file does not exist.
var ErrNotFound = errors.New("not found")

const (
	conversationsCollection = "conversations"
	messagesCollection      = "messages"
	filesCollection         = "uploaded_files"

	listLimit = 1000
)

// InitMongoDB initializes MongoDB connection
func InitMongoDB(ctx context.Context, uri string) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(uri)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	slog.Info("Connected to MongoDB")

	return client, nil
}

// MongoStore persists conversations, messages and uploaded files.
type MongoStore struct {
	database *mongo.Database
}

// NewMongoStore opens the named database and creates its indexes.
func NewMongoStore(client *mongo.Client, databaseName string) *MongoStore {
	s := &MongoStore{database: client.Database(databaseName)}
	s.createIndexes()
	return s
}

// createIndexes creates necessary database indexes
func (s *MongoStore) createIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.database.Collection(conversationsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"id": 1}, Options: options.Index().SetUnique(true)},
		{Keys: bson.M{"updated_at": -1}},
		{Keys: bson.M{"created_at": 1}},
	}); err != nil {
		slog.Warn("Failed to create conversation indexes", "error", err)
	}

	if _, err := s.database.Collection(messagesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "timestamp", Value: 1}}},
	}); err != nil {
		slog.Warn("Failed to create message indexes", "error", err)
	}

	if _, err := s.database.Collection(filesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "uploaded_at", Value: -1}}},
	}); err != nil {
		slog.Warn("Failed to create file indexes", "error", err)
	}
}

// ListConversations returns conversations, most recently updated first.
func (s *MongoStore) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	opts := options.Find().SetSort(bson.M{"updated_at": -1}).SetLimit(listLimit)
	cursor, err := s.database.Collection(conversationsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find conversations: %w", err)
	}
	defer cursor.Close(ctx)

	conversations := []models.Conversation{}
	if err := cursor.All(ctx, &conversations); err != nil {
		return nil, fmt.Errorf("decode conversations: %w", err)
	}
	return conversations, nil
}

// CreateConversation saves a new conversation.
func (s *MongoStore) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	_, err := s.database.Collection(conversationsCollection).InsertOne(ctx, conv)
	return err
}

// GetConversation returns ErrNotFound when the conversation does not exist.
func (s *MongoStore) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.database.Collection(conversationsCollection).FindOne(ctx, bson.M{"id": id}).Decode(&conv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// UpdateConversation sets the title (when non-empty) and bumps updated_at.
func (s *MongoStore) UpdateConversation(ctx context.Context, id, title string, updatedAt time.Time) error {
	set := bson.M{"updated_at": updatedAt}
	if title != "" {
		set["title"] = title
	}
	_, err := s.database.Collection(conversationsCollection).UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	return err
}

// DeleteConversation removes a conversation with its messages and files.
func (s *MongoStore) DeleteConversation(ctx context.Context, id string) error {
	if _, err := s.database.Collection(messagesCollection).DeleteMany(ctx, bson.M{"conversation_id": id}); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	if _, err := s.database.Collection(filesCollection).DeleteMany(ctx, bson.M{"conversation_id": id}); err != nil {
		return fmt.Errorf("delete files: %w", err)
	}
	result, err := s.database.Collection(conversationsCollection).DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveMessage saves a message to database
func (s *MongoStore) SaveMessage(ctx context.Context, message *models.Message) error {
	_, err := s.database.Collection(messagesCollection).InsertOne(ctx, message)
	return err
}

// ListMessages returns a conversation's messages, oldest first.
func (s *MongoStore) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.M{"timestamp": 1}).SetLimit(listLimit)
	cursor, err := s.database.Collection(messagesCollection).Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return messages, nil
}

// CountMessages counts the messages of one conversation.
func (s *MongoStore) CountMessages(ctx context.Context, conversationID string) (int64, error) {
	return s.database.Collection(messagesCollection).CountDocuments(ctx, bson.M{"conversation_id": conversationID})
}

// SaveFile records an uploaded file.
func (s *MongoStore) SaveFile(ctx context.Context, file *models.UploadedFile) error {
	_, err := s.database.Collection(filesCollection).InsertOne(ctx, file)
	return err
}

// ListFiles returns a conversation's uploads, newest first.
func (s *MongoStore) ListFiles(ctx context.Context, conversationID string) ([]models.UploadedFile, error) {
	opts := options.Find().SetSort(bson.M{"uploaded_at": -1}).SetLimit(listLimit)
	cursor, err := s.database.Collection(filesCollection).Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find files: %w", err)
	}
	defer cursor.Close(ctx)

	files := []models.UploadedFile{}
	if err := cursor.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("decode files: %w", err)
	}
	return files, nil
}

// LatestFile returns the most recent upload, or ErrNotFound.
func (s *MongoStore) LatestFile(ctx context.Context, conversationID string) (*models.UploadedFile, error) {
	opts := options.FindOne().SetSort(bson.M{"uploaded_at": -1})
	var file models.UploadedFile
	err := s.database.Collection(filesCollection).FindOne(ctx, bson.M{"conversation_id": conversationID}, opts).Decode(&file)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// DeleteStaleConversations removes conversations created before cutoff that
// never received a message. It returns the number removed.
func (s *MongoStore) DeleteStaleConversations(ctx context.Context, cutoff time.Time) (int64, error) {
	opts := options.Find().SetProjection(bson.M{"id": 1})
	cursor, err := s.database.Collection(conversationsCollection).Find(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}}, opts)
	if err != nil {
		return 0, fmt.Errorf("find old conversations: %w", err)
	}
	defer cursor.Close(ctx)

	var candidates []models.Conversation
	if err := cursor.All(ctx, &candidates); err != nil {
		return 0, fmt.Errorf("decode old conversations: %w", err)
	}

	var stale []string
	for _, conv := range candidates {
		count, err := s.CountMessages(ctx, conv.ID)
		if err != nil {
			return 0, err
		}
		if count == 0 {
			stale = append(stale, conv.ID)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	if _, err := s.database.Collection(filesCollection).DeleteMany(ctx, bson.M{"conversation_id": bson.M{"$in": stale}}); err != nil {
		return 0, fmt.Errorf("delete stale files: %w", err)
	}
	result, err := s.database.Collection(conversationsCollection).DeleteMany(ctx, bson.M{"id": bson.M{"$in": stale}})
	if err != nil {
		return 0, fmt.Errorf("delete stale conversations: %w", err)
	}
	return result.DeletedCount, nil
}

// Ping checks the database connection for /health.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.database.Client().Ping(ctx, nil)
}
