package services

import (
	"context"
	"log/slog"
	"time"
)

// StaleConversationDeleter removes empty conversations created before cutoff.
type StaleConversationDeleter interface {
	DeleteStaleConversations(ctx context.Context, cutoff time.Time) (int64, error)
}

// CleanupStaleConversations runs one cleanup pass.
func CleanupStaleConversations(ctx context.Context, store StaleConversationDeleter, ttl time.Duration) (int64, error) {
	return store.DeleteStaleConversations(ctx, time.Now().Add(-ttl))
}

// StartConversationCleanup starts a background goroutine that hourly removes
// conversations that never got a message and are older than ttl.
func StartConversationCleanup(ctx context.Context, store StaleConversationDeleter, ttl, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Info("Conversation cleanup stopped")
				return
			case <-ticker.C:
				cleanupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
				count, err := CleanupStaleConversations(cleanupCtx, store, ttl)
				if err != nil {
					slog.Error("Failed to cleanup stale conversations", "error", err)
				} else if count > 0 {
					slog.Info("Cleaned up stale conversations", "count", count)
				}
				cancel()
			}
		}
	}()

	slog.Info("Conversation cleanup started", "ttl", ttl, "interval", interval)
}
