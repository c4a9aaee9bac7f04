package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilgin-chat/routing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"MONGO_URI", "PORT", "MAX_UPLOAD_MB", "LLM_URL", "LLM_TIMEOUT", "SEARCH_URL", "SEARCH_API_KEY"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "8001", cfg.Port)
	assert.Equal(t, 10, cfg.MaxUploadMB)
	assert.Equal(t, 24*time.Hour, cfg.StaleConversationTTL)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 8*time.Second, cfg.Search.Timeout)
	assert.False(t, cfg.LLM.Configured())
	assert.Empty(t, cfg.Search.BaseURL)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("RAG_PRO_URL", "http://rag.local/api/v1/workspace/bilgin/chat/")
	t.Setenv("RAG_PRO_API_KEY", "secret")
	t.Setenv("LLM_TIMEOUT", "12s")
	t.Setenv("SEARCH_API_KEY", "serper-key")
	t.Setenv("SEARCH_URL", "")
	t.Setenv("LOCALIZER_TIMEOUT", "20")
	t.Setenv("MAX_UPLOAD_MB", "25")
	t.Setenv("SEARCH_RPM", "oops")

	cfg := LoadConfig()

	assert.Equal(t, "http://rag.local/api/v1/workspace/bilgin/chat", cfg.RAGPro.BaseURL)
	assert.Equal(t, "secret", cfg.RAGPro.APIKey)
	assert.Equal(t, 12*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 20*time.Second, cfg.Localizer.Timeout)
	assert.Equal(t, "https://google.serper.dev", cfg.Search.BaseURL)
	assert.Equal(t, 25, cfg.MaxUploadMB)
	assert.Equal(t, 60, cfg.SearchRPM)
}

func TestValidate_ReportsMissingProviders(t *testing.T) {
	cfg := &Config{MongoURI: "mongodb://x", LLM: ProviderConfig{BaseURL: "http://llm"}}

	missing := cfg.Validate()

	assert.ElementsMatch(t, []string{"RAG_PRO_URL", "RAG_FREE_URL", "SEARCH_URL", "LOCALIZER_URL"}, missing)
}

func TestRouterConfig(t *testing.T) {
	cfg := &Config{
		RAGPro: ProviderConfig{Timeout: 5 * time.Second},
		Search: ProviderConfig{Timeout: 2 * time.Second},
	}

	rc := cfg.RouterConfig()

	assert.Equal(t, 5*time.Second, rc.Timeouts[routing.ProviderRAGPro])
	assert.Equal(t, 2*time.Second, rc.Timeouts[routing.ProviderWebSearch])
	require.Contains(t, rc.Personalities, routing.ModeFriend)
	assert.NotContains(t, rc.Personalities, routing.ModeNormal)
}

func TestPersonalityPrompts_CoverEveryMode(t *testing.T) {
	prompts := PersonalityPrompts()
	for _, mode := range []routing.Mode{
		routing.ModeFriend, routing.ModeRealistic, routing.ModeCoach,
		routing.ModeLawyer, routing.ModeTeacher, routing.ModeMinimalist,
	} {
		assert.NotEmpty(t, prompts[mode], mode)
	}
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, (&Config{LogLevel: "DEBUG"}).SlogLevel())
	assert.Equal(t, slog.LevelWarn, (&Config{LogLevel: "warning"}).SlogLevel())
	assert.Equal(t, slog.LevelInfo, (&Config{LogLevel: "verbose"}).SlogLevel())
}
