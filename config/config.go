package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"bilgin-chat/routing"
)

// ProviderConfig is the connection info for one external provider.
type ProviderConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Configured reports whether the provider has an endpoint.
func (p ProviderConfig) Configured() bool {
	return p.BaseURL != ""
}

type Config struct {
	// MongoDB configuration
	MongoURI     string
	DatabaseName string

	// Server configuration
	Port        string
	CORSOrigins string
	LogLevel    string

	// Uploads
	UploadDir   string
	MaxUploadMB int

	// Conversations with no messages older than this are removed
	StaleConversationTTL time.Duration

	// Providers
	RAGPro    ProviderConfig
	RAGFree   ProviderConfig
	LLM       ProviderConfig
	Search    ProviderConfig
	Localizer ProviderConfig

	// SearchRPM caps web-search calls per minute
	SearchRPM int
}

func LoadConfig() *Config {
	cfg := &Config{
		MongoURI:             getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DatabaseName:         getEnv("MONGO_DB_NAME", "bilgin_chat"),
		Port:                 getEnv("PORT", "8001"),
		CORSOrigins:          getEnv("CORS_ORIGINS", "*"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		UploadDir:            getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadMB:          getEnvInt("MAX_UPLOAD_MB", 10),
		StaleConversationTTL: getEnvDuration("STALE_CONVERSATION_TTL", 24*time.Hour),
		RAGPro:               loadProvider("RAG_PRO", "", 30*time.Second),
		RAGFree:              loadProvider("RAG_FREE", "", 30*time.Second),
		LLM:                  loadProvider("LLM", "deepseek/deepseek-v3-0324", 30*time.Second),
		Search:               loadProvider("SEARCH", "", 8*time.Second),
		Localizer:            loadProvider("LOCALIZER", "gpt-5-nano", 15*time.Second),
		SearchRPM:            getEnvInt("SEARCH_RPM", 60),
	}

	if cfg.Search.BaseURL == "" && cfg.Search.APIKey != "" {
		cfg.Search.BaseURL = "https://google.serper.dev"
	}

	cfg.Validate()

	return cfg
}

// Validate logs a warning for every missing provider. The router still runs
// without them; a missing provider is a failing step.
func (c *Config) Validate() []string {
	var missing []string
	if c.MongoURI == "" {
		slog.Error("MONGO_URI not set")
		missing = append(missing, "MONGO_URI")
	}
	providers := []struct {
		prefix string
		cfg    ProviderConfig
	}{
		{"RAG_PRO", c.RAGPro},
		{"RAG_FREE", c.RAGFree},
		{"LLM", c.LLM},
		{"SEARCH", c.Search},
		{"LOCALIZER", c.Localizer},
	}
	for _, p := range providers {
		if !p.cfg.Configured() {
			slog.Warn("Provider not configured", "provider", p.prefix, "env", p.prefix+"_URL")
			missing = append(missing, p.prefix+"_URL")
		}
	}
	return missing
}

// RouterConfig converts the provider timeouts into router settings.
func (c *Config) RouterConfig() routing.Config {
	rc := routing.DefaultConfig()
	rc.Timeouts = map[routing.ProviderID]time.Duration{
		routing.ProviderRAGPro:    c.RAGPro.Timeout,
		routing.ProviderRAGFree:   c.RAGFree.Timeout,
		routing.ProviderLLM:       c.LLM.Timeout,
		routing.ProviderWebSearch: c.Search.Timeout,
		routing.ProviderLocalizer: c.Localizer.Timeout,
	}
	rc.Personalities = PersonalityPrompts()
	return rc
}

// SlogLevel maps LOG_LEVEL to a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func loadProvider(prefix, defaultModel string, defaultTimeout time.Duration) ProviderConfig {
	return ProviderConfig{
		BaseURL: strings.TrimRight(getEnv(prefix+"_URL", ""), "/"),
		APIKey:  getEnv(prefix+"_API_KEY", ""),
		Model:   getEnv(prefix+"_MODEL", defaultModel),
		Timeout: getEnvDuration(prefix+"_TIMEOUT", defaultTimeout),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("Invalid integer in environment, using default", "key", key, "value", value)
		return defaultValue
	}
	return n
}

// getEnvDuration accepts Go durations ("30s") or plain seconds ("30").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second
	}
	slog.Warn("Invalid duration in environment, using default", "key", key, "value", value)
	return defaultValue
}
