package server

import (
	"fmt"
	"os"
	"strconv"
)

// Config is read once at process start. No hot-reload.
type Config struct {
	ListenAddr     string
	AppEnv         string
	FrontendOrigin string

	ProviderBaseURL string
	ProviderAPIKey  string
	EmbedModel      string
	ChatModel       string

	PGHost   string
	PGPort   int
	PGUser   string
	PGPass   string
	PGDBName string

	VectorDim          int
	ChunkSize          int
	ChunkOverlap       int
	EmbedWorkers       int
	TopK               int
	ScoreThreshold     float64
	ContextTokenBudget int
}

func LoadConfig() *Config {
	return &Config{
		ListenAddr:     getEnvWithDefault("SERVER_ADDR", ":8080"),
		AppEnv:         getEnvWithDefault("APP_ENV", "development"),
		FrontendOrigin: os.Getenv("FRONTEND_ORIGIN"),

		ProviderBaseURL: getEnvWithDefault("PROVIDER_BASE_URL", "https://api.openai.com/v1"),
		ProviderAPIKey:  os.Getenv("PROVIDER_API_KEY"),
		EmbedModel:      getEnvWithDefault("EMBED_MODEL", "text-embedding-3-small"),
		ChatModel:       getEnvWithDefault("CHAT_MODEL", "gpt-4o-mini"),

		PGHost:   getEnvWithDefault("PG_HOST", "localhost"),
		PGPort:   getEnvIntWithDefault("PG_PORT", 5432),
		PGUser:   getEnvWithDefault("PG_USER", "postgres"),
		PGPass:   os.Getenv("PG_PASS"),
		PGDBName: getEnvWithDefault("PG_DB_NAME", "docqa"),

		VectorDim:          getEnvIntWithDefault("VECTOR_DIM", 1536),
		ChunkSize:          getEnvIntWithDefault("CHUNK_SIZE", 500),
		ChunkOverlap:       getEnvIntWithDefault("CHUNK_OVERLAP", 100),
		EmbedWorkers:       getEnvIntWithDefault("EMBED_WORKERS", 8),
		TopK:               getEnvIntWithDefault("TOP_K", 5),
		ScoreThreshold:     getEnvFloatWithDefault("SCORE_THRESHOLD", 0.3),
		ContextTokenBudget: getEnvIntWithDefault("CONTEXT_TOKEN_BUDGET", 6000),
	}
}

func (c *Config) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.PGHost, c.PGPort, c.PGUser, c.PGPass, c.PGDBName)
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
