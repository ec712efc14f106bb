package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Query    QueryConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	JwtSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	LLMProvider    string // "ollama" or "openai"
	LLMModel       string
	OllamaBaseURL  string
	OpenAIAPIKey   string
	OpenAIBaseURL  string // optional override for OpenAI-compatible gateways
	EmbeddingModel string
}

type QueryConfig struct {
	// CacheDistanceThreshold is the maximum cosine distance for a
	// semantic cache hit. Lower is stricter.
	CacheDistanceThreshold float64
	StreamTimeoutSeconds   int
	ResultRowLimit         int // rows serialized to the client
	ExecRowCap             int // rows read from the warehouse
	HistoryWindow          int // prior turns fed to the contextualizer
	TrainTopic             string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:    getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:       getEnv("LLM_MODEL", "qwen2.5-coder:7b"),
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
			EmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		},
		Query: QueryConfig{
			CacheDistanceThreshold: getEnvAsFloat("CACHE_DISTANCE_THRESHOLD", 0.35),
			StreamTimeoutSeconds:   getEnvAsInt("LLM_STREAM_TIMEOUT_SECONDS", 120),
			ResultRowLimit:         getEnvAsInt("RESULT_ROW_LIMIT", 10),
			ExecRowCap:             getEnvAsInt("SQL_EXEC_ROW_CAP", 10000),
			HistoryWindow:          getEnvAsInt("HISTORY_WINDOW", 5),
			TrainTopic:             getEnv("TRAIN_QUERY_TOPIC_NAME", "TRAIN_QUERY_CACHE"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
