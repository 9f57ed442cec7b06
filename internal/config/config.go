package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Twilio   TwilioConfig
	Ai       AIConfig
	Business BusinessConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
	UseMemoryStore     bool
	SessionTTLSeconds  int
	ConversationTopic  string
}

type TwilioConfig struct {
	AccountSID   string
	AuthToken    string
	WhatsAppFrom string
}

type AIConfig struct {
	LLMProvider         string // "openai" or "ollama"
	LLMModel            string
	OpenAIAPIKey        string
	OpenAIBaseURL       string // For OpenAI-compatible APIs
	OllamaBaseURL       string
	ModelTimeoutSeconds int
}

type BusinessConfig struct {
	ID string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("PORT", "5000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			UseMemoryStore:     getEnv("USE_MEMORY_STORE", "false") == "true",
			SessionTTLSeconds:  getEnvAsInt("SESSION_TTL_SECONDS", 3600),
			ConversationTopic:  getEnv("CONVERSATION_TOPIC_NAME", "CONVERSATION_TURNS"),
		},
		Twilio: TwilioConfig{
			AccountSID:   getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:    getEnv("TWILIO_AUTH_TOKEN", ""),
			WhatsAppFrom: getEnv("TWILIO_WHATSAPP_NUMBER", ""),
		},
		Ai: AIConfig{
			LLMProvider:         getEnv("LLM_PROVIDER", "openai"),
			LLMModel:            getEnv("LLM_MODEL", "gpt-3.5-turbo"),
			OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", ""),
			OllamaBaseURL:       getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			ModelTimeoutSeconds: getEnvAsInt("MODEL_TIMEOUT_SECONDS", 60),
		},
		Business: BusinessConfig{
			ID: getEnv("BUSINESS_ID", "demo"),
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
