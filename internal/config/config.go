package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Init loads environment configuration and prepares the logger. It must be
// called once before any other package is wired.
//
// Recognized variables:
//
//	DATABASE_DSN          postgres connection string
//	JWT_SECRET            HMAC secret for bearer tokens
//	OPENROUTER_API_KEY    key for the Qwen provider
//	GEMINI_API_KEY        key for the Gemini provider
//	SUPABASE_URL          storage project URL
//	SUPABASE_SERVICE_KEY  storage service role key
//	LOG_LEVEL             logrus level (default info)
//	PORT                  local HTTP port (default 8080)
func Init() {
	_ = godotenv.Load()
	initLogger()
}

func Env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func OpenRouterAPIKey() string { return os.Getenv("OPENROUTER_API_KEY") }

func OpenRouterURL() string {
	return Env("OPENROUTER_URL", "https://openrouter.ai/api/v1/chat/completions")
}

func SupabaseURL() string { return os.Getenv("SUPABASE_URL") }

func SupabaseServiceKey() string { return os.Getenv("SUPABASE_SERVICE_KEY") }
