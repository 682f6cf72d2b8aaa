package config

import (
	"log"
	"os"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeCloud Mode = "cloud"
)

type Config struct {
	Mode Mode

	Port string

	GeminiAPIKey string
	ModelName    string

	GCPProjectID string

	StorageBackend string // "memory" or "firestore"
	StateDir       string // device-local state (reminder marker); "" = OS default
	UseMockLLM     bool   // true = use mock even in cloud mode
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

// Load reads all env vars and builds the config.
// The Gemini credential is deliberately NOT validated here: its absence
// is raised when the client is first constructed, not at config load.
func Load() *Config {
	modeStr := getEnv("JARVIS_MODE", "local")
	var mode Mode
	switch modeStr {
	case "cloud":
		mode = ModeCloud
	default:
		mode = ModeLocal
	}

	cfg := &Config{
		Mode: mode,

		Port: getEnv("JARVIS_PORT", "8080"),

		GeminiAPIKey: getEnv("JARVIS_GEMINI_API_KEY", os.Getenv("GEMINI_API_KEY")),
		ModelName:    getEnv("JARVIS_MODEL_NAME", "gemini-2.5-flash"),

		GCPProjectID: getEnv("JARVIS_GCP_PROJECT", ""),

		StorageBackend: getEnv("JARVIS_STORAGE_BACKEND", "memory"),
		StateDir:       getEnv("JARVIS_STATE_DIR", ""),
		UseMockLLM:     getBoolEnv("JARVIS_USE_MOCK_LLM", mode == ModeLocal),
	}

	// Minimal validation for the Firestore backend
	if cfg.StorageBackend == "firestore" && cfg.GCPProjectID == "" {
		log.Fatal("JARVIS_GCP_PROJECT must be set for the firestore storage backend")
	}

	return cfg
}
