package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	GinMode string

	// Firebase
	FirebaseProjectID string
	FirebaseCredJSON  string // full service-account JSON, from FIREBASE_SERVICE_ACCOUNT

	// Shared secret for POST /sendPush. Empty means the endpoint is open.
	APIKey string

	// Trigger Adapter (Firestore change feed on the notifications collection)
	TriggerEnabled bool

	// Server
	ServerShutdownTimeoutSeconds int

	// Logging
	LogLevel  string
	LogFormat string
}

var AppConfig *Config

func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Port:    getEnvOrDefault("PORT", "3000"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),

		// Firebase
		FirebaseProjectID: getEnvOrDefault("FIREBASE_PROJECT_ID", ""),
		FirebaseCredJSON:  getEnvOrDefault("FIREBASE_SERVICE_ACCOUNT", ""),

		// Shared secret
		APIKey: getEnvOrDefault("API_KEY", ""),

		// Trigger Adapter
		TriggerEnabled: getEnvOrDefault("TRIGGER_ENABLED", "true") == "true",

		// Server
		ServerShutdownTimeoutSeconds: getEnvAsInt("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 30),

		// Logging
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "debug"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "text"),
	}

	// The backend credential is the one thing the process cannot run without.
	if AppConfig.FirebaseCredJSON == "" {
		log.Fatal("FIREBASE_SERVICE_ACCOUNT is not set")
	}

	if AppConfig.APIKey == "" {
		log.Println("Warning: API_KEY is not set. POST /sendPush will accept unauthenticated requests.")
	}

	if AppConfig.FirebaseProjectID == "" {
		log.Println("No FIREBASE_PROJECT_ID set, project will be taken from the service account")
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		} else {
			log.Printf("Warning: Failed to parse environment variable %s='%s' as int, using default %d: %v", key, value, defaultValue, err)
		}
	}
	return defaultValue
}
