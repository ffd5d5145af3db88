package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	DBPath     string
	CORSOrigin string

	OpenRouterAPIKey  string
	OpenRouterReferer string
	OpenRouterTitle   string
	AITimeout         time.Duration
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		DBPath:            getEnv("DB_PATH", "./data/pm.db"),
		CORSOrigin:        getEnv("CORS_ORIGIN", "*"),
		OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterReferer: getEnv("OPENROUTER_HTTP_REFERER", ""),
		OpenRouterTitle:   getEnv("OPENROUTER_APP_TITLE", ""),
		AITimeout:         time.Duration(getEnvInt("AI_TIMEOUT_SECONDS", 20)) * time.Second,
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return parsed
}
