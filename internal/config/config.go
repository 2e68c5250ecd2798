package config

import (
	"os"
	"strconv"
	"time"

	"github.com/yukikurage/project-board/internal/constants"
)

// Config is the API server configuration, read from the environment.
type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string
	GinMode    string
	Port       string
	LogLevel   string
	TokenTTL   time.Duration
}

func Load() *Config {
	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "boarduser"),
		DBPassword: getEnv("DB_PASSWORD", "boardpassword"),
		DBName:     getEnv("DB_NAME", "project_board"),
		DBPath:     getEnv("DB_PATH", "project_board.db"),
		GinMode:    getEnv("GIN_MODE", "debug"),
		Port:       getEnv("PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		TokenTTL:   getHours("TOKEN_TTL_HOURS", constants.DefaultTokenTTL),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getHours(key string, defaultValue time.Duration) time.Duration {
	hours, err := strconv.Atoi(os.Getenv(key))
	if err != nil || hours <= 0 {
		return defaultValue
	}
	return time.Duration(hours) * time.Hour
}
