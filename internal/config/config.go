package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration. It is read once at startup
// and never reloaded.
type Config struct {
	ServerPort        int
	DBRegionName      string
	DBAccessKeyID     string
	DBSecretAccessKey string
	DBTableName       string
	DBEndpoint        string // optional override for local DynamoDB
	LogLevel          string
	BcryptCost        int
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	costStr := getEnv("BCRYPT_COST", "10")
	cost, err := strconv.Atoi(costStr)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:        port,
		DBRegionName:      getEnv("DB_REGION_NAME", "us-east-1"),
		DBAccessKeyID:     os.Getenv("DB_ACCESS_KEY_ID"),
		DBSecretAccessKey: os.Getenv("DB_SECRET_ACCESS_KEY"),
		DBTableName:       getEnv("DB_TABLE_NAME", "users"),
		DBEndpoint:        os.Getenv("DB_ENDPOINT"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		BcryptCost:        cost,
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
