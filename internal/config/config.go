package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI            string
	MongoDBName         string
	RedisURL            string
	ServerPort          string
	JWTSecret           string
	FirebaseCredentials string
	AllowedOrigins      []string
	ShutdownTimeout     time.Duration
}

// LoadConfig reads environment variables from .env.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		return nil, err
	}

	dbName := os.Getenv("MONGO_DBNAME")
	if dbName == "" {
		dbName = "home_services"
	}

	origins := strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",")
	if len(origins) == 1 && origins[0] == "" {
		origins = []string{"http://localhost:3000", "http://localhost:8081"}
	}

	shutdownTimeout := 15 * time.Second
	if raw := os.Getenv("SHUTDOWN_TIMEOUT"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			shutdownTimeout = parsed
		}
	}

	return &Config{
		MongoURI:            os.Getenv("MONGO_URI"),
		MongoDBName:         dbName,
		RedisURL:            os.Getenv("REDIS_URL"),
		ServerPort:          os.Getenv("SERVER_PORT"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		FirebaseCredentials: os.Getenv("FIREBASE_CREDENTIALS_FILE"),
		AllowedOrigins:      origins,
		ShutdownTimeout:     shutdownTimeout,
	}, nil
}
