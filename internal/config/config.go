package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
	}

	Server struct {
		Port     string
		GinMode  string
		BaseURL  string
		LogLevel string
	}

	SMTP struct {
		Host     string
		Port     string
		User     string
		Password string
		From     string
		FromName string
	}

	JWT struct {
		Secret      string
		ExpiryHours int
	}

	RateLimit struct {
		RequestsPerSecond float64
		Burst             int
	}

	CORS struct {
		AllowOrigins string
		AllowMethods string
		AllowHeaders string
	}
}

// Load loads configuration from environment variables
func Load() *Config {
	_ = godotenv.Load()

	config := &Config{}

	config.DB.Host = getEnv("DB_HOST", "localhost")
	config.DB.Port = getEnv("DB_PORT", "5432")
	config.DB.User = getEnv("DB_USER", "paroisse")
	config.DB.Password = getEnv("DB_PASSWORD", "paroisse_password")
	config.DB.Name = getEnv("DB_NAME", "paroisse_db")
	config.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	config.Server.Port = getEnv("PORT", "8080")
	config.Server.GinMode = getEnv("GIN_MODE", "debug")
	config.Server.BaseURL = getEnv("BASE_URL", "http://localhost:3000")
	config.Server.LogLevel = getEnv("LOG_LEVEL", "info")

	config.SMTP.Host = getEnv("SMTP_HOST", "localhost")
	config.SMTP.Port = getEnv("SMTP_PORT", "587")
	config.SMTP.User = getEnv("SMTP_USER", "")
	config.SMTP.Password = getEnv("SMTP_PASSWORD", "")
	config.SMTP.From = getEnv("SMTP_FROM", "contact@paroisse.local")
	config.SMTP.FromName = getEnv("SMTP_FROM_NAME", "Paroisse Espérance")

	config.JWT.Secret = getEnv("JWT_SECRET", "dev-secret-change-me")
	config.JWT.ExpiryHours = getEnvAsInt("JWT_EXPIRY_HOURS", 24)

	config.RateLimit.RequestsPerSecond = getEnvAsFloat("RATE_LIMIT_RPS", 5)
	config.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", 10)

	config.CORS.AllowOrigins = getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	config.CORS.AllowMethods = getEnv("CORS_ALLOW_METHODS", "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS")
	config.CORS.AllowHeaders = getEnv("CORS_ALLOW_HEADERS", "Origin,Content-Length,Content-Type,Authorization")

	return config
}

// GetDatabaseURL returns the database connection URL
func (c *Config) GetDatabaseURL() string {
	return "postgres://" + c.DB.User + ":" + c.DB.Password + "@" + c.DB.Host + ":" + c.DB.Port + "/" + c.DB.Name + "?sslmode=" + c.DB.SSLMode
}

// GetSMTPAddr returns the SMTP server address as host:port
func (c *Config) GetSMTPAddr() string {
	return c.SMTP.Host + ":" + c.SMTP.Port
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat gets an environment variable as float64 or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
