package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv  string
	AppPort string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	JWTSecret string

	PaynowIntegrationID  string
	PaynowIntegrationKey string
	PaynowReturnURL      string
	PaynowResultURL      string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	// Pending orders older than this are swept to Cancelled.
	PendingOrderTTL time.Duration
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:  os.Getenv("APP_ENV"),
		AppPort: getEnv("APP_PORT", "8080"),

		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     getEnv("DB_PORT", "5432"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		PaynowIntegrationID:  os.Getenv("PAYNOW_INTEGRATION_ID"),
		PaynowIntegrationKey: os.Getenv("PAYNOW_INTEGRATION_KEY"),
		PaynowReturnURL:      os.Getenv("PAYNOW_RETURN_URL"),
		PaynowResultURL:      os.Getenv("PAYNOW_RESULT_URL"),

		SMTPHost:     os.Getenv("EMAIL_HOST"),
		SMTPPort:     getEnvInt("EMAIL_PORT", 587),
		SMTPUser:     os.Getenv("EMAIL_USER"),
		SMTPPassword: os.Getenv("EMAIL_PASSWORD"),
		MailFrom:     getEnv("EMAIL_FROM", "WyZar <noreply@wyzar.co.zw>"),

		PendingOrderTTL: getEnvDuration("PENDING_ORDER_TTL", 24*time.Hour),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return d
}
