package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetBoolEnv returns a bool environment variable or a default value.
func GetBoolEnv(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("APP_ENV", "development") == "production"
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	Debug           bool
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN built from the parts.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

type RedisConfig struct {
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
	InboxTTL time.Duration
}

type NotificationConfig struct {
	SendGridAPIKey   string
	MailFromAddress  string
	MailFromName     string
	FirebaseCredFile string
	TelegramBotToken string
	AppURL           string
}

type Config struct {
	Port         string
	JWTSecret    string
	CORSOrigins  string
	RateLimitMax int
	Database     DatabaseConfig
	Redis        RedisConfig
	Notification NotificationConfig
}

// Load assembles the application configuration from the environment.
func Load() *Config {
	return &Config{
		Port:         GetEnv("PORT", "3000"),
		JWTSecret:    GetEnv("AUTH_JWT_SECRET", "brokebesties-dev-secret"),
		CORSOrigins:  GetEnv("CORS_ORIGINS", "http://localhost:3001"),
		RateLimitMax: GetIntEnv("RATE_LIMIT_MAX", 120),
		Database: DatabaseConfig{
			URL:             GetEnv("DATABASE_URL", ""),
			Host:            GetEnv("DB_HOST", "localhost"),
			Port:            GetEnv("DB_PORT", "5432"),
			User:            GetEnv("DB_USER", "postgres"),
			Password:        GetEnv("DB_PASSWORD", "postgres"),
			Name:            GetEnv("DB_NAME", "brokebesties"),
			SSLMode:         GetEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    GetIntEnv("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:    GetIntEnv("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: durationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: durationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
			Debug:           GetBoolEnv("DB_DEBUG", false),
		},
		Redis: RedisConfig{
			URL:      GetEnv("REDIS_URL", ""),
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetIntEnv("REDIS_DB", 0),
			InboxTTL: time.Duration(GetIntEnv("INBOX_CACHE_TTL_SECONDS", 300)) * time.Second,
		},
		Notification: NotificationConfig{
			SendGridAPIKey:   GetEnv("SENDGRID_API_KEY", ""),
			MailFromAddress:  GetEnv("MAIL_FROM_ADDRESS", "noreply@brokebesties.app"),
			MailFromName:     GetEnv("MAIL_FROM_NAME", "BrokeBesties"),
			FirebaseCredFile: GetEnv("FIREBASE_CREDENTIALS_FILE", ""),
			TelegramBotToken: GetEnv("TELEGRAM_BOT_TOKEN", ""),
			AppURL:           strings.TrimRight(GetEnv("APP_URL", "http://localhost:3001"), "/"),
		},
	}
}

func durationEnv(key string, defaultVal time.Duration) time.Duration {
	if d, err := time.ParseDuration(GetEnv(key, "")); err == nil {
		return d
	}
	return defaultVal
}
