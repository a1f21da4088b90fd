package config

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
}

// Enabled reports whether enough R2 settings are present to build a client.
func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" && c.BucketName != ""
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type Config struct {
	DB_URL         string
	Port           string
	JWTSecret      string
	TokenTTL       time.Duration
	Environment    string
	LogLevel       string
	FrontendURL    string
	TrustedDomains []string
	CorsConfig     cors.Options

	RedisURL     string
	UserCacheTTL time.Duration

	SendGridAPIKey   string
	AlertSender      string
	AlertRatePerHour int

	R2     R2Config
	Google GoogleConfig
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// DefaultJWTSecret is only good enough for local development.
const DefaultJWTSecret = "not-so-secret-now-is-it?"

var ErrInsecureJWTSecret = errors.New("JWT_SECRET must be set to a non-default value in production")

// Validate rejects settings that must never reach a production deployment.
func (c Config) Validate() error {
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		return ErrInsecureJWTSecret
	}
	return nil
}

// Load reads the optional env file and builds the configuration from the
// process environment.
func Load() Config {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("No", envFile, "file found")
	}

	origins := getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"})

	return Config{
		DB_URL:         getEnv("DB_URL", ""),
		Port:           getEnv("PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", DefaultJWTSecret),
		TokenTTL:       getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
		Environment:    getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:5173"),
		TrustedDomains: getEnvAsList("TRUSTED_DOMAINS", nil),
		CorsConfig:     CorsConfig(origins),

		RedisURL:     getEnv("REDIS_URL", ""),
		UserCacheTTL: getEnvAsDuration("USER_CACHE_TTL", 10*time.Minute),

		SendGridAPIKey:   getEnv("SENDGRID_API_KEY", ""),
		AlertSender:      getEnv("ALERT_SENDER", "no-reply@evently.local"),
		AlertRatePerHour: getEnvAsInt("ALERT_RATE_PER_HOUR", 0),

		R2: R2Config{
			AccountID:       getEnv("R2_ACCOUNT_ID", ""),
			AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnv("R2_BUCKET_NAME", ""),
			Region:          getEnv("R2_REGION", "auto"),
		},
		Google: GoogleConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback"),
		},
	}
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s: %q, using %d", key, value, fallback)
		return fallback
	}
	return n
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration for %s: %q, using %s", key, value, fallback)
		return fallback
	}
	return d
}

// getEnvAsList splits a comma separated value, dropping blanks.
func getEnvAsList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func CorsConfig(origins []string) cors.Options {
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}
}
