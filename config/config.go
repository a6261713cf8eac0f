package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port    string
	LogMode string

	DBDriver   string // postgres or sqlite
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	JWTKey     string
	SessionTTL time.Duration

	UpstreamApiURL  string
	UpstreamTimeout time.Duration

	RedisAddr string

	SendgridApiKey string
	EmailSender    string
	AppName        string

	LivePollInterval time.Duration
	Location         *time.Location
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:    getEnv("PORT", "3000"),
		LogMode: getEnv("LOG_MODE", "development"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "lms_gateway"),
		DBPort:     getEnv("DB_PORT", "5432"),

		JWTKey:     getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SessionTTL: time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)) * time.Hour,

		UpstreamApiURL:  getEnv("UPSTREAM_API_URL", "http://localhost:8000/api"),
		UpstreamTimeout: time.Duration(getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 15)) * time.Second,

		RedisAddr: getEnv("REDIS_ADDR", ""),

		SendgridApiKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@lms.local"),
		AppName:        getEnv("APP_NAME", "LMS"),

		LivePollInterval: getEnvDuration("LIVE_POLL_INTERVAL", 5*time.Second),
		Location:         getEnvLocation("TIMEZONE", time.Local),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.SendgridApiKey == "" {
		log.Println("Warning: SENDGRID_API_KEY not set. Emails will be printed to the console.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

// getEnvDuration accepts Go duration strings ("5s", "1m") or a plain number of seconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	log.Printf("Error converting environment variable %s to duration: %q", key, value)
	return defaultValue
}

func getEnvLocation(key string, defaultValue *time.Location) *time.Location {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	loc, err := time.LoadLocation(value)
	if err != nil {
		log.Printf("Error loading time zone %s=%q: %v", key, value, err)
		return defaultValue
	}
	return loc
}
