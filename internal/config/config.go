package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPPort       int
	FrontendURL    string
	AllowedOrigins []string

	DBConfig struct {
		Host     string
		Port     int
		User     string
		Password string
		Name     string
		SSLMode  string
	}

	RedisAddr     string
	RedisPassword string

	MigrationsPath string

	JWTSecret     string
	TokenTTL      time.Duration
	CookieDomain  string
	CookieSecure  bool
	SessionTTL    time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	OAuthRedirectURL   string

	RazorpayKeyID     string
	RazorpayKeySecret string
	GatewayBaseURL    string
	GatewayTimeout    time.Duration

	MLPipelineURL     string
	MLPipelineTimeout time.Duration

	KafkaBrokerURL         string
	KafkaPaymentEventTopic string

	OutboxPollInterval time.Duration
	OutboxPollTimeout  time.Duration
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}

	cfg.HTTPPort = getEnvAsInt("PORT", 8000)
	cfg.FrontendURL = getEnvOrDefault("FRONTEND_URL", "http://localhost:3000")
	cfg.AllowedOrigins = []string{cfg.FrontendURL}

	cfg.DBConfig.Host = getEnvOrDefault("DB_HOST", "localhost")
	cfg.DBConfig.Port = getEnvAsInt("DB_PORT", 5432)
	cfg.DBConfig.User = getEnvOrDefault("DB_USER", "user")
	cfg.DBConfig.Password = getEnvOrDefault("DB_PASSWORD", "password")
	cfg.DBConfig.Name = getEnvOrDefault("DB_NAME", "comicforge_db")
	cfg.DBConfig.SSLMode = getEnvOrDefault("DB_SSLMODE", "disable")

	cfg.RedisAddr = getEnvOrDefault("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = getEnvOrDefault("REDIS_PASSWORD", "")

	cfg.MigrationsPath = getEnvOrDefault("MIGRATIONS_PATH", "file://migrations")

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.TokenTTL = getEnvAsDuration("TOKEN_TTL", 24*time.Hour)
	cfg.CookieDomain = getEnvOrDefault("COOKIE_DOMAIN", "")
	cfg.CookieSecure = getEnvAsBool("COOKIE_SECURE", false)
	cfg.SessionTTL = getEnvAsDuration("SESSION_TTL", 24*time.Hour)

	cfg.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	cfg.OAuthRedirectURL = getEnvOrDefault("OAUTH_REDIRECT_URL", "http://localhost:8000/auth/google/redirect")

	cfg.RazorpayKeyID = os.Getenv("RAZORPAY_KEY_ID")
	cfg.RazorpayKeySecret = os.Getenv("RAZORPAY_KEY_SECRET")
	cfg.GatewayBaseURL = getEnvOrDefault("GATEWAY_BASE_URL", "https://api.razorpay.com")
	cfg.GatewayTimeout = getEnvAsDuration("GATEWAY_TIMEOUT", 30*time.Second)

	cfg.MLPipelineURL = getEnvOrDefault("ML_PIPELINE_URL", "http://localhost:5000/generate")
	cfg.MLPipelineTimeout = getEnvAsDuration("ML_PIPELINE_TIMEOUT", 90*time.Second)

	cfg.KafkaBrokerURL = getEnvOrDefault("KAFKA_BROKER_URL", "localhost:9092")
	cfg.KafkaPaymentEventTopic = getEnvOrDefault("KAFKA_PAYMENT_EVENT_TOPIC", "payment_events")

	cfg.OutboxPollInterval = getEnvAsDuration("OUTBOX_POLL_INTERVAL", 1*time.Second)
	cfg.OutboxPollTimeout = getEnvAsDuration("OUTBOX_POLL_TIMEOUT", 500*time.Millisecond)

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	return cfg, nil
}

func (c *Config) GetDBConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBConfig.Host, c.DBConfig.Port, c.DBConfig.User, c.DBConfig.Password, c.DBConfig.Name, c.DBConfig.SSLMode)
}

func (c *Config) GetDBMigrationConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBConfig.User, c.DBConfig.Password, c.DBConfig.Host, c.DBConfig.Port, c.DBConfig.Name, c.DBConfig.SSLMode)
}

func (c *Config) GatewayConfigured() bool {
	return c.RazorpayKeyID != "" && c.RazorpayKeySecret != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnvOrDefault(key, strconv.Itoa(defaultValue))
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnvOrDefault(key, strconv.FormatBool(defaultValue))
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnvOrDefault(key, defaultValue.String())
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
