package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	Environment string

	// Redis configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// PubNub configuration
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string

	// Paystack configuration. SecretKey authenticates API calls and is the
	// HMAC key for inbound webhook signatures.
	PaystackSecretKey string
	PaystackBaseURL   string

	// QRSecret signs ticket tokens. Distinct from the webhook secret.
	QRSecret string

	// Serial generation
	SnowflakeNode int64

	// Invoice configuration
	InvoiceDueAfter time.Duration
	EmailFrom       string

	// Monitoring
	EnableMetrics bool
}

func LoadConfig() *Config {
	// Optional .env for local development; real deployments use the
	// process environment.
	_ = godotenv.Load()

	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),

		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),

		PaystackSecretKey: getEnv("PAYSTACK_SECRET_KEY", ""),
		PaystackBaseURL:   getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),

		QRSecret: getEnv("QR_SECRET", ""),

		SnowflakeNode: int64(getEnvAsInt("SNOWFLAKE_NODE", 1)),

		InvoiceDueAfter: getEnvAsDuration("INVOICE_DUE_AFTER", "48h"),
		EmailFrom:       getEnv("EMAIL_FROM", "AFCM Tickets <tickets@afcm.example>"),

		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
	}
}

// Validate rejects a configuration the service cannot start with. Secrets
// have no usable defaults.
func (c *Config) Validate() error {
	if c.PaystackSecretKey == "" {
		return errors.New("config: missing PAYSTACK_SECRET_KEY")
	}
	if c.QRSecret == "" {
		return errors.New("config: missing QR_SECRET")
	}
	if c.SnowflakeNode < 0 || c.SnowflakeNode > 1023 {
		return errors.New("config: SNOWFLAKE_NODE must be in [0, 1023]")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
