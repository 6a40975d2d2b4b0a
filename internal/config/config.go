package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds application configuration
type Config struct {
	Port           string
	DBConn         string
	DBMaxOpenConns int
	LogLevel       string

	JWTSecret string
	TokenTTL  time.Duration

	EncryptionKey string
	CardCodec     string
	CodecKeyword  string

	TransferMaxRetries int
	TxTimeout          time.Duration

	RateLimit   int
	CORSOrigins []string

	ExpirySweepSpec string

	NATSURL           string
	NATSSubjectPrefix string

	NotifyQueueSize int
	NotifyTimeout   time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
}

// NewConfig loads configuration from an optional .env file and environment variables
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Warn(".env file not found, using environment variables")
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DBConn:             getEnv("DB_CONN", "host=localhost port=5436 user=test password=test dbname=bank sslmode=disable"),
		DBMaxOpenConns:     getEnvInt("DB_MAX_OPEN_CONNS", 20),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		JWTSecret:          getEnv("JWT_SECRET", "secret"),
		TokenTTL:           getEnvDuration("TOKEN_TTL", 24*time.Hour),
		EncryptionKey:      getEnv("ENCRYPTION_KEY", "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6"),
		CardCodec:          strings.ToLower(getEnv("CARD_CODEC", "aes")),
		CodecKeyword:       getEnv("CODEC_KEYWORD", "bank_rest"),
		TransferMaxRetries: getEnvInt("TRANSFER_MAX_RETRIES", 3),
		TxTimeout:          getEnvDuration("TX_TIMEOUT", 5*time.Second),
		RateLimit:          getEnvInt("RATE_LIMIT", 100),
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		ExpirySweepSpec:    getEnv("EXPIRY_SWEEP_SPEC", "0 0 * * *"),
		NATSURL:            getEnv("NATS_URL", ""),
		NATSSubjectPrefix:  getEnv("NATS_SUBJECT_PREFIX", "bankcards"),
		NotifyQueueSize:    getEnvInt("NOTIFY_QUEUE_SIZE", 256),
		NotifyTimeout:      getEnvDuration("NOTIFY_TIMEOUT", 10*time.Second),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnv("SMTP_PORT", "587"),
		SMTPUsername:       getEnv("SMTP_USERNAME", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		SenderEmail:        getEnv("SENDER_EMAIL", ""),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	switch cfg.CardCodec {
	case "aes":
		if cfg.EncryptionKey == "" {
			return nil, fmt.Errorf("ENCRYPTION_KEY is required")
		}
	case "xor":
		if cfg.CodecKeyword == "" {
			return nil, fmt.Errorf("CODEC_KEYWORD is required")
		}
	default:
		return nil, fmt.Errorf("CARD_CODEC must be aes or xor, got %q", cfg.CardCodec)
	}
	if cfg.TransferMaxRetries < 1 {
		return nil, fmt.Errorf("TRANSFER_MAX_RETRIES must be at least 1")
	}
	if cfg.RateLimit < 1 {
		return nil, fmt.Errorf("RATE_LIMIT must be at least 1")
	}
	if cfg.NotifyQueueSize < 1 {
		return nil, fmt.Errorf("NOTIFY_QUEUE_SIZE must be at least 1")
	}

	return cfg, nil
}

// EmailEnabled reports whether SMTP notifications are configured
func (c *Config) EmailEnabled() bool {
	return c.SMTPHost != "" && c.SenderEmail != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logrus.WithField("key", key).Warnf("invalid integer %q, using default %d", value, defaultVal)
		return defaultVal
	}
	return n
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		logrus.WithField("key", key).Warnf("invalid duration %q, using default %s", value, defaultVal)
		return defaultVal
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
