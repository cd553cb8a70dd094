package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	DatabaseURL     string
	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	RedisURL        string

	PublicBaseURL  string
	APIBaseURL     string
	AdminUIBaseURL string

	AdminEmails    []string
	MagicSecret    string
	SessionSecret  string
	MagicTTL       time.Duration
	SessionTTL     time.Duration
	ResendInterval time.Duration

	MailFrom     string
	MailReplyTo  string
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string

	ResumeTokenTTL time.Duration
	DraftIdleTTL   time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),

		DatabaseURL:     os.Getenv("DATABASE_URL"),
		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		RedisURL:        getEnv("REDIS_URL", ""),

		PublicBaseURL:  getEnv("PUBLIC_BASE_URL", ""),
		APIBaseURL:     getEnv("API_BASE_URL", ""),
		AdminUIBaseURL: getEnv("ADMIN_UI_BASE_URL", ""),

		AdminEmails:    splitAndTrim(getEnv("ADMIN_EMAILS", "")),
		MagicSecret:    getEnv("ADMIN_MAGIC_SECRET", ""),
		SessionSecret:  getEnv("ADMIN_SESSION_SECRET", ""),
		MagicTTL:       time.Duration(getEnvInt("ADMIN_MAGIC_TTL_MINUTES", 15)) * time.Minute,
		SessionTTL:     time.Duration(getEnvInt("ADMIN_SESSION_TTL_HOURS", 12)) * time.Hour,
		ResendInterval: time.Duration(getEnvInt("ADMIN_RESEND_INTERVAL_SECONDS", 60)) * time.Second,

		MailFrom:     getEnv("MAIL_FROM", ""),
		MailReplyTo:  getEnv("MAIL_REPLY_TO", ""),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		ResumeTokenTTL: time.Duration(getEnvInt("RESUME_TOKEN_TTL_HOURS", 24)) * time.Hour,
		DraftIdleTTL:   time.Duration(getEnvInt("DRAFT_IDLE_TTL_DAYS", 180)) * 24 * time.Hour,
	}
}

// Validate fails fast on configuration the process cannot serve without.
// Dev-like environments get generated fallbacks so the server still boots.
func (c *Config) Validate() error {
	if c.IsProduction() {
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required in production")
		}
		if strings.TrimSpace(c.MagicSecret) == "" {
			return fmt.Errorf("ADMIN_MAGIC_SECRET is required in production")
		}
		if strings.TrimSpace(c.SessionSecret) == "" {
			return fmt.Errorf("ADMIN_SESSION_SECRET is required in production")
		}
	}
	if c.MagicSecret == "" {
		c.MagicSecret = "dev-magic-secret"
	}
	if c.SessionSecret == "" {
		c.SessionSecret = "dev-session-secret"
	}
	// A shared secret would let either class of token mint the other.
	if c.MagicSecret == c.SessionSecret {
		return fmt.Errorf("ADMIN_MAGIC_SECRET and ADMIN_SESSION_SECRET must differ")
	}
	return nil
}

// IsProduction reports whether the environment is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
