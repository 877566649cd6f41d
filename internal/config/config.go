package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	DiscordBotToken string
	DiscordGuildID  string
	DiscordRoleName string
	DiscordBaseURL  string

	ScratchProjectOwner string
	ScratchProjectID    string
	ScratchBaseURL      string

	PollInterval time.Duration
	FetchTimeout time.Duration
	CodeLength   int
	VerifyTTL    time.Duration // 0 disables expiry (legacy mode)

	AuditLogPath string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	SNSTopicARN    string // empty disables event publishing
	SNSRegion      string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiryDays     int

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Pairings string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		DiscordBotToken: getEnv("DISCORD_BOT_TOKEN", ""),
		DiscordGuildID:  getEnv("DISCORD_GUILD_ID", ""),
		DiscordRoleName: getEnv("DISCORD_ROLE_NAME", "Scratcher"),
		DiscordBaseURL:  getEnv("DISCORD_BASE_URL", "https://discord.com/api/v10"),

		ScratchProjectOwner: getEnv("SCRATCH_PROJECT_OWNER", ""),
		ScratchProjectID:    getEnv("SCRATCH_PROJECT_ID", ""),
		ScratchBaseURL:      getEnv("SCRATCH_BASE_URL", "https://api.scratch.mit.edu"),

		PollInterval: time.Duration(getEnvInt("POLL_INTERVAL_SECONDS", 10)) * time.Second,
		FetchTimeout: time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 8)) * time.Second,
		CodeLength:   getEnvInt("CODE_LENGTH", 6),
		VerifyTTL:    time.Duration(getEnvInt("VERIFY_TTL_SECONDS", 120)) * time.Second,

		AuditLogPath: getEnv("AUDIT_LOG_PATH", "auth.txt"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Pairings: getEnv("DYNAMO_TABLE_PAIRINGS", "verified_pairings"),
		},
		SNSTopicARN: getEnv("SNS_TOPIC_ARN", ""),
		SNSRegion:   getEnv("SNS_REGION", "us-east-1"),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiryDays:     getEnvInt("JWT_EXPIRY_DAYS", 7),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// Validate checks that settings without a usable default are present.
// A failure here is fatal at startup, before the reconciliation loop begins.
func (c *Config) Validate() error {
	var missing []string
	if c.DiscordBotToken == "" {
		missing = append(missing, "DISCORD_BOT_TOKEN")
	}
	if c.DiscordGuildID == "" {
		missing = append(missing, "DISCORD_GUILD_ID")
	}
	if c.ScratchProjectOwner == "" {
		missing = append(missing, "SCRATCH_PROJECT_OWNER")
	}
	if c.ScratchProjectID == "" {
		missing = append(missing, "SCRATCH_PROJECT_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL_SECONDS must be positive")
	}
	if c.CodeLength <= 0 {
		return fmt.Errorf("CODE_LENGTH must be positive")
	}
	return nil
}

// ProjectURL returns the public URL of the Scratch project users comment on.
func (c *Config) ProjectURL() string {
	return "https://scratch.mit.edu/projects/" + c.ScratchProjectID
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
