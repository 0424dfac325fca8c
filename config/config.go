package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kevinaaaquil/dejapp/listing"
	"github.com/kevinaaaquil/dejapp/policy"
)

const defaultJWTSecret = "change-me-in-production"

type Config struct {
	Port        string
	StoreDriver string
	MongoURI    string
	DBName      string

	JWTSecret  string
	SessionTTL time.Duration

	RoleRule         policy.RoleRule
	MutationPolicy   policy.MutationPolicy
	RequireEmailConf bool
	PublicURL        string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	DriveAPIKey   string
	SearchFields  listing.Field
	CORSOrigins   []string
	AuthRateLimit int

	LogLevel  string
	LogFormat string
}

// Load reads the environment. Malformed values are reported; missing ones
// fall back to defaults.
func Load() (*Config, error) {
	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "168h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("SESSION_TTL: invalid duration %q", os.Getenv("SESSION_TTL"))
	}
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("SMTP_PORT: %w", err)
	}
	rateLimit, err := strconv.Atoi(getEnv("AUTH_RATE_LIMIT", "20"))
	if err != nil || rateLimit < 0 {
		return nil, fmt.Errorf("AUTH_RATE_LIMIT: invalid value %q", os.Getenv("AUTH_RATE_LIMIT"))
	}
	ruleKind, err := policy.ParseRoleRuleKind(getEnv("ADMIN_RULE", ""))
	if err != nil {
		return nil, err
	}
	mutation, err := policy.ParseMutationPolicy(getEnv("DOCUMENT_MUTATION_POLICY", ""))
	if err != nil {
		return nil, err
	}
	fields, err := listing.ParseFields(getEnv("SEARCH_FIELDS", ""))
	if err != nil {
		return nil, fmt.Errorf("SEARCH_FIELDS: %w", err)
	}
	driver := strings.ToLower(getEnv("STORE_DRIVER", "mongo"))
	if driver != "mongo" && driver != "memory" {
		return nil, fmt.Errorf("STORE_DRIVER: unknown driver %q (use mongo or memory)", driver)
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		StoreDriver: driver,
		MongoURI:    getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("MONGODB_DB", "dejapp"),
		JWTSecret:   getEnv("JWT_SECRET", defaultJWTSecret),
		SessionTTL:  ttl,
		RoleRule: policy.RoleRule{
			Kind:      ruleKind,
			Suffix:    getEnv("ADMIN_EMAIL_SUFFIX", "@admin"),
			AllowList: splitList(getEnv("ADMIN_EMAILS", "")),
		},
		MutationPolicy:   mutation,
		RequireEmailConf: getBool("REQUIRE_EMAIL_CONFIRMATION", false),
		PublicURL:        getEnv("PUBLIC_URL", "http://localhost:8080"),
		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         smtpPort,
		SMTPUser:         getEnv("SMTP_USER", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		MailFrom:         getEnv("MAIL_FROM", "no-reply@dejapp.local"),
		DriveAPIKey:      getEnv("DRIVE_API_KEY", ""),
		SearchFields:     fields,
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "")),
		AuthRateLimit:    rateLimit,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// RequiredEnvVars must be set when documents live in MongoDB.
var RequiredEnvVars = []string{
	"MONGODB_URI",
	"MONGODB_DB",
	"JWT_SECRET",
}

// OptionalEnvVars are logged at startup so you can confirm they are loaded when set.
var OptionalEnvVars = []string{
	"PORT",
	"STORE_DRIVER",
	"SESSION_TTL",
	"ADMIN_RULE",
	"DOCUMENT_MUTATION_POLICY",
	"REQUIRE_EMAIL_CONFIRMATION",
	"PUBLIC_URL",
	"SMTP_HOST",
	"SMTP_PASSWORD",
	"DRIVE_API_KEY",
	"SEARCH_FIELDS",
	"CORS_ORIGINS",
}

var secretEnvVars = map[string]bool{
	"JWT_SECRET":    true,
	"SMTP_PASSWORD": true,
	"DRIVE_API_KEY": true,
	"MONGODB_URI":   true,
}

// ValidateEnv reports missing required vars and logs which optional ones are
// set. Secrets are never logged.
func ValidateEnv(cfg *Config, log *slog.Logger) error {
	var missing []string
	if cfg.StoreDriver == "mongo" {
		for _, key := range RequiredEnvVars {
			if strings.TrimSpace(os.Getenv(key)) == "" {
				missing = append(missing, key)
			} else {
				log.Debug("env loaded", slog.String("key", key))
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env: %s (set these in .env or environment)", strings.Join(missing, ", "))
	}
	for _, key := range OptionalEnvVars {
		v := strings.TrimSpace(os.Getenv(key))
		switch {
		case v == "":
			log.Debug("env not set (optional)", slog.String("key", key))
		case secretEnvVars[key]:
			log.Info("env loaded", slog.String("key", key))
		default:
			log.Info("env loaded", slog.String("key", key), slog.String("value", v))
		}
	}
	if cfg.StoreDriver == "mongo" && cfg.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set to a strong secret (not the default %s)", defaultJWTSecret)
	}
	if cfg.RequireEmailConf && cfg.SMTPHost == "" {
		log.Warn("REQUIRE_EMAIL_CONFIRMATION is on but SMTP_HOST is empty; confirmation links will only be logged")
	}
	return nil
}
