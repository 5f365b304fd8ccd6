package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultChoices are the preference options offered on the form when
// RADIOCLUB_CHOICES is not set.
var DefaultChoices = []string{"Radio", "Antenna", "Electronics", "Direction Finding"}

// Config holds process configuration read from the environment.
type Config struct {
	Addr   string
	DBPath string
	Env    string

	// CSRFKey is 32 bytes; nil means generate one per process (development only).
	CSRFKey []byte

	// AdminPasswordHash is a bcrypt hash. Empty leaves the admin pages open.
	AdminPasswordHash string

	Choices []string
	Notice  string // markdown shown above the registration form

	ResendKey  string
	NotifyFrom string
	NotifyTo   []string

	RateLimitPerSecond int

	// TrustedOrigins are extra hosts allowed to post forms over HTTPS.
	TrustedOrigins []string
}

// IsProduction reports whether RADIOCLUB_ENV=production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads the configuration from the environment.
// POST: Returns an error when a set variable is malformed or a production requirement is missing
func Load() (Config, error) {
	cfg := Config{
		Addr:              getenv("RADIOCLUB_ADDR", ":8080"),
		DBPath:            getenv("RADIOCLUB_DB_PATH", "reg.db"),
		Env:               getenv("RADIOCLUB_ENV", "development"),
		AdminPasswordHash: os.Getenv("RADIOCLUB_ADMIN_PASSWORD_HASH"),
		Choices:           splitList(os.Getenv("RADIOCLUB_CHOICES")),
		Notice:            os.Getenv("RADIOCLUB_NOTICE"),
		ResendKey:         os.Getenv("RADIOCLUB_RESEND_KEY"),
		NotifyFrom:        getenv("RADIOCLUB_NOTIFY_FROM", "Radio Club <noreply@example.org>"),
		NotifyTo:          splitList(os.Getenv("RADIOCLUB_NOTIFY_TO")),
		TrustedOrigins:    splitList(os.Getenv("RADIOCLUB_TRUSTED_ORIGINS")),
	}
	if len(cfg.Choices) == 0 {
		cfg.Choices = append([]string(nil), DefaultChoices...)
	}

	rate, err := strconv.Atoi(getenv("RADIOCLUB_RATE_LIMIT", "10"))
	if err != nil || rate <= 0 {
		return Config{}, fmt.Errorf("RADIOCLUB_RATE_LIMIT must be a positive integer")
	}
	cfg.RateLimitPerSecond = rate

	if keyHex := os.Getenv("RADIOCLUB_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return Config{}, errors.New("RADIOCLUB_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		cfg.CSRFKey = key
	} else if cfg.IsProduction() {
		return Config{}, errors.New("RADIOCLUB_CSRF_KEY is required in production")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
