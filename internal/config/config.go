// Package config provides configuration for the webhook server binary.
// Values are loaded from environment variables with sensible defaults and
// validated before the server starts.
//
// Environment Variables:
//
//   - PORT: Server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//   - TWILIO_ACCOUNT_SID: Twilio account SID (required)
//   - TWILIO_AUTH_TOKEN: Twilio auth token, used for basic auth and webhook
//     signature verification (required)
//   - DATABASE_PATH: SQLite database file path (default: ./twilio_webhooks.db)
//   - TLS_CERT_FILE / TLS_KEY_FILE: certificate pair; set both to serve HTTPS
//   - PUBLIC_BASE_URL: externally visible base URL of this server, used when
//     registering status callbacks (optional)
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
)

// Config holds all configuration values for the webhook server.
type Config struct {
	Port         string // Server port number
	LogLevel     string // Logging level (debug, info, warn, error)
	AccountSID   string // Twilio account SID
	AuthToken    string // Twilio auth token
	DatabasePath string // Path to SQLite database file

	// TLS configuration; both fields must be set to enable HTTPS
	TLSCertFile string
	TLSKeyFile  string

	// PublicBaseURL is the URL Twilio reaches this server at
	PublicBaseURL string
}

// Load creates a Config with values from environment variables, falling back
// to defaults. Call Validate before use.
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		AccountSID:   getEnv("TWILIO_ACCOUNT_SID", ""),
		AuthToken:    getEnv("TWILIO_AUTH_TOKEN", ""),
		DatabasePath: getEnv("DATABASE_PATH", "./twilio_webhooks.db"),

		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
	}
}

// getEnv retrieves an environment variable value or returns a default value
// if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate checks that required fields are present and all values are valid.
func (c *Config) Validate() error {
	if c.AccountSID == "" {
		return fmt.Errorf("TWILIO_ACCOUNT_SID environment variable is required")
	}

	if c.AuthToken == "" {
		return fmt.Errorf("TWILIO_AUTH_TOKEN environment variable is required")
	}

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a valid port number between 1 and 65535")
	}

	// TLS requires the full pair
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}

	if c.PublicBaseURL != "" {
		if _, err := url.ParseRequestURI(c.PublicBaseURL); err != nil {
			return fmt.Errorf("PUBLIC_BASE_URL must be a valid URL: %v", err)
		}
	}

	return nil
}
