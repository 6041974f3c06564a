package config

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"os"
	"strconv"
)

type Config struct {
	Port         string
	DBPath       string
	SessionKey   []byte
	CookieDomain string
	CookieSecure bool
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8000"),
		DBPath:       getEnv("DB_PATH", "./clicktoeat.db"),
		CookieDomain: getEnv("COOKIE_DOMAIN", ""),
		CookieSecure: getEnv("COOKIE_SECURE", "false") == "true",
	}

	// Session Key (critical for security)
	sessionKeyStr := os.Getenv("SESSION_KEY")
	if sessionKeyStr == "" {
		slog.Warn("SESSION_KEY environment variable not set. Generating a random key for development. Sessions will be invalid on restart. PLEASE SET SESSION_KEY IN PRODUCTION!")
		cfg.SessionKey = generateRandomBytes(32)
	} else {
		decodedKey, err := base64.StdEncoding.DecodeString(sessionKeyStr)
		if err != nil || len(decodedKey) < 32 {
			slog.Warn("SESSION_KEY is invalid or too short (min 32 bytes recommended). Generating a random key for development. PLEASE SET A SECURE SESSION_KEY IN PRODUCTION!")
			cfg.SessionKey = generateRandomBytes(32)
		} else {
			cfg.SessionKey = decodedKey
		}
	}

	// Make sure port is valid
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT environment variable. Falling back to default.", "PORT", os.Getenv("PORT"))
		cfg.Port = "8000"
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// generateRandomBytes generates a random byte slice of specified length
// Uses crypto/rand for secure random numbers.
func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Failed to read random bytes", "error", err)
		os.Exit(1)
	}
	return b
}
