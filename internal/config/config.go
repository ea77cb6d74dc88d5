package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

type Settings struct {
	HTTPAddr      string        // HTTP_ADDR (default ":5000")
	PublicBaseURL string        // PUBLIC_BASE_URL (optional, derived from the request when empty)
	MondayToken   string        // MONDAY_API_TOKEN (required by serve)
	MondayAPIURL  string        // MONDAY_API_URL (default "https://api.monday.com/v2")
	MondayTimeout time.Duration // MONDAY_TIMEOUT (default 30s)

	FormsConfigPath string // FORMS_CONFIG_PATH (default "setup/config.json")
	ReadOnly        bool   // VERCEL (any non-empty value marks the filesystem read-only)

	StoreDriver string // FORMS_STORE (memory|sqlite, default memory)
	DBPath      string // FORMS_DB_PATH (default ":memory:")

	NATSURL   string // NATS_URL (optional, empty = no events)
	LogLevel  string // LOG_LEVEL (default "info")
	LogFormat string // LOG_FORMAT (json|console, default "json")
}

func LoadSettings() (*Settings, error) {
	s := &Settings{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":5000"),
		PublicBaseURL:   strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
		MondayToken:     os.Getenv("MONDAY_API_TOKEN"),
		MondayAPIURL:    envOrDefault("MONDAY_API_URL", "https://api.monday.com/v2"),
		FormsConfigPath: envOrDefault("FORMS_CONFIG_PATH", "setup/config.json"),
		ReadOnly:        os.Getenv("VERCEL") != "",
		StoreDriver:     strings.ToLower(envOrDefault("FORMS_STORE", StoreMemory)),
		DBPath:          envOrDefault("FORMS_DB_PATH", ":memory:"),
		NATSURL:         os.Getenv("NATS_URL"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
	}

	timeout, err := time.ParseDuration(envOrDefault("MONDAY_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("MONDAY_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("MONDAY_TIMEOUT must be positive, got %s", timeout)
	}
	s.MondayTimeout = timeout

	switch s.StoreDriver {
	case StoreMemory, StoreSQLite:
	default:
		return nil, fmt.Errorf("FORMS_STORE: unknown store %q (want %s or %s)", s.StoreDriver, StoreMemory, StoreSQLite)
	}

	return s, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
