package config

import (
	"fmt"
	"strings"

	"github.com/Shimsuyeon/focus-fairy/internal/auth"
	"github.com/Shimsuyeon/focus-fairy/internal/envconfig"
)

// Config encapsulates the runtime configuration for the focus fairy service.
type Config struct {
	Port         string `validate:"required"`
	GCPProjectID string
	DataStore    DataStore `validate:"required"`
	Auth         AuthConfig
	Firestore    FirestoreConfig
	Workspace    WorkspaceConfig
	TZOffsetHrs  int `validate:"gte=-12,lte=14"`
	HistoryWeeks int `validate:"gte=1"`
}

// DataStore enumerates supported persistence backends.
type DataStore string

const (
	// DataStoreMemory stores sessions in-memory (useful for local development/testing).
	DataStoreMemory DataStore = "memory"
	// DataStoreFirestore stores sessions in Google Cloud Firestore.
	DataStoreFirestore DataStore = "firestore"
)

// AuthConfig stores authentication middleware setup.
type AuthConfig struct {
	Mode     auth.Mode
	JWKSURL  string
	Audience string
	Issuer   string
}

// FirestoreConfig tailors Firestore client behavior.
type FirestoreConfig struct {
	EmulatorHost string
}

// WorkspaceConfig points the chat workspace client at its API and bot tokens.
type WorkspaceConfig struct {
	APIURL    string
	BotTokens string // JSON object mapping team id to bot token
}

// Load reads environment variables into Config with validation.
func Load() (Config, error) {
	cfg := Config{
		Port:         envconfig.Get("PORT", "8080"),
		GCPProjectID: envconfig.Get("GCP_PROJECT_ID", ""),
		DataStore:    DataStore(strings.ToLower(envconfig.Get("DATASTORE", string(DataStoreMemory)))),
		Auth: AuthConfig{
			Mode:     auth.Mode(strings.ToLower(envconfig.Get("AUTH_MODE", string(auth.ModeNoop)))),
			JWKSURL:  envconfig.Get("JWKS_URL", ""),
			Audience: envconfig.Get("JWT_AUDIENCE", ""),
			Issuer:   envconfig.Get("JWT_ISSUER", ""),
		},
		Firestore: FirestoreConfig{
			EmulatorHost: envconfig.Get("FIRESTORE_EMULATOR_HOST", ""),
		},
		Workspace: WorkspaceConfig{
			APIURL:    envconfig.Get("WORKSPACE_API_URL", ""),
			BotTokens: envconfig.Get("WORKSPACE_BOT_TOKENS", ""),
		},
		TZOffsetHrs:  envconfig.GetInt("TZ_OFFSET_HOURS", 9),
		HistoryWeeks: envconfig.GetInt("HISTORY_WEEKS", 12),
	}

	if err := envconfig.Validate(cfg); err != nil {
		return Config{}, err
	}
	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func validate(cfg Config) error {
	switch cfg.DataStore {
	case DataStoreMemory:
		// no-op
	case DataStoreFirestore:
		if cfg.GCPProjectID == "" {
			return fmt.Errorf("gcp project id required when datastore=firestore")
		}
	default:
		return fmt.Errorf("unsupported datastore: %s", cfg.DataStore)
	}

	switch cfg.Auth.Mode {
	case auth.ModeJWT:
		if cfg.Auth.JWKSURL == "" {
			return fmt.Errorf("JWKS_URL is required when AUTH_MODE=jwt")
		}
	case auth.ModeNoop:
		// no-op
	default:
		return fmt.Errorf("unsupported auth mode: %s", cfg.Auth.Mode)
	}

	return nil
}
