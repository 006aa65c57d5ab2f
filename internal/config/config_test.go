package config

import (
	"testing"

	"github.com/Shimsuyeon/focus-fairy/internal/auth"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("unexpected default port: %s", cfg.Port)
	}
	if cfg.DataStore != DataStoreMemory {
		t.Fatalf("unexpected default datastore: %s", cfg.DataStore)
	}
	if cfg.Auth.Mode != auth.ModeNoop {
		t.Fatalf("unexpected default auth mode: %s", cfg.Auth.Mode)
	}
	if cfg.TZOffsetHrs != 9 {
		t.Fatalf("unexpected default offset: %d", cfg.TZOffsetHrs)
	}
	if cfg.HistoryWeeks != 12 {
		t.Fatalf("unexpected default history depth: %d", cfg.HistoryWeeks)
	}
}

func TestLoadFirestoreRequiresProject(t *testing.T) {
	t.Setenv("DATASTORE", "firestore")
	t.Setenv("GCP_PROJECT_ID", "")

	if _, err := Load(); err == nil {
		t.Fatalf("firestore without a project id must fail validation")
	}

	t.Setenv("GCP_PROJECT_ID", "demo-project")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DataStore != DataStoreFirestore {
		t.Fatalf("unexpected datastore: %s", cfg.DataStore)
	}
}

func TestLoadJWTRequiresJWKSURL(t *testing.T) {
	t.Setenv("AUTH_MODE", "jwt")

	if _, err := Load(); err == nil {
		t.Fatalf("jwt mode without a JWKS URL must fail validation")
	}

	t.Setenv("JWKS_URL", "https://auth.example.com/.well-known/jwks.json")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Auth.Mode != auth.ModeJWT {
		t.Fatalf("unexpected auth mode: %s", cfg.Auth.Mode)
	}
}

func TestLoadRejectsNonsense(t *testing.T) {
	t.Setenv("DATASTORE", "cassandra")
	if _, err := Load(); err == nil {
		t.Fatalf("unknown datastore must fail validation")
	}
	t.Setenv("DATASTORE", "memory")

	t.Setenv("TZ_OFFSET_HOURS", "48")
	if _, err := Load(); err == nil {
		t.Fatalf("out-of-range offset must fail validation")
	}
	t.Setenv("TZ_OFFSET_HOURS", "9")

	t.Setenv("HISTORY_WEEKS", "-1")
	if _, err := Load(); err == nil {
		t.Fatalf("negative history depth must fail validation")
	}
}
