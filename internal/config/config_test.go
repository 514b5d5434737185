package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("DB_TYPE", "")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Database.Type != "sqlite" {
		t.Errorf("Database.Type = %q, want sqlite", cfg.Database.Type)
	}
	if cfg.Notifications.ListLimit != 50 {
		t.Errorf("Notifications.ListLimit = %d, want 50", cfg.Notifications.ListLimit)
	}
	if got := cfg.Auth.GetTokenTTL().Hours(); got != 168 {
		t.Errorf("token ttl = %v hours, want 168", got)
	}
}

func TestLoadConfigYAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kpi.yaml")
	body := `
server:
  port: "9000"
database:
  type: postgres
  postgres:
    host: pg.internal
    user: kpi
    database: kpi
auth:
  jwt_secret: from-file
rate_limit:
  enabled: false
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_TYPE", "")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "9000" {
		t.Errorf("Server.Port = %q, want 9000", cfg.Server.Port)
	}
	if cfg.Database.Postgres.Host != "pg.internal" {
		t.Errorf("Postgres.Host = %q", cfg.Database.Postgres.Host)
	}
	if cfg.Database.Postgres.Port != 6543 {
		t.Errorf("Postgres.Port = %d, want 6543", cfg.Database.Postgres.Port)
	}
	if cfg.Database.Postgres.SSLMode != "disable" {
		t.Errorf("Postgres.SSLMode = %q, want disable", cfg.Database.Postgres.SSLMode)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Errorf("JWTSecret = %q, want from-env", cfg.Auth.JWTSecret)
	}
	if cfg.RateLimit.Enabled {
		t.Error("RateLimit.Enabled should be false")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("Validate without jwt secret should fail")
	}
	cfg.Auth.JWTSecret = "s"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	cfg.Database.Type = "mongo"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate with mongo should fail")
	}
	cfg.Database.Type = "sqlite"
	cfg.Timezone = "Mars/Olympus"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate with bad timezone should fail")
	}
}

func TestSearchEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.Enabled = true
	if cfg.SearchEnabled() {
		t.Error("SearchEnabled without host should be false")
	}
	cfg.Search.Meilisearch.Host = "http://localhost:7700"
	if !cfg.SearchEnabled() {
		t.Error("SearchEnabled with host should be true")
	}
}
