package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromFileOverridesOnlyNonZero(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte("env: prod\nmysql:\n  host: db.internal\n  password: s3cret\nauth:\n  jwt_secret: prod-secret\n  access_token_ttl: 2h\ndashboard:\n  cache_ttl: 45s\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Load()
	if err := loadFromFile(path, &cfg); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if cfg.Env != "prod" {
		t.Fatalf("env not applied: %q", cfg.Env)
	}
	if cfg.MySQL.Host != "db.internal" || cfg.MySQL.Password != "s3cret" {
		t.Fatalf("mysql overrides not applied: %+v", cfg.MySQL)
	}
	// 未覆盖字段应保留默认值
	if cfg.MySQL.Port != 3306 || cfg.MySQL.User != "root" {
		t.Fatalf("mysql defaults lost: %+v", cfg.MySQL)
	}
	if cfg.Auth.JWTSecret != "prod-secret" || cfg.Auth.AccessTokenTTL != 2*time.Hour {
		t.Fatalf("auth overrides not applied: %+v", cfg.Auth)
	}
	if cfg.Dashboard.CacheTTL != 45*time.Second {
		t.Fatalf("dashboard ttl not applied: %v", cfg.Dashboard.CacheTTL)
	}
}

func TestDSNMasked(t *testing.T) {
	m := MySQLConfig{Host: "127.0.0.1", Port: 3306, User: "root", Password: "topsecret", DBName: "vaani"}
	if got := m.DSNMasked(); got == m.DSN() {
		t.Fatalf("masked DSN should differ from raw DSN")
	}
	masked := m.DSNMasked()
	for i := 0; i+len("topsecret") <= len(masked); i++ {
		if masked[i:i+len("topsecret")] == "topsecret" {
			t.Fatalf("password leaked in masked DSN: %s", masked)
		}
	}
}
