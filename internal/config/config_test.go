// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"strings"
	"testing"
)

// clearEnv blanks every variable Load reads so defaults apply. envOrDefault
// treats empty the same as unset, and t.Setenv restores values afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"APP_HOST", "APP_PORT", "APP_ENV",
		"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
		"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
		"DEFAULT_CATEGORY_ID", "DEFAULT_STORE_ID", "DEFAULT_LANGUAGE_ID",
	}
	for _, key := range envVars {
		t.Setenv(key, "")
	}
}

// TestLoad_Defaults verifies that Load returns sensible development defaults
// when no environment variables are set.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Host != "0.0.0.0" {
		t.Errorf("Host: got %q, want 0.0.0.0", cfg.Host)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port: got %q, want 8080", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env: got %q, want development", cfg.Env)
	}
	if cfg.DBUser != "ocapi" || cfg.DBName != "ocapi" {
		t.Errorf("DB defaults: got user %q db %q, want ocapi/ocapi", cfg.DBUser, cfg.DBName)
	}
	if cfg.DefaultCategoryID != 1 {
		t.Errorf("DefaultCategoryID: got %d, want 1", cfg.DefaultCategoryID)
	}
	if cfg.DefaultStoreID != 0 {
		t.Errorf("DefaultStoreID: got %d, want 0", cfg.DefaultStoreID)
	}
	if cfg.DefaultLanguageID != 1 {
		t.Errorf("DefaultLanguageID: got %d, want 1", cfg.DefaultLanguageID)
	}
	if !cfg.IsDev() {
		t.Error("IsDev() should be true with default env")
	}
}

// TestLoad_Overrides verifies environment variables take precedence.
func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "9000")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("DEFAULT_CATEGORY_ID", "42")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Port: got %q, want 9000", cfg.Port)
	}
	if cfg.DBHost != "db.internal" {
		t.Errorf("DBHost: got %q, want db.internal", cfg.DBHost)
	}
	if cfg.DefaultCategoryID != 42 {
		t.Errorf("DefaultCategoryID: got %d, want 42", cfg.DefaultCategoryID)
	}
}

// TestLoad_BadDefaultID verifies non-numeric catalog defaults fail loudly.
func TestLoad_BadDefaultID(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEFAULT_CATEGORY_ID", "not-a-number")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric DEFAULT_CATEGORY_ID")
	}
}

// TestLoad_ProductionRequiresPassword verifies the production guard.
func TestLoad_ProductionRequiresPassword(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error in production with default password")
	}
	if !strings.Contains(err.Error(), "POSTGRES_PASSWORD") {
		t.Errorf("error should mention POSTGRES_PASSWORD, got: %v", err)
	}
}

// TestDSN verifies the connection string format.
func TestDSN(t *testing.T) {
	cfg := &Config{
		DBHost: "localhost", DBPort: "5432",
		DBUser: "u", DBPassword: "p", DBName: "d",
	}
	want := "postgres://u:p@localhost:5432/d?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN: got %q, want %q", got, want)
	}
}

// TestAddr verifies the listen address format.
func TestAddr(t *testing.T) {
	cfg := &Config{Host: "127.0.0.1", Port: "8081"}
	if got := cfg.Addr(); got != "127.0.0.1:8081" {
		t.Errorf("Addr: got %q, want 127.0.0.1:8081", got)
	}
}
