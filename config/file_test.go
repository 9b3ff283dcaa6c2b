// Copyright 2025 Switchyard
// SPDX-License-Identifier: BUSL-1.1

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "database.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	clearEnvOverrides(t)
	t.Setenv("APP_DB_PASSWORD", "s3cret")

	path := writeConfigFile(t, `
production:
  primary:
    adapter: postgresql
    database: app_production
    host: db.internal
    port: 5432
    password: ${APP_DB_PASSWORD}
    pool: ${APP_DB_POOL:-10}
  primary_replica:
    adapter: postgresql
    database: app_production
    replica: true
development:
  adapter: sqlite3
  database: db/development.sqlite3
`)

	reg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := reg.ConfigsFor("production", "primary", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := records[0]

	if rec.Password() != "s3cret" {
		t.Errorf("password = %q, want expanded from environment", rec.Password())
	}
	if rec.PoolSize() != 10 {
		t.Errorf("pool = %d, want the ${VAR:-default} fallback", rec.PoolSize())
	}
	if rec.Port() != 5432 {
		t.Errorf("port = %d, want 5432", rec.Port())
	}

	dev := reg.FindByEnvironmentOrDefault("development")
	if dev == nil || dev.Name() != "primary" {
		t.Fatalf("flat development env did not become primary: %v", dev)
	}

	all, err := reg.ConfigsFor("production", "", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("got %d production records, want 2", len(all))
	}
}

func TestLoadFileMissing(t *testing.T) {
	clearEnvOverrides(t)

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("error = %q, want read failure", err.Error())
	}
}

func TestLoadFileInvalidYAML(t *testing.T) {
	clearEnvOverrides(t)

	path := writeConfigFile(t, "production: [unclosed")

	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("error = %q, want parse failure", err.Error())
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("SWITCHYARD_TEST_VAR", "expanded")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "brace syntax",
			input:    "value: ${SWITCHYARD_TEST_VAR}",
			expected: "value: expanded",
		},
		{
			name:     "bare syntax",
			input:    "value: $SWITCHYARD_TEST_VAR",
			expected: "value: expanded",
		},
		{
			name:     "default used when unset",
			input:    "${SWITCHYARD_TEST_UNSET:-fallback}",
			expected: "fallback",
		},
		{
			name:     "default ignored when set",
			input:    "${SWITCHYARD_TEST_VAR:-fallback}",
			expected: "expanded",
		},
		{
			name:     "undefined becomes empty",
			input:    "${SWITCHYARD_TEST_UNSET}",
			expected: "",
		},
		{
			name:     "plain text untouched",
			input:    "adapter: postgresql",
			expected: "adapter: postgresql",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandEnvVars(tt.input); got != tt.expected {
				t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
