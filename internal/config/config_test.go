package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_RequiresRecordStoreURL(t *testing.T) {
	os.Unsetenv("RECORD_STORE_URL")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error when RECORD_STORE_URL is missing")
	}
}

func TestLoad_WithRecordStoreURL(t *testing.T) {
	os.Setenv("RECORD_STORE_URL", "http://localhost:8080/fhir")
	defer os.Unsetenv("RECORD_STORE_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.RecordStoreURL != "http://localhost:8080/fhir" {
		t.Errorf("expected RECORD_STORE_URL to be set, got %s", cfg.RecordStoreURL)
	}

	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}

	if cfg.ClinicTimezone != "Europe/Berlin" {
		t.Errorf("expected default timezone Europe/Berlin, got %s", cfg.ClinicTimezone)
	}

	if cfg.RecordStoreTimeout() != 10*time.Second {
		t.Errorf("expected default timeout 10s, got %v", cfg.RecordStoreTimeout())
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
}

func TestValidate_RejectsBadTimezone(t *testing.T) {
	c := &Config{
		Env:                  "development",
		RecordStoreTimeoutMS: 10000,
		ClinicTimezone:       "Mars/Olympus",
	}
	if err := c.Validate(); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestValidate_RequiresSigningKeyOutsideDev(t *testing.T) {
	c := &Config{
		Env:                  "production",
		RecordStoreTimeoutMS: 10000,
		ClinicTimezone:       "Europe/Berlin",
	}
	if err := c.Validate(); err == nil {
		t.Error("expected error for missing signing key in production")
	}

	c.AuthSigningKey = "a-long-enough-shared-secret"
	if err := c.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
