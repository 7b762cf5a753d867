package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DAY_TIMEZONE", "")
	t.Setenv("REQUEST_TIMEOUT", "")

	cfg := Load()
	if cfg.DayTimezone != "Asia/Kolkata" {
		t.Fatalf("DayTimezone = %q, want Asia/Kolkata", cfg.DayTimezone)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("RequestTimeout = %v, want 15s", cfg.RequestTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DAY_TIMEZONE", "UTC")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("DB_LOG", "true")
	t.Setenv("ESTIMATOR_TIMEOUT", "not-a-duration")

	cfg := Load()
	if cfg.DayTimezone != "UTC" {
		t.Fatalf("DayTimezone = %q", cfg.DayTimezone)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if !cfg.DBLog {
		t.Fatal("DBLog should be true")
	}
	if cfg.EstimatorTimeout != 10*time.Second {
		t.Fatalf("bad duration should fall back to default, got %v", cfg.EstimatorTimeout)
	}
}

func TestLocation(t *testing.T) {
	cfg := &Config{DayTimezone: "Asia/Kolkata"}
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location: %v", err)
	}
	if loc.String() != "Asia/Kolkata" {
		t.Fatalf("loc = %s", loc)
	}

	cfg.DayTimezone = "Mars/Olympus"
	if _, err := cfg.Location(); err == nil {
		t.Fatal("expected error for unknown zone")
	}
}
