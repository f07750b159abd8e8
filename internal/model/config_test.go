package model

import (
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Path == "" {
		t.Errorf("default database path empty")
	}
	if cfg.Planner.DateOffset != 0 {
		t.Errorf("default date offset = %d, want 0", cfg.Planner.DateOffset)
	}
}

func TestConfigSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	want := &AppConfig{
		Database: DatabaseConfig{Path: "/tmp/plan.db"},
		Planner:  PlannerConfig{DateOffset: 7},
	}
	if err := SaveConfig(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *got != *want {
		t.Errorf("round trip changed config: %+v != %+v", got, want)
	}
}
