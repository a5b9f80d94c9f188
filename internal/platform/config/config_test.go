package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Channel int `env:"DAWSHEET_TEST_CHANNEL" envDefault:"1"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Channel != 1 {
		t.Fatalf("channel = %d, want 1", cfg.Channel)
	}
}

func TestParseEnvOverride(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("DAWSHEET_TEST_CHANNEL", "10")

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Channel != 10 {
		t.Fatalf("channel = %d, want 10", cfg.Channel)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("DAWSHEET_TEST_CHANNEL", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
