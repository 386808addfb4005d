package server

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != 5000 || cfg.Provider != "google" || cfg.Model != "gemini-2.5-flash" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfigFileThenEnvOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summarizerd.yml")
	contents := "port: 8080\nprovider: openai\nmodel: gpt-4o-mini\n"
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv("SUMMARIZERD_PORT", "9090")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("port = %d, env override should win over the file's 8080", cfg.Port)
	}
	if cfg.Provider != "openai" || cfg.Model != "gpt-4o-mini" {
		t.Errorf("file values not applied: provider=%q model=%q", cfg.Provider, cfg.Model)
	}
	if cfg.Temperature != 0.4 {
		t.Errorf("temperature = %v, unset keys should keep their defaults", cfg.Temperature)
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summarizerd.yml")
	if err := os.WriteFile(path, []byte("port: [unclosed"), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("malformed YAML accepted")
	}
}

func TestConfigSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summarizerd.yml")
	cfg := DefaultConfig()
	cfg.Port = 6100
	cfg.APIKey = "primary-key"
	cfg.APIKeyFallback = "second-key"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Port != 6100 || loaded.APIKey != "primary-key" || loaded.APIKeyFallback != "second-key" {
		t.Errorf("round trip lost values: %+v", loaded)
	}
	if loaded.Model != cfg.Model || loaded.Temperature != cfg.Temperature {
		t.Errorf("round trip changed defaults: %+v", loaded)
	}
}
