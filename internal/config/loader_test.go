package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileWithEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
api:
  groq_key: file-groq-key
model:
  name: file-model
sandbox:
  root: file_sandbox
build:
  iterations: 5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GROQ_API_KEY", "env-groq-key")
	t.Setenv("WEBWRIGHT_MODEL", "env-model")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("WEBWRIGHT_SANDBOX", "")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.API.GroqKey != "env-groq-key" {
		t.Errorf("GroqKey = %q, env must override file", cfg.API.GroqKey)
	}
	if cfg.Model.Name != "env-model" {
		t.Errorf("Model.Name = %q, env must override file", cfg.Model.Name)
	}
	if cfg.Sandbox.Root != "file_sandbox" {
		t.Errorf("Sandbox.Root = %q, want file value", cfg.Sandbox.Root)
	}
	if cfg.Build.Iterations != 5 {
		t.Errorf("Build.Iterations = %d, want 5", cfg.Build.Iterations)
	}
}

func TestLoadFileExpandsEnvVars(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("api:\n  gemini_key: ${TEST_GEMINI_SECRET}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TEST_GEMINI_SECRET", "secret-value")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.API.GeminiKey != "secret-value" {
		t.Errorf("GeminiKey = %q, want expanded value", cfg.API.GeminiKey)
	}
}

func TestGeminiKeyPrecedence(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gemini-name")
	t.Setenv("GOOGLE_API_KEY", "google-name")

	cfg := DefaultConfig()
	loadFromEnv(cfg)
	if cfg.API.GeminiKey != "gemini-name" {
		t.Errorf("GeminiKey = %q, GEMINI_API_KEY must win", cfg.API.GeminiKey)
	}

	t.Setenv("GEMINI_API_KEY", "")
	cfg = DefaultConfig()
	loadFromEnv(cfg)
	if cfg.API.GeminiKey != "google-name" {
		t.Errorf("GeminiKey = %q, GOOGLE_API_KEY is the fallback", cfg.API.GeminiKey)
	}
}

func TestLoadFileMissingPath(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("explicit config path must exist")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	cfg.Model.Name = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty model accepted")
	}

	cfg = DefaultConfig()
	cfg.Build.Iterations = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero iterations accepted")
	}
}

func TestKeyFor(t *testing.T) {
	api := &APIConfig{GroqKey: "g", GeminiKey: "m", OllamaKey: "o"}

	tests := []struct {
		provider string
		want     string
	}{
		{"groq", "g"},
		{"gemini", "m"},
		{"ollama", "o"},
		{"unknown", ""},
	}
	for _, tt := range tests {
		if got := api.KeyFor(tt.provider); got != tt.want {
			t.Errorf("KeyFor(%q) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}
