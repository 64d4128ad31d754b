package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Encoder.Backend != "dlib" {
		t.Errorf("expected default backend dlib, got %q", cfg.Encoder.Backend)
	}
	if cfg.Encoder.DlibModelsDir != "models" {
		t.Errorf("expected default models dir, got %q", cfg.Encoder.DlibModelsDir)
	}
	if cfg.Model.Path != "face_model.gob" {
		t.Errorf("expected default model path, got %q", cfg.Model.Path)
	}
	if math.Abs(cfg.Model.Tolerance-0.6) > 1e-9 {
		t.Errorf("expected default tolerance 0.6, got %v", cfg.Model.Tolerance)
	}
	if cfg.Database.MaxOpenConns != 25 || cfg.Database.MaxIdleConns != 5 {
		t.Errorf("unexpected connection defaults: %d/%d",
			cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	}
	if cfg.Web.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Web.Port)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ENCODER", "remote")
	t.Setenv("EMBEDDING_URL", "http://embed.test:8000")
	t.Setenv("MODEL_PATH", "/tmp/faces.gob")
	t.Setenv("TOLERANCE", "0.45")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("PORT", "9999")

	cfg := Load()

	if cfg.Encoder.Backend != "remote" {
		t.Errorf("expected backend remote, got %q", cfg.Encoder.Backend)
	}
	if cfg.Encoder.EmbeddingURL != "http://embed.test:8000" {
		t.Errorf("unexpected embedding URL %q", cfg.Encoder.EmbeddingURL)
	}
	if cfg.Model.Path != "/tmp/faces.gob" {
		t.Errorf("unexpected model path %q", cfg.Model.Path)
	}
	if math.Abs(cfg.Model.Tolerance-0.45) > 1e-9 {
		t.Errorf("expected tolerance 0.45, got %v", cfg.Model.Tolerance)
	}
	if cfg.Database.URL != "postgres://test" {
		t.Errorf("unexpected database URL %q", cfg.Database.URL)
	}
	if cfg.Web.Port != 9999 {
		t.Errorf("expected port 9999, got %d", cfg.Web.Port)
	}
}

func TestLoad_InvalidTolerance(t *testing.T) {
	t.Setenv("TOLERANCE", "not-a-number")

	cfg := Load()

	if math.Abs(cfg.Model.Tolerance-0.6) > 1e-9 {
		t.Errorf("invalid tolerance should fall back to 0.6, got %v", cfg.Model.Tolerance)
	}
}

func TestLoad_NegativeTolerance(t *testing.T) {
	t.Setenv("TOLERANCE", "-0.5")

	cfg := Load()

	if math.Abs(cfg.Model.Tolerance-0.6) > 1e-9 {
		t.Errorf("negative tolerance should fall back to 0.6, got %v", cfg.Model.Tolerance)
	}
}

func TestLoad_ZeroToleranceAllowed(t *testing.T) {
	t.Setenv("TOLERANCE", "0")

	cfg := Load()

	if cfg.Model.Tolerance != 0 {
		t.Errorf("explicit zero tolerance should be kept, got %v", cfg.Model.Tolerance)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "0")

	cfg := Load()

	if cfg.Web.Port != 8080 {
		t.Errorf("invalid port should fall back to 8080, got %d", cfg.Web.Port)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "face-tagger.yaml")
	content := []byte(`encoder: remote
embedding_url: http://file.test:8000
model_path: /data/model.gob
tolerance: 0.5
port: 7070
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg := Load()

	if cfg.Encoder.Backend != "remote" {
		t.Errorf("expected backend remote from file, got %q", cfg.Encoder.Backend)
	}
	if cfg.Encoder.EmbeddingURL != "http://file.test:8000" {
		t.Errorf("unexpected embedding URL %q", cfg.Encoder.EmbeddingURL)
	}
	if cfg.Model.Path != "/data/model.gob" {
		t.Errorf("unexpected model path %q", cfg.Model.Path)
	}
	if math.Abs(cfg.Model.Tolerance-0.5) > 1e-9 {
		t.Errorf("expected tolerance 0.5, got %v", cfg.Model.Tolerance)
	}
	if cfg.Web.Port != 7070 {
		t.Errorf("expected port 7070, got %d", cfg.Web.Port)
	}
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "face-tagger.yaml")
	if err := os.WriteFile(path, []byte("model_path: /from/file.gob\ntolerance: 0.3\n"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MODEL_PATH", "/from/env.gob")

	cfg := Load()

	if cfg.Model.Path != "/from/env.gob" {
		t.Errorf("env should win over file, got %q", cfg.Model.Path)
	}
	if math.Abs(cfg.Model.Tolerance-0.3) > 1e-9 {
		t.Errorf("file tolerance should survive without env override, got %v", cfg.Model.Tolerance)
	}
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "face-tagger.yaml")
	if err := os.WriteFile(path, []byte(":\n\t- not yaml"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg := Load()

	if cfg.Model.Path != "face_model.gob" {
		t.Errorf("malformed file should be ignored, got model path %q", cfg.Model.Path)
	}
}

func TestLoad_MissingExplicitConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	cfg := Load()

	if cfg.Encoder.Backend != "dlib" {
		t.Errorf("missing file should leave defaults, got backend %q", cfg.Encoder.Backend)
	}
}
