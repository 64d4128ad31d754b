package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kozaktomas/face-tagger/internal/constants"
)

// DefaultConfigFile is the optional YAML config file looked up in the
// working directory when CONFIG_FILE is not set.
const DefaultConfigFile = "face-tagger.yaml"

type Config struct {
	Encoder  EncoderConfig
	Model    ModelConfig
	Database DatabaseConfig
	Web      WebConfig
}

type EncoderConfig struct {
	Backend       string // "dlib" (default) or "remote"
	DlibModelsDir string // directory containing the dlib model files (default "models")
	EmbeddingURL  string // base URL of the remote embedding server (e.g., http://localhost:8000)
}

type ModelConfig struct {
	Path      string  // classifier file path (default face_model.gob)
	Tolerance float64 // default recognition tolerance
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL (db push/pull only)
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type WebConfig struct {
	Port int // HTTP API listen port (default 8080)
}

// fileConfig mirrors the YAML config file. Numeric fields are pointers so an
// absent key can be told apart from an explicit zero.
type fileConfig struct {
	Encoder       string   `yaml:"encoder"`
	DlibModelsDir string   `yaml:"dlib_models_dir"`
	EmbeddingURL  string   `yaml:"embedding_url"`
	ModelPath     string   `yaml:"model_path"`
	Tolerance     *float64 `yaml:"tolerance"`
	DatabaseURL   string   `yaml:"database_url"`
	Port          *int     `yaml:"port"`
}

// Load builds the configuration from defaults, the optional YAML config
// file, and environment variables, in that order (env wins over file).
// A broken config file is reported on stderr and otherwise ignored.
func Load() *Config {
	cfg := &Config{
		Encoder: EncoderConfig{
			Backend:       "dlib",
			DlibModelsDir: "models",
		},
		Model: ModelConfig{
			Path:      constants.DefaultModelFile,
			Tolerance: constants.DefaultTolerance,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 25,
			MaxIdleConns: 5,
		},
		Web: WebConfig{
			Port: constants.DefaultPort,
		},
	}

	applyFile(cfg)
	applyEnv(cfg)

	return cfg
}

func applyFile(cfg *Config) {
	path := os.Getenv("CONFIG_FILE")
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		if explicit {
			fmt.Fprintf(os.Stderr, "Warning: cannot read config file %s: %v\n", path, err)
		}
		return
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring malformed config file %s: %v\n", path, err)
		return
	}

	if fc.Encoder != "" {
		cfg.Encoder.Backend = fc.Encoder
	}
	if fc.DlibModelsDir != "" {
		cfg.Encoder.DlibModelsDir = fc.DlibModelsDir
	}
	if fc.EmbeddingURL != "" {
		cfg.Encoder.EmbeddingURL = fc.EmbeddingURL
	}
	if fc.ModelPath != "" {
		cfg.Model.Path = fc.ModelPath
	}
	if fc.Tolerance != nil && *fc.Tolerance >= 0 {
		cfg.Model.Tolerance = *fc.Tolerance
	}
	if fc.DatabaseURL != "" {
		cfg.Database.URL = fc.DatabaseURL
	}
	if fc.Port != nil && *fc.Port > 0 {
		cfg.Web.Port = *fc.Port
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ENCODER"); v != "" {
		cfg.Encoder.Backend = v
	}
	if v := os.Getenv("DLIB_MODELS_DIR"); v != "" {
		cfg.Encoder.DlibModelsDir = v
	}
	if v := os.Getenv("EMBEDDING_URL"); v != "" {
		cfg.Encoder.EmbeddingURL = v
	}
	if v := os.Getenv("MODEL_PATH"); v != "" {
		cfg.Model.Path = v
	}
	cfg.Model.Tolerance = envFloat("TOLERANCE", cfg.Model.Tolerance)
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	cfg.Database.MaxOpenConns = envInt("DATABASE_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)
	cfg.Database.MaxIdleConns = envInt("DATABASE_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns)
	cfg.Web.Port = envInt("PORT", cfg.Web.Port)
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a non-negative
// float. Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return f
	}
	return defaultVal
}
