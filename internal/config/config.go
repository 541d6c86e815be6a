package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Backend BackendConfig `yaml:"backend"`
	Intake  IntakeConfig  `yaml:"intake"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Port     int    `yaml:"port"`
	APIKey   string `yaml:"api_key"`
	DemoSeed bool   `yaml:"demo_seed"`
}

// BackendConfig points at the external ML analysis service.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type IntakeConfig struct {
	SpoolDir      string        `yaml:"spool_dir"`
	StagedTTL     time.Duration `yaml:"staged_ttl"`
	MaxImageBytes int64         `yaml:"max_image_bytes"`
	MaxVideoBytes int64         `yaml:"max_video_bytes"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads config from YAML file and applies environment variable overrides.
// A missing file is not an error: defaults plus env overrides are enough to run.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = "http://localhost:5000"
	}
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = 5 * time.Minute
	}
	if cfg.Intake.SpoolDir == "" {
		cfg.Intake.SpoolDir = filepath.Join(os.TempDir(), "cid-spool")
	}
	if cfg.Intake.StagedTTL == 0 {
		cfg.Intake.StagedTTL = 30 * time.Minute
	}
	if cfg.Intake.MaxImageBytes == 0 {
		cfg.Intake.MaxImageBytes = 10 << 20
	}
	if cfg.Intake.MaxVideoBytes == 0 {
		cfg.Intake.MaxVideoBytes = 100 << 20
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CID_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("CID_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("CID_DEMO_SEED"); v != "" {
		cfg.Server.DemoSeed = v == "true" || v == "1"
	}
	if v := os.Getenv("CID_BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("CID_BACKEND_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Backend.Timeout = d
		}
	}
	if v := os.Getenv("CID_SPOOL_DIR"); v != "" {
		cfg.Intake.SpoolDir = v
	}
	if v := os.Getenv("CID_STAGED_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Intake.StagedTTL = d
		}
	}
	if v := os.Getenv("CID_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CID_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
