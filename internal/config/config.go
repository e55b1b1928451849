// Package config provides configuration file support for folio.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jwulff/folio/internal/db"
	"github.com/jwulff/folio/internal/gateway"
	"gopkg.in/yaml.v3"
)

// Config represents the folio configuration.
type Config struct {
	Provider       string        `yaml:"provider"`
	APIKey         string        `yaml:"api_key"`
	AnalysisModel  string        `yaml:"analysis_model"`
	RewriteModel   string        `yaml:"rewrite_model"`
	DBPath         string        `yaml:"db_path"`
	DateLayout     string        `yaml:"date_layout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Logging        LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Provider:       gateway.ProviderGemini,
		DBPath:         db.DefaultDBPath(),
		DateLayout:     db.DefaultDateLayout,
		RequestTimeout: 2 * time.Minute,
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(filepath.Dir(db.DefaultDBPath()), "folio.log"),
		},
	}
}

// DefaultPath returns ~/.config/folio/config.yaml, honoring XDG_CONFIG_HOME.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "folio", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "folio", "config.yaml")
}

// Load loads configuration from path, then applies environment overrides.
// Returns the default config if the file doesn't exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No config file is OK, use defaults
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv(os.Getenv)
	cfg.fillModels()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes configuration to path.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("FOLIO_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := getenv("FOLIO_DB"); v != "" {
		c.DBPath = v
	}
	if c.APIKey != "" {
		return
	}
	var keys []string
	switch c.Provider {
	case gateway.ProviderOpenAI:
		keys = []string{"OPENAI_API_KEY"}
	default:
		keys = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "API_KEY"}
	}
	for _, k := range keys {
		if v := getenv(k); v != "" {
			c.APIKey = v
			return
		}
	}
}

func (c *Config) fillModels() {
	analysis, rewrite := gateway.DefaultModels(c.Provider)
	if c.AnalysisModel == "" {
		c.AnalysisModel = analysis
	}
	if c.RewriteModel == "" {
		c.RewriteModel = rewrite
	}
}

// Validate rejects settings no component can work with.
func (c *Config) Validate() error {
	switch c.Provider {
	case gateway.ProviderGemini, gateway.ProviderOpenAI:
	default:
		return fmt.Errorf("invalid provider %q (allowed: gemini, openai)", c.Provider)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("invalid request_timeout %s", c.RequestTimeout)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	return nil
}
