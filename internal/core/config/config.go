package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kiddraughts-lab/draughts-telemetry/internal/core/rules"
)

// Config is the top-level application config plus the resolved counter rules.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Counters CountersConfig `koanf:"counters"`

	// CounterRules is populated by Load after parsing the rule files.
	CounterRules []rules.CounterRule `koanf:"-"`
}

type ServerConfig struct {
	Port int    `koanf:"port"`
	Host string `koanf:"host"`
	Mode string `koanf:"mode"` // debug | release

	// MaxBodySizeMB caps the ingestion request body size.
	MaxBodySizeMB int `koanf:"max_body_size_mb"`
}

type DatabaseConfig struct {
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

type AuthConfig struct {
	// APIKey is the pre-shared key required on every mutating route.
	APIKey string `koanf:"api_key"`
}

type CountersConfig struct {
	// ConfigDir optionally overrides the built-in event-type → counter rules.
	ConfigDir string `koanf:"config_dir"`
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}

	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be > 0")
	}
	if c.Database.MaxIdleConns <= 0 {
		return fmt.Errorf("database.max_idle_conns must be > 0")
	}

	if strings.TrimSpace(c.Auth.APIKey) == "" {
		return fmt.Errorf("auth.api_key is required")
	}

	return nil
}

// Load parses config from defaults + optional file + env, validates it, then
// loads and validates the counter rules.
//
// Besides the DRAUGHTS_-prefixed variables, the short env names the game
// deployment already uses (DATABASE_URL, API_KEY, PORT) are honored as
// aliases for the corresponding keys.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":             3000,
		"server.host":             "0.0.0.0",
		"server.mode":             "release",
		"server.max_body_size_mb": 1,
		"database.dsn":            "",
		"database.max_open_conns": 25,
		"database.max_idle_conns": 25,
		"database.auto_migrate":   true,
		"auth.api_key":            "",
		"counters.config_dir":     "",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("DRAUGHTS_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "DRAUGHTS_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	applyEnvAliases(k)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	counterRules, err := rules.LoadDir(cfg.Counters.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load counter rules: %w", err)
	}
	if _, err := rules.NewRepository(counterRules); err != nil {
		return nil, fmt.Errorf("invalid counter rules: %w", err)
	}
	cfg.CounterRules = counterRules

	return &cfg, nil
}

func applyEnvAliases(k *koanf.Koanf) {
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		k.Set("database.dsn", v)
	}
	if v := strings.TrimSpace(os.Getenv("API_KEY")); v != "" {
		k.Set("auth.api_key", v)
	}
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			k.Set("server.port", port)
		}
	}
}
