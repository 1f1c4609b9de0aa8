package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/config"

	"github.com/julianstephens/focos/internal/constants"
)

type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
	Rollover  RolloverConfig  `yaml:"rollover"`
	Server    ServerConfig    `yaml:"server"`
	Assistant AssistantConfig `yaml:"assistant"`
}

type StorageConfig struct {
	// DSN is a file path (.db or .json), a postgres:// or redis:// URL,
	// ":memory:" or "keyring".
	DSN string `yaml:"dsn"`
}

type LoggingConfig struct {
	Debug bool   `yaml:"debug"`
	Dir   string `yaml:"dir"`
}

type RolloverConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type AssistantConfig struct {
	Endpoint  string        `yaml:"endpoint"`
	Model     string        `yaml:"model"`
	APIKeyEnv string        `yaml:"api_key_env"`
	Timeout   time.Duration `yaml:"timeout"`
}

// APIKey reads the assistant key from the configured environment variable.
func (a AssistantConfig) APIKey() string {
	return os.Getenv(a.APIKeyEnv)
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{DSN: constants.DefaultDBPath},
		Logging: LoggingConfig{Dir: constants.DefaultConfigDir},
		Rollover: RolloverConfig{
			Interval: constants.DefaultRolloverInterval,
		},
		Server: ServerConfig{Addr: constants.DefaultServerAddr},
		Assistant: AssistantConfig{
			Endpoint:  "https://api.openai.com/v1/chat/completions",
			Model:     constants.DefaultAssistantModel,
			APIKeyEnv: "FOCOS_ASSISTANT_API_KEY",
			Timeout:   constants.DefaultAssistantTimeout,
		},
	}
}

// Load reads an optional .env file, then the YAML file at path (missing is
// fine), then FOCOS_* environment overrides. ${VAR:default} references in the
// YAML are expanded from the environment.
func Load(path string) (*Config, error) {
	path = ExpandPath(path)
	loadDotEnv(filepath.Dir(path))

	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			provider, err := config.NewYAML(
				config.File(path),
				config.Expand(os.LookupEnv),
			)
			if err != nil {
				return nil, fmt.Errorf("failed to create config provider: %w", err)
			}
			if err := provider.Get(config.Root).Populate(cfg); err != nil {
				return nil, fmt.Errorf("failed to populate config: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.overrideFromEnv()
	cfg.Storage.DSN = ExpandPath(cfg.Storage.DSN)
	cfg.Logging.Dir = ExpandPath(cfg.Logging.Dir)
	return cfg, cfg.Validate()
}

// loadDotEnv loads .env from the working directory and from dir. Variables
// already set in the environment win.
func loadDotEnv(dir string) {
	for _, p := range []string{".env", filepath.Join(dir, ".env")} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
		}
	}
}

func (c *Config) overrideFromEnv() {
	if val := os.Getenv("FOCOS_DB"); val != "" {
		c.Storage.DSN = val
	}
	if val := os.Getenv("FOCOS_DEBUG"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Logging.Debug = b
		}
	}
	if val := os.Getenv("FOCOS_LOG_DIR"); val != "" {
		c.Logging.Dir = val
	}
	if val := os.Getenv("FOCOS_ROLLOVER_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.Rollover.Interval = d
		}
	}
	if val := os.Getenv("FOCOS_SERVER_ADDR"); val != "" {
		c.Server.Addr = val
	}
	if val := os.Getenv("FOCOS_ALLOWED_ORIGINS"); val != "" {
		c.Server.AllowedOrigins = strings.Split(val, ",")
	}
	if val := os.Getenv("FOCOS_ASSISTANT_ENDPOINT"); val != "" {
		c.Assistant.Endpoint = val
	}
	if val := os.Getenv("FOCOS_ASSISTANT_MODEL"); val != "" {
		c.Assistant.Model = val
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.DSN) == "" {
		return fmt.Errorf("storage.dsn cannot be empty")
	}
	if c.Rollover.Interval < time.Second {
		return fmt.Errorf("rollover.interval must be at least 1s, got %s", c.Rollover.Interval)
	}
	if c.Assistant.Timeout <= 0 {
		return fmt.Errorf("assistant.timeout must be positive")
	}
	return nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p
}
