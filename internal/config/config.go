// Package config loads gateway configuration from YAML with env overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML accepts Go duration strings ("45s",
// "2m") as well as bare integers, which are read as seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, perr := time.ParseDuration(s)
		if perr != nil {
			return fmt.Errorf("invalid duration %q: %w", s, perr)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration value: %w", err)
	}
	*d = Duration(time.Duration(n) * time.Second)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full gateway configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Database  DatabaseConfig  `yaml:"database"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	ReadTimeout  Duration `yaml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout"`
	// AllowedOrigin is echoed in CORS headers. "*" by default since the
	// chat widget is embedded on the public marketing site.
	AllowedOrigin string `yaml:"allowed_origin"`
}

// UpstreamConfig configures the model gateway connection.
type UpstreamConfig struct {
	URL       string   `yaml:"url"`
	APIKey    string   `yaml:"api_key"`
	Model     string   `yaml:"model"`
	MaxTokens int      `yaml:"max_tokens"`
	Timeout   Duration `yaml:"timeout"`
}

// RateLimitConfig configures per-client admission control.
type RateLimitConfig struct {
	MaxRequests int      `yaml:"max_requests"`
	Window      Duration `yaml:"window"`
}

// DatabaseConfig configures the sqlite store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig configures zerolog output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns a config populated with the defaults from defaults.go.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:          DefaultListenAddr,
			ReadTimeout:   Duration(DefaultServerReadTimeout),
			WriteTimeout:  Duration(DefaultServerWriteTimeout),
			AllowedOrigin: "*",
		},
		Upstream: UpstreamConfig{
			URL:       "https://api.openai.com/v1/chat/completions",
			Model:     DefaultUpstreamModel,
			MaxTokens: DefaultMaxTokens,
			Timeout:   Duration(DefaultUpstreamTimeout),
		},
		RateLimit: RateLimitConfig{
			MaxRequests: DefaultRateLimitMax,
			Window:      Duration(DefaultRateLimitWindow),
		},
		Database: DatabaseConfig{
			Path: DefaultDatabasePath,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path (when non-empty) on top of the defaults,
// then applies environment overrides. Missing file is not an error when path
// is empty; an explicit path that cannot be read is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.Upstream.URL == "" {
		return nil, fmt.Errorf("upstream.url is required")
	}
	if cfg.RateLimit.MaxRequests <= 0 {
		cfg.RateLimit.MaxRequests = DefaultRateLimitMax
	}
	if cfg.RateLimit.Window <= 0 {
		cfg.RateLimit.Window = Duration(DefaultRateLimitWindow)
	}
	if cfg.Upstream.Timeout <= 0 {
		cfg.Upstream.Timeout = Duration(DefaultUpstreamTimeout)
	}

	return cfg, nil
}

// applyEnv overrides config fields from the environment. Only secrets and
// deployment-dependent fields are overridable; tuning stays in YAML.
func (c *Config) applyEnv() {
	if v := os.Getenv("CONCIERGE_LISTEN_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("CONCIERGE_UPSTREAM_URL"); v != "" {
		c.Upstream.URL = v
	}
	if v := os.Getenv("CONCIERGE_UPSTREAM_API_KEY"); v != "" {
		c.Upstream.APIKey = v
	}
	if v := os.Getenv("CONCIERGE_UPSTREAM_MODEL"); v != "" {
		c.Upstream.Model = v
	}
	if v := os.Getenv("CONCIERGE_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("CONCIERGE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}
