// Package config loads moodlist settings from defaults, a YAML file and
// MOODLIST_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. MOODLIST_SERVER_URL
const EnvPrefix = "MOODLIST"

// Config is the full application configuration
type Config struct {
	Server        ServerConfig `mapstructure:"server" yaml:"server"`
	Serve         ServeConfig  `mapstructure:"serve" yaml:"serve"`
	Theme         string       `mapstructure:"theme" yaml:"theme"`
	DataDir       string       `mapstructure:"data_dir" yaml:"data_dir"`
	Notifications bool         `mapstructure:"notifications" yaml:"notifications"`
	Debug         bool         `mapstructure:"debug" yaml:"debug"`

	// File is the config file that was read, if any
	File string `mapstructure:"-" yaml:"-"`
}

// ServerConfig points the client at a task store
type ServerConfig struct {
	URL     string        `mapstructure:"url" yaml:"url"`
	Session string        `mapstructure:"session" yaml:"session"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// ServeConfig configures the built-in task store
type ServeConfig struct {
	Addr  string `mapstructure:"addr" yaml:"addr"`
	DB    string `mapstructure:"db" yaml:"db"`
	Token string `mapstructure:"token" yaml:"token"`
}

// DefaultDir returns ~/.config/moodlist
func DefaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "moodlist")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "moodlist")
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".moodlist"
	}
	return filepath.Join(home, ".local", "share", "moodlist")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.url", "http://127.0.0.1:5000")
	v.SetDefault("server.session", "")
	v.SetDefault("server.timeout", 15*time.Second)
	v.SetDefault("serve.addr", "127.0.0.1:5000")
	v.SetDefault("serve.db", "")
	v.SetDefault("serve.token", "")
	v.SetDefault("theme", "nord")
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("notifications", true)
	v.SetDefault("debug", false)
}

// Default returns the configuration with no file or environment applied
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		panic(fmt.Sprintf("config: defaults do not decode: %v", err))
	}
	cfg.finish()
	return cfg
}

// Load reads configuration. An explicit path must exist; without one the
// default location is used when present.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := path
	if file == "" {
		if _, err := os.Stat(DefaultPath()); err == nil {
			file = DefaultPath()
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || os.IsNotExist(err) {
				return nil, fmt.Errorf("config file %s not found", file)
			}
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = file
	cfg.finish()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) finish() {
	c.DataDir = expandHome(c.DataDir)
	c.Serve.DB = expandHome(c.Serve.DB)
	if c.Serve.DB == "" {
		c.Serve.DB = filepath.Join(c.DataDir, "store.db")
	}
	c.Server.URL = strings.TrimRight(strings.TrimSpace(c.Server.URL), "/")
}

// Validate checks values that would only fail later and less clearly
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server.url must not be empty")
	}
	if !strings.HasPrefix(c.Server.URL, "http://") && !strings.HasPrefix(c.Server.URL, "https://") {
		return fmt.Errorf("server.url must start with http:// or https://, got %q", c.Server.URL)
	}
	if c.Server.Timeout < 0 {
		return fmt.Errorf("server.timeout must not be negative")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
