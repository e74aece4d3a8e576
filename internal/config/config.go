package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"

	// PathEnv names the optional config file.
	PathEnv = "PROJECTBOARD_CONFIG_PATH"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	DB        DBConfig        `yaml:"db" toml:"db"`
	Log       LogConfig       `yaml:"log" toml:"log"`
	Transport TransportConfig `yaml:"transport" toml:"transport"`
	Auth      AuthConfig      `yaml:"auth" toml:"auth"`
}

type ServerConfig struct {
	Host string `yaml:"host" toml:"host" env:"PROJECTBOARD_SERVER_HOST"`
	Port int    `yaml:"port" toml:"port" env:"PROJECTBOARD_SERVER_PORT"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DBConfig locates the activity journal. The default keeps it in memory.
type DBConfig struct {
	Path string `yaml:"path" toml:"path" env:"PROJECTBOARD_DB_PATH"`
}

type LogConfig struct {
	Level string `yaml:"level" toml:"level" env:"PROJECTBOARD_LOG_LEVEL"`
}

type TransportConfig struct {
	Mode string `yaml:"mode" toml:"mode" env:"PROJECTBOARD_TRANSPORT_MODE"`
}

// AuthConfig holds the optional bearer token guarding the API and MCP
// endpoints. Empty disables auth.
type AuthConfig struct {
	Token string `yaml:"token" toml:"token" env:"PROJECTBOARD_AUTH_TOKEN"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: ":memory:",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: TransportHTTP,
		},
	}
}

// Load builds the configuration from defaults, an optional file and
// environment variables, in that order. path wins over PROJECTBOARD_CONFIG_PATH.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config file: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config file: %w", err)
		}
	default:
		return fmt.Errorf("%w: unsupported config file type %q", ErrInvalidConfig, filepath.Ext(path))
	}
	return nil
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("%w: server port %d out of range", ErrInvalidConfig, c.Server.Port))
	}
	switch c.Transport.Mode {
	case TransportHTTP, TransportStdio:
	default:
		errs = append(errs, fmt.Errorf("%w: transport mode %q", ErrInvalidConfig, c.Transport.Mode))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.Log.Level))
	}
	if c.DB.Path == "" {
		errs = append(errs, fmt.Errorf("%w: empty db path", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}
