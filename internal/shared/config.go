package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Upstream UpstreamConfig `toml:"upstream"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// UpstreamConfig contains the vendor endpoints the resolver talks to.
type UpstreamConfig struct {
	TokenEndpoint  string `toml:"token_endpoint"`
	ClientTokenURL string `toml:"client_token_url"`
	PartnerURL     string `toml:"partner_url"`
	WebAPIURL      string `toml:"web_api_url"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host      string  `toml:"host"`
	Port      int     `toml:"port"`
	RateLimit float64 `toml:"rate_limit"`
	Burst     int     `toml:"burst"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnvFile loads variables from a dotenv file without overriding ones
// already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides config values with TOKEN_ENDPOINT, HOST, PORT and
// LOG_LEVEL when getenv returns them.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("TOKEN_ENDPOINT"); v != "" {
		c.Upstream.TokenEndpoint = v
	}
	if v := getenv("HOST"); v != "" {
		c.Server.Host = v
	}
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: PORT=%q", ErrInvalidConfig, v)
		}
		c.Server.Port = port
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks the values the resolver cannot run without.
func (c *Config) Validate() error {
	if c.Upstream.TokenEndpoint == "" {
		return fmt.Errorf("%w: upstream.token_endpoint is required", ErrInvalidConfig)
	}
	if c.Upstream.PartnerURL == "" || c.Upstream.WebAPIURL == "" || c.Upstream.ClientTokenURL == "" {
		return fmt.Errorf("%w: upstream URLs must not be empty", ErrInvalidConfig)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("%w: server.port must be positive", ErrInvalidConfig)
	}
	if c.Server.RateLimit < 0 || c.Server.Burst < 0 {
		return fmt.Errorf("%w: rate limits must not be negative", ErrInvalidConfig)
	}
	return nil
}
