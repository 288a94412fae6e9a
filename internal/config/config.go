// Package config loads the client configuration from a YAML file. String
// values starting with "$" are resolved from the environment, and a .env
// file in the working directory is loaded first so local development does
// not need exported variables.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultRefreshTokenExpirySec is the refresh-token TTL applied when the
	// file does not set one (7 days).
	DefaultRefreshTokenExpirySec = 7 * 24 * 60 * 60

	// DefaultAccessTokenExpirySec is the access-token TTL applied when the
	// file does not set one (30 minutes). The authorization server's
	// expires_in overrides it after the first grant.
	DefaultAccessTokenExpirySec = 1800

	// DefaultInputType selects the terminal consent collector.
	DefaultInputType = "terminal"
)

// Config is the root of the YAML configuration file.
type Config struct {
	Auth AuthConfig `yaml:"auth"`
}

// AuthConfig configures the token lifecycle manager.
type AuthConfig struct {
	BaseAuthURL string      `yaml:"base_auth_url"`
	App         AppConfig   `yaml:"app"`
	Token       TokenConfig `yaml:"token"`
	Input       InputConfig `yaml:"input"`
}

// AppConfig holds the OAuth2 client registration.
type AppConfig struct {
	AppKey      string `yaml:"app_key"`
	AppSecret   string `yaml:"app_secret"`
	CallbackURL string `yaml:"callback_url"`
}

// TokenConfig holds token storage and expiry policy.
type TokenConfig struct {
	TokenPath                string `yaml:"token_path"`
	RefreshTokenExpiresInSec int    `yaml:"refresh_token_expires_in_sec"`
	AccessTokenExpiresInSec  int    `yaml:"access_token_expires_in_sec"`
}

// InputConfig selects the consent collector implementation.
type InputConfig struct {
	Type   string `yaml:"type"`
	Prompt string `yaml:"prompt"`
}

// Load reads, parses, and resolves the configuration file at path.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // optional .env, missing file is fine

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return Parse(data)
}

// Parse parses raw YAML configuration, resolves $ENV references, and applies
// defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Parse: %w", err)
	}
	cfg.resolve()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) resolve() {
	a := &c.Auth
	a.BaseAuthURL = Resolve(a.BaseAuthURL)
	a.App.AppKey = Resolve(a.App.AppKey)
	a.App.AppSecret = Resolve(a.App.AppSecret)
	a.App.CallbackURL = Resolve(a.App.CallbackURL)
	a.Token.TokenPath = Resolve(a.Token.TokenPath)
}

func (c *Config) applyDefaults() {
	t := &c.Auth.Token
	if t.RefreshTokenExpiresInSec == 0 {
		t.RefreshTokenExpiresInSec = DefaultRefreshTokenExpirySec
	}
	if t.AccessTokenExpiresInSec == 0 {
		t.AccessTokenExpiresInSec = DefaultAccessTokenExpirySec
	}
	if c.Auth.Input.Type == "" {
		c.Auth.Input.Type = DefaultInputType
	}
}

// Resolve returns the value itself, or the named environment variable when
// the value starts with "$".
func Resolve(value string) string {
	if len(value) > 1 && value[0] == '$' {
		return os.Getenv(value[1:])
	}
	return value
}

// GetEnv returns the environment variable's value, or defaultValue when it
// is unset or empty.
func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
