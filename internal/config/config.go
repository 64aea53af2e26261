// Package config defines the notes client configuration.
package config

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Auth modes for the GraphQL API.
const (
	AuthModeDisabled = "disabled"
	AuthModeAPIKey   = "api_key"
	AuthModeToken    = "token"
)

// Themes understood by the plain renderer.
const (
	ThemeClassic = "classic"
	ThemeNeon    = "neon"
	ThemeMono    = "mono"
)

// DefaultPath is used when neither --config nor NOTES_CONFIG_FILE is given.
const DefaultPath = "config/config.yaml"

// Config represents the application configuration.
type Config struct {
	App AppConfig `yaml:"app"`
	API APIConfig `yaml:"api"`
	UI  UIConfig  `yaml:"ui"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.UI.Validate(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}

// AppConfig holds process-level settings.
type AppConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	// LogFile receives JSON logs. Empty means stderr for one-shot commands
	// and a file in the state directory for the interactive view.
	LogFile string `yaml:"log_file"`
}

// APIConfig describes the managed GraphQL endpoint.
//
// AuthMode controls the header sent with every request:
//   - "disabled": none.
//   - "api_key": x-api-key with APIKey, which must be non-empty.
//   - "token": Authorization with Token, or the stored login token when Token is empty.
type APIConfig struct {
	Endpoint string        `yaml:"endpoint"`
	AuthMode string        `yaml:"auth_mode"`
	APIKey   string        `yaml:"api_key"`
	Token    string        `yaml:"token"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Validate validates the API configuration.
func (c *APIConfig) Validate() error {
	// Normalise empty mode to "disabled".
	if c.AuthMode == "" {
		c.AuthMode = AuthModeDisabled
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Endpoint, validation.Required, is.URL),
		validation.Field(&c.AuthMode, validation.Required,
			validation.In(AuthModeDisabled, AuthModeAPIKey, AuthModeToken)),
		validation.Field(&c.APIKey,
			validation.When(c.AuthMode == AuthModeAPIKey, validation.Required.Error("is required in api_key mode"))),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Millisecond)),
	)
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Theme string `yaml:"theme"`
}

// Validate validates the UI configuration.
func (c *UIConfig) Validate() error {
	if c.Theme == "" {
		c.Theme = ThemeClassic
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Theme, validation.In(ThemeClassic, ThemeNeon, ThemeMono)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			LogLevel: slog.LevelInfo,
		},
		API: APIConfig{
			Endpoint: "http://localhost:20002/graphql",
			AuthMode: AuthModeDisabled,
			Timeout:  10 * time.Second,
		},
		UI: UIConfig{
			Theme: ThemeClassic,
		},
	}
}
