// Package config loads gameshelf settings from defaults, a YAML config file,
// .env files, GAMESHELF_ environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	gserrors "github.com/alexisbeaulieu97/gameshelf/pkg/errors"
)

// Source kinds.
const (
	SourceDir  = "dir"
	SourceHTTP = "http"
)

// Config is the resolved application configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Theme   ThemeConfig   `mapstructure:"theme"`
	Source  SourceConfig  `mapstructure:"source"`
	Store   StoreConfig   `mapstructure:"store"`
	Render  RenderConfig  `mapstructure:"render"`
	Session SessionConfig `mapstructure:"session"`
	Server  ServerConfig  `mapstructure:"server"`
}

// LogConfig selects the level and output format of the application log.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json logfmt"`
}

// ThemeConfig locates themes on disk and picks the active one.
type ThemeConfig struct {
	Dir    string `mapstructure:"dir" validate:"required"`
	Active string `mapstructure:"active" validate:"required,max=100"`
	Strict bool   `mapstructure:"strict"`
	Watch  bool   `mapstructure:"watch"`
}

// SourceConfig chooses where the theme document is fetched from.
type SourceConfig struct {
	Kind string `mapstructure:"kind" validate:"oneof=dir http"`
	URL  string `mapstructure:"url" validate:"required_if=Kind http,omitempty,url"`
}

// StoreConfig is the fetch retry policy of the document store.
type StoreConfig struct {
	Attempts int           `mapstructure:"attempts" validate:"min=1,max=20"`
	Backoff  time.Duration `mapstructure:"backoff" validate:"min=1ms,max=1m"`
}

// RenderConfig bounds rendering.
type RenderConfig struct {
	MaxDepth int `mapstructure:"max_depth" validate:"min=1,max=1024"`
	// Width is the terminal width for one-shot renders; 0 detects it.
	Width int `mapstructure:"width" validate:"min=0"`
}

// SessionConfig points at the launcher session snapshot.
type SessionConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig configures `gameshelf serve`.
type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required,hostname_port"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field and returns the failures joined.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return gserrors.NewValidationError("config", "invalid configuration", err)
	}
	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, gserrors.NewValidationError(configKey(fe.Namespace()), describe(fe), fe))
	}
	return errors.Join(errs...)
}

// configKey turns "Config.Store.Backoff" into "store.backoff".
func configKey(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		parts[i] = snake(part)
	}
	return strings.Join(parts, ".")
}

func snake(s string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range s {
		upper := r >= 'A' && r <= 'Z'
		if upper {
			if prevLower {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		prevLower = !upper
		b.WriteRune(r)
	}
	return b.String()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "url":
		return "must be a URL"
	case "hostname_port":
		return "must be host:port"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

// DefaultDir returns $XDG_CONFIG_HOME/gameshelf (or the platform equivalent).
func DefaultDir() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return filepath.Join(".", ".gameshelf")
	}
	return filepath.Join(base, "gameshelf")
}
