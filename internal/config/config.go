// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Config is built once at startup and passed by pointer; nothing reads the
//   environment after Load returns.
// - Absent profile values (email, name, stack) are nil, never errors.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"
)

// Defaults.
const (
	DefaultPort          = 3000
	DefaultHost          = "0.0.0.0"
	DefaultEnvironment   = "development"
	DefaultFactURL       = "https://catfact.ninja/fact"
	DefaultFactTimeoutMS = 5000

	productionEnvironment = "production"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Host and Port form the HTTP listen address.
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// Environment mirrors NODE_ENV; "production" hides error details.
	Environment string `koanf:"environment"`

	// FlyAppName names the deployment used in the documented production server URL.
	FlyAppName string `koanf:"fly_app_name"`

	// Profile values; nil when not configured.
	UserEmail *string `koanf:"user_email"`
	UserName  *string `koanf:"user_name"`
	UserStack *string `koanf:"user_stack"`

	// FactURL is the upstream cat fact endpoint.
	FactURL string `koanf:"fact_url"`

	// FactTimeoutMS bounds the single outbound fact request.
	FactTimeoutMS int `koanf:"fact_timeout_ms"`
}

// New creates a Config populated with defaults. Context is accepted first to
// follow the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:      "info",
		Host:          DefaultHost,
		Port:          DefaultPort,
		Environment:   DefaultEnvironment,
		FactURL:       DefaultFactURL,
		FactTimeoutMS: DefaultFactTimeoutMS,
	}
}

// Addr returns the HTTP listen address, e.g. "0.0.0.0:3000".
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// IsProduction reports whether error details must be withheld.
func (c *Config) IsProduction() bool {
	return c.Environment == productionEnvironment
}

// FactTimeout returns the outbound fact request budget.
func (c *Config) FactTimeout() time.Duration {
	return time.Duration(c.FactTimeoutMS) * time.Millisecond
}

// ServerURL is the public base URL advertised in the API document.
func (c *Config) ServerURL() string {
	if c.IsProduction() {
		return fmt.Sprintf("https://%s.fly.dev", c.FlyAppName)
	}
	return fmt.Sprintf("http://localhost:%d", c.Port)
}

// dropEmptyProfile turns empty profile values from any source into nil.
func (c *Config) dropEmptyProfile() {
	for _, v := range []**string{&c.UserEmail, &c.UserName, &c.UserStack} {
		if *v != nil && **v == "" {
			*v = nil
		}
	}
}

// Validate checks the values that would otherwise fail late at listen or
// request time.
func (c *Config) Validate() error {
	switch {
	case c.Port < 1 || c.Port > 65535:
		return fmt.Errorf("%w: port %d out of range 1-65535", ErrInvalidConfig, c.Port)
	case c.Host == "":
		return fmt.Errorf("%w: host must not be empty", ErrInvalidConfig)
	case c.FactURL == "":
		return fmt.Errorf("%w: fact_url must not be empty", ErrInvalidConfig)
	case c.FactTimeoutMS <= 0:
		return fmt.Errorf("%w: fact_timeout_ms must be positive", ErrInvalidConfig)
	}
	return nil
}
