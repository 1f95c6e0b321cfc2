package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables that select optional config sources.
const (
	ConfigFileEnv = "PROFILE_CONFIG"
	DotEnvPathEnv = "DOTENV_PATH"

	defaultDotEnvPath = ".env"
)

// envKeys maps the recognised environment variables to koanf keys.
var envKeys = map[string]string{
	"PORT":                "port",
	"HOST":                "host",
	"NODE_ENV":            "environment",
	"FLY_APP_NAME":        "fly_app_name",
	"USER_EMAIL":          "user_email",
	"USER_NAME":           "user_name",
	"USER_STACK":          "user_stack",
	"LOG_LEVEL":           "log_level",
	"CAT_FACT_URL":        "fact_url",
	"CAT_FACT_TIMEOUT_MS": "fact_timeout_ms",
}

// Load builds a Config by layering defaults, optional files, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. YAML file if PROFILE_CONFIG is set
//  3. env, after .env (DOTENV_PATH, default ".env") has been merged into the
//     process environment without overriding variables that are already set
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	if err := loadDotEnv(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	k := koanf.New(".")

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Only the recognised variables are read; empty values count as unset so
	// PORT="" keeps the default and USER_EMAIL="" stays absent.
	envProvider := env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		mapped, ok := envKeys[key]
		if !ok || value == "" {
			return "", nil
		}
		return mapped, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	cfg.dropEmptyProfile()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotEnv() error {
	path := os.Getenv(DotEnvPathEnv)
	if path == "" {
		path = defaultDotEnvPath
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}
