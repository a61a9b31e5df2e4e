package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/pixbot/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"PIXBOT_RUNTIME_PATH" envDefault:".pixbot"`

	// Transport flags
	EnableHTTP     bool `env:"PIXBOT_ENABLE_HTTP" envDefault:"true"`
	EnableTelegram bool `env:"PIXBOT_ENABLE_TELEGRAM" envDefault:"false"`

	// Chat defaults
	DefaultTopK int `env:"PIXBOT_DEFAULT_TOP_K" envDefault:"10"`

	// Session eviction. The store drops sessions idle longer than the TTL
	// and never holds more than SessionMax at once.
	SessionTTL time.Duration `env:"PIXBOT_SESSION_TTL" envDefault:"24h"`
	SessionMax int           `env:"PIXBOT_SESSION_MAX" envDefault:"10000"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "pixbot.db")
}

func (c AppConfig) GetImagesPath() string {
	return filepath.Join(c.RuntimePath, "images")
}

func (c AppConfig) GetEnvPath() string {
	return filepath.Join(c.RuntimePath, ".env")
}
