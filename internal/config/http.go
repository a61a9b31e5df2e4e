package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/pixbot/pkg/log"
)

type HTTPConfig struct {
	Addr            string        `env:"PIXBOT_HTTP_ADDR" envDefault:":8420"`
	ReadTimeout     time.Duration `env:"PIXBOT_HTTP_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"PIXBOT_HTTP_WRITE_TIMEOUT" envDefault:"60s"`
	MaxUploadBytes  int64         `env:"PIXBOT_HTTP_MAX_UPLOAD_BYTES" envDefault:"33554432"`
	ShutdownTimeout time.Duration `env:"PIXBOT_HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func NewHTTPConfig(ctx context.Context) *HTTPConfig {
	c := &HTTPConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse HTTP config")
	}
	return c
}
