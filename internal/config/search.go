package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/pixbot/pkg/log"
)

type SearchConfig struct {
	// EmbeddingDim must match the dimension of vectors already in the index.
	EmbeddingDim   int     `env:"PIXBOT_EMBEDDING_DIM" envDefault:"256"`
	ScoreThreshold float64 `env:"PIXBOT_SCORE_THRESHOLD" envDefault:"0"`
	MaxTopK        int     `env:"PIXBOT_MAX_TOP_K" envDefault:"50"`
}

func NewSearchConfig(ctx context.Context) *SearchConfig {
	c := &SearchConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Search config")
	}
	return c
}
