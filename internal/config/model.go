package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/animus/pkg/log"
)

type ModelConfig struct {
	BaseURL     string        `env:"MODEL_BASE_URL" envDefault:"http://localhost:8001"`
	APIKey      string        `env:"MODEL_API_KEY"`
	Model       string        `env:"MODEL_NAME" envDefault:"mistral"`
	MaxTokens   int           `env:"MODEL_MAX_TOKENS" envDefault:"500"`
	Temperature float64       `env:"MODEL_TEMPERATURE" envDefault:"0.7"`
	Timeout     time.Duration `env:"MODEL_TIMEOUT" envDefault:"60s"`
	MaxRetries  int           `env:"MODEL_MAX_RETRIES" envDefault:"2"`
}

func NewModelConfig(ctx context.Context) *ModelConfig {
	c := &ModelConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Model config")
	}
	return c
}
