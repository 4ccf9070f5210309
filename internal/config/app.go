package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v9"
	"github.com/sandevgo/animus/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"ANIMUS_RUNTIME_PATH" envDefault:".animus"`
	HTTPAddr    string `env:"ANIMUS_HTTP_ADDR" envDefault:":5000"`

	// Context Management
	ContextWindowSize int `env:"CONTEXT_WINDOW_SIZE" envDefault:"10"`
	HistoryLimit      int `env:"HISTORY_LIMIT" envDefault:"50"`

	// Personality owning every turn until multi-personality routing exists
	DefaultPersonalityID int64 `env:"DEFAULT_PERSONALITY_ID" envDefault:"1"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "animus.db")
}
