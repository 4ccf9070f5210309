package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/animus/internal/config"
	"github.com/sandevgo/animus/internal/providers/llm"
	"github.com/sandevgo/animus/internal/service/chat"
	"github.com/sandevgo/animus/internal/storage/sqlite"
	"github.com/sandevgo/animus/internal/transport/httpapi"
	"github.com/sandevgo/animus/pkg/log"
	"github.com/sandevgo/animus/pkg/retry"
	"github.com/sandevgo/animus/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	modelCfg := config.NewModelConfig(ctx)

	// 2. Storage
	db, err := initStorage(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	convs := sqlite.NewConversationsRepo(db)
	turns := sqlite.NewTurnsRepo(db)
	metrics := sqlite.NewMetricsRepo(db)
	personalities := sqlite.NewPersonalitiesRepo(db)

	// 3. Completion client
	completions := llm.NewOpenAICompatible(modelCfg)

	retryCfg := retry.NewDefaultConfig()
	retryCfg.MaxRetries = modelCfg.MaxRetries
	retrier := retry.NewRetrier(retryCfg)

	// 4. Chat service
	svc := chat.NewService(appCfg, convs, turns, metrics, personalities, completions, retrier)

	// 5. HTTP transport
	services = append(services, httpapi.NewServer(ctx, appCfg, svc))

	return services
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (*sql.DB, error) {
	return sqlite.NewDB(ctx, cfg.GetDatabasePath())
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
