package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sandevgo/pixbot/internal/config"
	"github.com/sandevgo/pixbot/internal/providers/embed"
	"github.com/sandevgo/pixbot/internal/providers/search"
	"github.com/sandevgo/pixbot/internal/service/agent"
	"github.com/sandevgo/pixbot/internal/service/library"
	"github.com/sandevgo/pixbot/internal/service/session"
	"github.com/sandevgo/pixbot/internal/storage/sqlite"
	httptransport "github.com/sandevgo/pixbot/internal/transport/http"
	"github.com/sandevgo/pixbot/internal/transport/telegram"
	"github.com/sandevgo/pixbot/pkg/log"
	"github.com/sandevgo/pixbot/pkg/srv"
)

// app bundles everything the transports are built on.
type app struct {
	appCfg   *config.AppConfig
	agent    *agent.Agent
	library  *library.Library
	sessions *session.Store
	services []srv.Service
}

// newApp wires configuration, storage, backends and the dispatch pipeline.
// The returned services are lifecycle-only (cleanups, janitor); transports
// are added by the caller.
func newApp(ctx context.Context) *app {
	logger := log.FromCtx(ctx)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	searchCfg := config.NewSearchConfig(ctx)

	services := make([]srv.Service, 0)

	// 2. Storage
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	images, err := sqlite.NewImagesRepo(db, appCfg.GetImagesPath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize images repo")
	}
	vectors := sqlite.NewVectorsRepo(db)

	// 3. Backends
	embedder, err := embed.NewHashEmbedder(searchCfg.EmbeddingDim)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize embedder")
	}
	searchSvc := search.NewService(embedder, vectors, images)

	// 4. Sessions
	sessions := session.NewStore(appCfg.SessionTTL, appCfg.SessionMax)
	services = append(services, session.NewJanitor(sessions, time.Minute))

	// 5. Dispatch pipeline
	ag := agent.NewAgent(
		appCfg,
		sessions,
		agent.NewRuleClassifier(),
		agent.NewPassthroughOptimizer(sessions),
		agent.NewExecutor(searchSvc, images, vectors, embedder),
		agent.NewResponder(),
	)

	return &app{
		appCfg:   appCfg,
		agent:    ag,
		library:  library.New(images, vectors, embedder),
		sessions: sessions,
		services: services,
	}
}

// NewServices builds the full service set for `pix start`.
func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	c := newApp(ctx)
	services := c.services

	if c.appCfg.EnableHTTP {
		httpCfg := config.NewHTTPConfig(ctx)
		handler := httptransport.NewHandler(c.agent, c.library, httpCfg.MaxUploadBytes)
		services = append(services, httptransport.NewServer(ctx, httpCfg, handler))
	}

	if c.appCfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, c.agent)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize telegram bot")
		}
		services = append(services, bot)
	}

	return services
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
