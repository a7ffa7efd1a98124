package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"githubActivityFeed/internal/config"
	"githubActivityFeed/internal/eventrow"
	"githubActivityFeed/internal/events"
	"githubActivityFeed/internal/fetcher"
	"githubActivityFeed/internal/handlers"
	"githubActivityFeed/internal/i18n"
	"githubActivityFeed/internal/logger"
	"githubActivityFeed/internal/metrics"
	"githubActivityFeed/internal/middleware"
	"githubActivityFeed/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		panic(err)
	}
	logger.InitLogger(cfg.LogLevel)
	defer logger.Lg.Sync()

	ctx, cancel := context.WithCancel(context.Background())

	db, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		logger.Lg.Fatal("sql open", zap.Error(err))
	}
	rdb, err := store.OpenRedis(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Lg.Fatal("redis open", zap.Error(err))
	}
	defer rdb.Close()

	catalog, err := i18n.NewCatalog()
	if err != nil {
		logger.Lg.Fatal("i18n catalog", zap.Error(err))
	}
	if cfg.LocalesDir != "" {
		if err := catalog.LoadDir(cfg.LocalesDir); err != nil {
			logger.Lg.Fatal("i18n catalog", zap.Error(err))
		}
	}
	logger.Lg.Info("i18n_languages", zap.Strings("languages", catalog.Languages()))

	r := events.NewRepo(db, rdb, cfg.KeepEvents)
	formatter := eventrow.New(metrics.Capturer{})
	svc := events.NewService(r, formatter, catalog, events.Options{
		FeedTTL:         cfg.FeedCacheTTL,
		RowTTL:          cfg.RowCacheTTL,
		DefaultLanguage: cfg.DefaultLanguage,
	})

	client, err := fetcher.NewClient(cfg.GitHubToken, cfg.GitHubAPIURL)
	if err != nil {
		logger.Lg.Fatal("github client", zap.Error(err))
	}
	wg := &sync.WaitGroup{}
	wg.Add(1)
	go fetcher.New(client, r, cfg.FeedRepo, cfg.FetchLimit).Worker(ctx, wg, cfg.FetchInterval)

	app := fiber.New()
	app.Use(middleware.RequestLogger())
	handlers.NewHTTP(svc).Register(app)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			logger.Lg.Info("Server stopped", zap.Error(err))
		}
	}()

	GracefulShutdown(app, cancel, wg, db)
	logger.Lg.Info("Shutdown complete")
}

func GracefulShutdown(app *fiber.App, cancel context.CancelFunc, wg *sync.WaitGroup, db *sql.DB) {
	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
	<-sigchan
	logger.Lg.Info("Shutdown sig rcv")
	cancel()
	if err := app.Shutdown(); err != nil {
		logger.Lg.Error("Server shutdown error", zap.Error(err))
	}
	wg.Wait()
	if err := db.Close(); err != nil {
		logger.Lg.Error("db close error", zap.Error(err))
	}
}
