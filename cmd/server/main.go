package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MollahHamza/TRASHCANPRO/internal/config"     // Internal config loader
	"github.com/MollahHamza/TRASHCANPRO/internal/logger"     // Leveled logging
	"github.com/MollahHamza/TRASHCANPRO/internal/queue"      // Report event consumer
	"github.com/MollahHamza/TRASHCANPRO/internal/repository" // Storage backends
	"github.com/MollahHamza/TRASHCANPRO/internal/router"     // Internal router setup
	queue_publisher "github.com/MollahHamza/TRASHCANPRO/internal/service"
	"github.com/MollahHamza/TRASHCANPRO/internal/store"
)

func main() {
	cfg := config.Load() // Load environment config
	logger.InitLogger(logger.ParseLevel(cfg.LogLevel), cfg.LogDir)
	defer logger.CloseLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backends, err := repository.Open(cfg.Storage)
	if err != nil {
		logger.Fatalf("storage: %v", err)
	}
	defer backends.Close()

	users, err := store.NewCredentialStore(ctx, backends.Users)
	if err != nil {
		logger.Fatalf("credentials: %v", err)
	}
	reports, err := store.NewReportStore(ctx, backends.Reports, users, cfg.Storage.ImageDir)
	if err != nil {
		logger.Fatalf("reports: %v", err)
	}

	rdb := config.NewRedisClient() // nil when Redis is disabled or unreachable
	if rdb != nil {
		defer rdb.Close()
	}

	qcfg := config.LoadQueueConfig()
	if qcfg.ConsumerEnabled {
		go func() {
			if err := queue.StartReportConsumer(ctx, qcfg); err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("report-consumer: %v", err)
			}
		}()
	}

	e := router.New(router.App{
		Cfg:       cfg,
		RateLimit: config.LoadRateLimitConfig(),
		Cache:     config.LoadCacheConfig(),
		Users:     users,
		Reports:   reports,
		Sessions:  repository.OpenSessions(cfg.SessionBackend, rdb, backends.DB()),
		Publisher: queue_publisher.New(qcfg),
		Redis:     rdb,
	})

	addr := ":" + cfg.Port
	logger.Infof("listening on %s (env=%s, storage=%s, reports=%d)", addr, cfg.Env, cfg.Storage.Backend, reports.Count())

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
	logger.Info("server stopped")
}
