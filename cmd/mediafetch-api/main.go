package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediafetch/internal/api"
	"mediafetch/internal/config"
	"mediafetch/internal/downloader"
	"mediafetch/internal/logging"
	"mediafetch/internal/ratelimit"
	"mediafetch/internal/storage"
	"mediafetch/internal/telemetry"
	"mediafetch/internal/ytdlp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to config.yml")
	serviceName := flag.String("serviceName", "", "name of service for telemetry")
	address := flag.String("otelAddress", "", "address of telemetry server")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.Server.Debug)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}

	if err := run(cfg, logger, *serviceName, *address); err != nil {
		logger.Error("server stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(cfg *config.Config, logger *zap.Logger, serviceName, address string) error {
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	topts := telemetry.Options{ServiceName: cfg.Telemetry.ServiceName, Endpoint: cfg.Telemetry.Address}
	if serviceName != "" {
		topts.ServiceName = serviceName
	}
	if address != "" {
		topts.Endpoint = address
		cfg.Telemetry.Enabled = true
	}
	if topts.ServiceName != "" {
		telemetry.ServiceName = topts.ServiceName
	}
	if cfg.Telemetry.Enabled {
		shutdownTracer, err := telemetry.Setup(ctx, topts)
		if err != nil {
			logger.Warn("tracing disabled", zap.Error(err))
		} else {
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				_ = shutdownTracer(sctx)
			}()
		}
	}

	store, err := storage.New(cfg.Storage.Dir, cfg.Storage.MaxAgeDuration(), logger)
	if err != nil {
		return fmt.Errorf("open download store %s: %w", cfg.Storage.Dir, err)
	}

	runner := ytdlp.NewExec(cfg.YTDLP.Executable, logger)
	runner.FFmpegLocation = cfg.YTDLP.FFmpegLocation
	runner.ExtraArgs = cfg.YTDLP.ExtraArgs

	d := downloader.NewDownloader(runner, store, logging.NewLogger(logger), downloader.Options{
		InfoTimeout:     cfg.YTDLP.InfoTimeoutDuration(),
		DownloadTimeout: cfg.YTDLP.DownloadTimeoutDuration(),
		FFmpegLocation:  cfg.YTDLP.FFmpegLocation,
		ExtraArgs:       cfg.YTDLP.ExtraArgs,
	})
	limiter := ratelimit.New(cfg.Server.RateLimit, cfg.Server.RateBurst, 10*time.Minute)

	router, err := api.NewServer(d, limiter, logger, cfg.Server.TrustedProxies).Router()
	if err != nil {
		return fmt.Errorf("trusted proxies: %w", err)
	}

	// No WriteTimeout: downloads stream for as long as the file takes.
	srv := &http.Server{
		Addr:        net.JoinHostPort("", cfg.Server.Port),
		Handler:     router,
		ReadTimeout: cfg.Server.ReadTimeoutDuration(),
		ErrorLog:    zap.NewStdLog(logger),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("downloads", store.Dir()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return store.RunJanitor(gctx, cfg.Storage.CleanupIntervalDuration())
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}
