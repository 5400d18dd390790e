package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dharti-automation/dharti-web/config"
	httpapi "github.com/dharti-automation/dharti-web/internal/api/http"
	"github.com/dharti-automation/dharti-web/internal/api/http/middleware"
	"github.com/dharti-automation/dharti-web/internal/assets"
	"github.com/dharti-automation/dharti-web/internal/bootstrap"
	"github.com/dharti-automation/dharti-web/internal/carousel"
	cronjob "github.com/dharti-automation/dharti-web/internal/content/cron"
	formservice "github.com/dharti-automation/dharti-web/internal/forms/service"
	"github.com/dharti-automation/dharti-web/internal/logging"
	"github.com/dharti-automation/dharti-web/internal/richtext"
	"github.com/dharti-automation/dharti-web/internal/settings"
	"github.com/dharti-automation/dharti-web/internal/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "dharti-web: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Options{Level: cfg.App.LogLevel, HumanReadable: cfg.App.LogHuman})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger = logger.WithFields(map[string]any{"service": cfg.App.ServiceName, "version": cfg.App.Version})
	logging.SetDefault(logger)

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	content, closeCache, err := bootstrap.OpenContent(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open content cache: %w", err)
	}
	defer closeCache()

	policy, err := richtext.ParsePolicy(cfg.Content.HTMLPolicy)
	if err != nil {
		return err
	}
	logger.Infof("cms html policy: %s", policy)

	presets, err := carousel.LoadPresets(cfg.Content.CarouselPresets)
	if err != nil {
		return fmt.Errorf("load carousel presets: %w", err)
	}

	provider := settings.NewProvider(content)
	go func() {
		if err := provider.Load(ctx); err != nil {
			logger.Error(err, "initial settings load failed")
		}
	}()

	resolver := assets.NewResolver(cfg.Upstream.BaseURL)
	site, err := web.New(web.Deps{
		Content:         content,
		Site:            provider,
		Forms:           formservice.NewSubmitter(content.Upstream()),
		Presets:         presets,
		Assets:          resolver,
		RichText:        richtext.NewRenderer(policy, resolver.Base),
		InvalidateToken: cfg.Cache.InvalidateToken,
	})
	if err != nil {
		return fmt.Errorf("init site: %w", err)
	}

	scheduler := cronjob.NewScheduler(content, cfg.Cache.WarmSchedule, time.Minute, logger)
	if err := scheduler.Start(); err != nil {
		return err
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: cfg.App.ServiceName,
		Version:     cfg.App.Version,
		Logger:      logger,
		Site:        site,
		Health: httpapi.Dependencies{
			Upstream: content.Upstream(),
			Cache:    content,
			Settings: func() string { return provider.Snapshot().Status.String() },
		},
		AllowOrigins: cfg.Server.AllowOrigins,
		FormLimiter:  middleware.NewClientRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("server listening on %s (upstream %s)", srv.Addr, cfg.Upstream.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	scheduler.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(err, "error during shutdown")
	}
	logger.Info("server gracefully stopped")
	return nil
}
