// Command main is the entry point for the blog API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogapi/internal/config"
	"blogapi/internal/middleware"
	"blogapi/internal/observability"
	"blogapi/internal/server"
)

// @title Blog API
// @version 1.0
// @description CRUD API for users, posts and comments with simple credential login.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

const drainTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		middleware.Logger.Error("blog api stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	middleware.ConfigureLogger(cfg.Env, cfg.LogLevel)
	log := middleware.Logger

	stopTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "blog-api",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.OTelEnabled,
		Exporter:       cfg.OTelExporter,
		OTLPEndpoint:   cfg.OTelEndpoint,
		SamplerRatio:   cfg.OTelSamplerRatio,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		return err
	}
	app := srv.NewApp()

	if err := srv.StartEventLog(); err != nil {
		log.Warn("event log off", slog.String("reason", err.Error()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("port", cfg.Port), slog.String("env", cfg.Env))
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-listenErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on :%s: %w", cfg.Port, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("signal received, draining", slog.Duration("timeout", drainTimeout))
	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	err = errors.Join(srv.Shutdown(drainCtx), stopTracing(drainCtx))
	<-listenErr
	return err
}
