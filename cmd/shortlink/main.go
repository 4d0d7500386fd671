package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/spf13/pflag"
	"github.com/vadimbarashkov/shortlink/internal/app"
	"github.com/vadimbarashkov/shortlink/internal/config"
)

func main() {
	configPath := pflag.StringP("config", "c", os.Getenv("CONFIG_PATH"), "path to the YAML config file")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := newLogger(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx, cfg, logger); err != nil {
		logger.Error("application stopped with error", slog.Any("err", err))
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *httplog.Logger {
	return httplog.NewLogger("shortlink", httplog.Options{
		JSON:             cfg.Env == config.EnvProd,
		LogLevel:         cfg.Log.SlogLevel(),
		Concise:          cfg.Env == config.EnvDev,
		RequestHeaders:   cfg.Env != config.EnvProd,
		MessageFieldName: "message",
		Tags: map[string]string{
			"env": cfg.Env,
		},
		QuietDownRoutes: []string{
			"/api/v1/ping",
		},
		QuietDownPeriod: time.Minute,
	})
}
