package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/flava/internal/logging"
	"github.com/dmitrijs2005/flava/internal/server"
	"github.com/dmitrijs2005/flava/internal/server/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	var logger logging.Logger
	zl, err := logging.NewProductionZap(cfg.LogLevel)
	if err != nil {
		logger = logging.NewJSONSlogLogger(os.Stdout, slog.LevelInfo)
		logger.Warn(context.Background(), "falling back to slog", "error", err)
	} else {
		defer func() { _ = zl.Sync() }()
		logger = logging.NewZapLogger(zl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}
