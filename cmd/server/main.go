package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/snippets/internal/logging"
	"github.com/dmitrijs2005/snippets/internal/server"
	"github.com/dmitrijs2005/snippets/internal/server/config"
)

func main() {

	ctx := context.Background()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(os.Stdout, cfg.LogFormat, level)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "server stopped with error", "error", err)
		os.Exit(1)
	}
}
