// Package server wires configuration, storage, services and the HTTP
// pipeline into a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/snippets/internal/logging"
	"github.com/dmitrijs2005/snippets/internal/server/access"
	"github.com/dmitrijs2005/snippets/internal/server/auth"
	"github.com/dmitrijs2005/snippets/internal/server/config"
	"github.com/dmitrijs2005/snippets/internal/server/httpapi"
	"github.com/dmitrijs2005/snippets/internal/server/metrics"
	"github.com/dmitrijs2005/snippets/internal/server/password"
	"github.com/dmitrijs2005/snippets/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/snippets/internal/server/services"
)

// Seams for tests.
var (
	openDB         = repomanager.Open
	newRepoManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.HTTPServer
}

// NewApp validates cfg, connects to the database, applies migrations and
// builds the service graph.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	hasher, err := password.New(cfg.PasswordHashAlgorithm, cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}

	tokens, err := auth.NewTokenService([]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	proxies, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	db, err := openDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	us, err := services.NewUserService(db, rm, hasher, tokens, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("user service: %w", err)
	}

	ac := access.NewController(tokens)
	ss := services.NewSnippetService(db, rm, ac, logger)

	srv := httpapi.NewHTTPServer(cfg.HTTPAddr, logger, us, ss, ac, db, metrics.New(), httpapi.Options{
		AuthRateLimit:   cfg.AuthRateLimit,
		AuthRateBurst:   cfg.AuthRateBurst,
		TrustedProxies:  proxies,
		ShutdownTimeout: cfg.ShutdownTimeout,
	})

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// shuts the HTTP server down and closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)

	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "closing database", "error", cerr)
	}
	app.logger.Info(ctx, "App stopped")
	return err
}
