package ctl

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/snippets/internal/logging"
	"github.com/dmitrijs2005/snippets/internal/server/auth"
	"github.com/dmitrijs2005/snippets/internal/server/config"
	"github.com/dmitrijs2005/snippets/internal/server/password"
	"github.com/dmitrijs2005/snippets/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/snippets/internal/server/services"
)

// Seams for tests.
var (
	openDB         = repomanager.Open
	newRepoManager = repomanager.NewPostgresRepositoryManager
)

// ErrNoSecret is returned by the token command when no signing secret is configured.
var ErrNoSecret = errors.New("token signing secret is not configured")

type noSecret struct{}

func (noSecret) Issue(string) (string, error) { return "", ErrNoSecret }

// Open connects to the configured database and builds an App around it.
// The signing secret is only needed by the token command, so a missing one
// is reported when a token is requested rather than here.
func Open(ctx context.Context, cfg *config.Config, logger logging.Logger, stdio Stdio) (*App, error) {
	hasher, err := password.New(cfg.PasswordHashAlgorithm, cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}

	var tokens services.TokenIssuer = noSecret{}
	if cfg.SecretKey != "" {
		ts, err := auth.NewTokenService([]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)
		if err != nil {
			return nil, fmt.Errorf("token service: %w", err)
		}
		tokens = ts
	}

	db, err := openDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepoManager()
	us, err := services.NewUserService(db, rm, hasher, tokens, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("user service: %w", err)
	}
	migrate := func(ctx context.Context) error { return rm.RunMigrations(ctx, db) }

	app := NewApp(us, migrate, stdio)
	app.closer = db
	return app, nil
}
