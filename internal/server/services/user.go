// Package services contains server-side business logic. This file implements
// UserService, the identity directory: registration, authentication,
// password change and login.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/snippets/internal/common"
	"github.com/dmitrijs2005/snippets/internal/logging"
	"github.com/dmitrijs2005/snippets/internal/server/models"
	"github.com/dmitrijs2005/snippets/internal/server/password"
	"github.com/dmitrijs2005/snippets/internal/server/repositories/repomanager"
)

// TokenIssuer mints a bearer token for a username.
type TokenIssuer interface {
	Issue(username string) (string, error)
}

// LoginResult is returned by a successful Login. Username carries the
// casing stored at registration.
type LoginResult struct {
	Username string
	Token    string
}

// UserService owns the case-insensitive username namespace.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      password.Hasher
	tokens      TokenIssuer
	log         logging.Logger

	// verified against when the username is unknown
	dummyHash string
}

// NewUserService constructs a UserService. It hashes a throwaway password
// up front so that failed lookups can be timed like failed verifications.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher password.Hasher, tokens TokenIssuer, log logging.Logger) (*UserService, error) {
	dummy, err := hasher.Hash("dummy-password-for-timing")
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}

	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		log:         log.With("module", "users"),
		dummyHash:   dummy,
	}, nil
}

// Register creates an account unless the username is taken under
// case-insensitive comparison. No hash is computed for a duplicate.
// The returned account has PasswordHash cleared.
func (s *UserService) Register(ctx context.Context, username, plaintext string) (*models.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || plaintext == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.FindByUsernameCaseInsensitive(ctx, username)
	switch {
	case err == nil:
		return nil, common.ErrorDuplicateUsername
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, hashError(err)
	}

	account, err := repo.Create(ctx, &models.Account{Username: username, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			// lost a race with a concurrent registration
			return nil, common.ErrorDuplicateUsername
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	s.log.Info(ctx, "user registered", "username", account.Username)

	account.PasswordHash = ""
	return account, nil
}

// Authenticate checks plaintext against the account stored under the exact
// username. Both failure causes match common.ErrorUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, username, plaintext string) (*models.Account, error) {
	account, err := s.repomanager.Users(s.db).FindByUsername(ctx, username)
	return s.checkPassword(account, err, plaintext)
}

// ChangePassword verifies oldPlaintext for the account found by
// case-insensitive lookup and replaces only its password hash.
func (s *UserService) ChangePassword(ctx context.Context, username, oldPlaintext, newPlaintext string) error {
	if newPlaintext == "" {
		return fmt.Errorf("%w: new password is required", common.ErrorValidation)
	}

	repo := s.repomanager.Users(s.db)

	account, err := repo.FindByUsernameCaseInsensitive(ctx, username)
	account, err = s.checkPassword(account, err, oldPlaintext)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPlaintext)
	if err != nil {
		return hashError(err)
	}

	if err := repo.UpdatePasswordHash(ctx, account.ID, hash); err != nil {
		return fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	s.log.Info(ctx, "password changed", "username", account.Username)
	return nil
}

// Login authenticates and issues a token for the stored username.
func (s *UserService) Login(ctx context.Context, username, plaintext string) (*LoginResult, error) {
	account, err := s.Authenticate(ctx, username, plaintext)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(account.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	return &LoginResult{Username: account.Username, Token: token}, nil
}

func (s *UserService) checkPassword(account *models.Account, lookupErr error, plaintext string) (*models.Account, error) {
	if lookupErr != nil {
		if errors.Is(lookupErr, common.ErrorNotFound) {
			// burn a verification so unknown users take as long as known ones
			s.hasher.Verify(plaintext, s.dummyHash)
			return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrUnknownUser)
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, lookupErr)
	}

	if !s.hasher.Verify(plaintext, account.PasswordHash) {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrBadPassword)
	}

	return account, nil
}

func hashError(err error) error {
	if errors.Is(err, common.ErrorValidation) {
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrorInternal, err)
}
