package users

import (
	"context"

	"github.com/dmitrijs2005/snippets/internal/server/models"
)

// Repository is the credential store. Lookups return common.ErrorNotFound
// when no account matches; Create returns common.ErrorAlreadyExists when
// the case-insensitive username is taken.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	FindByUsernameCaseInsensitive(ctx context.Context, username string) (*models.Account, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}
