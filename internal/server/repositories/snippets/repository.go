package snippets

import (
	"context"

	"github.com/dmitrijs2005/snippets/internal/server/models"
)

// Repository is the resource store for snippets. Lookups, updates and
// deletes of a missing id return common.ErrorNotFound.
type Repository interface {
	FindByID(ctx context.Context, id string) (*models.Snippet, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id string) (*models.Snippet, error)
	List(ctx context.Context) ([]models.Snippet, error)
	Create(ctx context.Context, s *models.Snippet) (*models.Snippet, error)
	Update(ctx context.Context, s *models.Snippet) error
	Delete(ctx context.Context, id string) error
}
