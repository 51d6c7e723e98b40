package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/snippets/internal/common"
	"github.com/dmitrijs2005/snippets/internal/dbx"
	"github.com/dmitrijs2005/snippets/internal/logging"
	"github.com/dmitrijs2005/snippets/internal/server/access"
	"github.com/dmitrijs2005/snippets/internal/server/models"
	"github.com/dmitrijs2005/snippets/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// SnippetService reads snippets publicly and mutates them only on behalf
// of their author.
type SnippetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	access      *access.Controller
	log         logging.Logger

	now   func() time.Time
	newID func() string
}

func NewSnippetService(db *sql.DB, m repomanager.RepositoryManager, ac *access.Controller, log logging.Logger) *SnippetService {
	return &SnippetService{
		db:          db,
		repomanager: m,
		access:      ac,
		log:         log.With("module", "snippets"),
		now:         time.Now,
		newID:       func() string { return uuid.NewString() },
	}
}

// List returns all snippets, oldest first.
func (s *SnippetService) List(ctx context.Context) ([]models.Snippet, error) {
	list, err := s.repomanager.Snippets(s.db).List(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return list, nil
}

// Get returns one snippet. An id that is not a UUID is reported as not found.
func (s *SnippetService) Get(ctx context.Context, id string) (*models.Snippet, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	sn, err := s.repomanager.Snippets(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	return sn, nil
}

// Create stores a new snippet authored by who.
func (s *SnippetService) Create(ctx context.Context, who access.Identity, in models.SnippetPatch) (*models.Snippet, error) {
	if who.Username == "" {
		return nil, fmt.Errorf("%w: %w", common.ErrorForbidden, common.ErrInvalidToken)
	}

	sn := &models.Snippet{
		ID:      s.newID(),
		Author:  who.Username,
		Created: s.now().UTC(),
	}
	in.Apply(sn)

	sn, err := s.repomanager.Snippets(s.db).Create(ctx, sn)
	if err != nil {
		return nil, storeError(err)
	}

	s.log.Info(ctx, "snippet created", "id", sn.ID, "author", sn.Author)
	return sn, nil
}

// Update merges patch over the stored snippet when who is its author.
// The author field always ends up as the caller.
func (s *SnippetService) Update(ctx context.Context, who access.Identity, id string, patch models.SnippetPatch) (*models.Snippet, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, common.ErrorNotFound
	}

	var updated *models.Snippet
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Snippets(tx)

		var current *models.Snippet
		lookup := func(ctx context.Context, id string) (string, error) {
			sn, err := repo.FindByIDForUpdate(ctx, id)
			if err != nil {
				return "", err
			}
			current = sn
			return sn.Author, nil
		}

		return s.access.Mutate(ctx, who, id, lookup, func(ctx context.Context) error {
			patch.Apply(current)
			current.Author = who.Username
			now := s.now().UTC()
			current.LastUpdated = &now

			if err := repo.Update(ctx, current); err != nil {
				return err
			}
			updated = current
			return nil
		})
	})
	if err != nil {
		s.logRejection(ctx, "update", id, who, err)
		return nil, storeError(err)
	}

	s.log.Info(ctx, "snippet updated", "id", id, "author", who.Username)
	return updated, nil
}

// Delete removes the snippet when who is its author.
func (s *SnippetService) Delete(ctx context.Context, who access.Identity, id string) error {
	id, ok := canonicalID(id)
	if !ok {
		return common.ErrorNotFound
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Snippets(tx)

		lookup := func(ctx context.Context, id string) (string, error) {
			sn, err := repo.FindByIDForUpdate(ctx, id)
			if err != nil {
				return "", err
			}
			return sn.Author, nil
		}

		return s.access.Mutate(ctx, who, id, lookup, func(ctx context.Context) error {
			return repo.Delete(ctx, id)
		})
	})
	if err != nil {
		s.logRejection(ctx, "delete", id, who, err)
		return storeError(err)
	}

	s.log.Info(ctx, "snippet deleted", "id", id, "author", who.Username)
	return nil
}

func (s *SnippetService) logRejection(ctx context.Context, op, id string, who access.Identity, err error) {
	if errors.Is(err, common.ErrOwnershipMismatch) {
		s.log.Warn(ctx, "mutation refused", "op", op, "id", id, "caller", who.Username)
	}
}

// canonicalID parses any form uuid accepts and returns the dashed
// lowercase form PostgreSQL takes.
func canonicalID(id string) (string, bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return u.String(), true
}

// storeError passes through failure kinds the caller can act on and
// classifies everything else as internal.
func storeError(err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrorForbidden),
		errors.Is(err, common.ErrorValidation):
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrorInternal, err)
}
