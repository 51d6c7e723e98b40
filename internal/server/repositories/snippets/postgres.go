package snippets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/snippets/internal/common"
	"github.com/dmitrijs2005/snippets/internal/dbx"
	"github.com/dmitrijs2005/snippets/internal/server/models"
)

const selectColumns = `SELECT id, author, title, language, code, created, last_updated FROM snippets`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnippet(row scanner) (*models.Snippet, error) {
	s := &models.Snippet{}
	var lastUpdated sql.NullTime
	if err := row.Scan(&s.ID, &s.Author, &s.Title, &s.Language, &s.Code, &s.Created, &lastUpdated); err != nil {
		return nil, err
	}
	if lastUpdated.Valid {
		t := lastUpdated.Time
		s.LastUpdated = &t
	}
	return s, nil
}

func (r *PostgresRepository) find(ctx context.Context, query, id string) (*models.Snippet, error) {
	s, err := scanSnippet(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Snippet, error) {
	return r.find(ctx, selectColumns+` WHERE id = $1`, id)
}

func (r *PostgresRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.Snippet, error) {
	return r.find(ctx, selectColumns+` WHERE id = $1 FOR UPDATE`, id)
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Snippet, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` ORDER BY created, id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Snippet, 0)
	for rows.Next() {
		s, err := scanSnippet(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Snippet) (*models.Snippet, error) {
	query :=
		`INSERT INTO snippets (id, author, title, language, code, created)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	_, err := r.db.ExecContext(ctx, query, s.ID, s.Author, s.Title, s.Language, s.Code, s.Created)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) Update(ctx context.Context, s *models.Snippet) error {
	query :=
		`UPDATE snippets SET author = $2, title = $3, language = $4, code = $5, last_updated = $6
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, s.ID, s.Author, s.Title, s.Language, s.Code, s.LastUpdated)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return requireAffected(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM snippets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
