package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/snippets/internal/common"
	"github.com/dmitrijs2005/snippets/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	insertQuery     = `(?s)^INSERT\s+INTO\s+users\s*\(username,\s*password_hash\)\s*VALUES\s*\(\$1,\s*\$2\)\s*RETURNING\s+id,\s*created_at\s*$`
	selectExact     = `(?s)^SELECT\s+id,\s*username,\s*password_hash,\s*created_at\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1\s*$`
	selectFolded    = `(?s)^SELECT\s+id,\s*username,\s*password_hash,\s*created_at\s+FROM\s+users\s+WHERE\s+lower\(username\)\s*=\s*lower\(\$1\)\s*$`
	updateHashQuery = `(?s)^UPDATE\s+users\s+SET\s+password_hash\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1\s*$`
)

var accountColumns = []string{"id", "username", "password_hash", "created_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(insertQuery).
		WithArgs("Alice", "$2a$04$hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("u-42", created))

	got, err := repo.Create(context.Background(), &models.Account{Username: "Alice", PasswordHash: "$2a$04$hash"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "u-42" || got.Username != "Alice" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).
		WithArgs("alice", "h").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_lower_idx"})

	_, err := repo.Create(context.Background(), &models.Account{Username: "alice", PasswordHash: "h"})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).
		WithArgs("alice", "h").
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Account{Username: "alice", PasswordHash: "h"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFindByUsername_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectExact).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(accountColumns).AddRow("u-1", "alice", "hash", time.Now()))

	got, err := repo.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FindByUsername error: %v", err)
	}
	if got.ID != "u-1" || got.Username != "alice" || got.PasswordHash != "hash" {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestFindByUsername_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectExact).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUsername(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestFindByUsernameCaseInsensitive_ReturnsCanonicalCasing(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectFolded).
		WithArgs("ALICE").
		WillReturnRows(sqlmock.NewRows(accountColumns).AddRow("u-1", "Alice", "hash", time.Now()))

	got, err := repo.FindByUsernameCaseInsensitive(context.Background(), "ALICE")
	if err != nil {
		t.Fatalf("FindByUsernameCaseInsensitive error: %v", err)
	}
	if got.Username != "Alice" {
		t.Fatalf("want canonical casing Alice, got %q", got.Username)
	}
}

func TestFindByUsernameCaseInsensitive_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectFolded).
		WithArgs("alice").
		WillReturnError(errors.New("db err"))

	_, err := repo.FindByUsernameCaseInsensitive(context.Background(), "alice")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestUpdatePasswordHash(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(updateHashQuery).
		WithArgs("u-1", "newhash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdatePasswordHash(context.Background(), "u-1", "newhash"); err != nil {
		t.Fatalf("UpdatePasswordHash error: %v", err)
	}
}

func TestUpdatePasswordHash_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(updateHashQuery).
		WithArgs("u-x", "h").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePasswordHash(context.Background(), "u-x", "h")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestUpdatePasswordHash_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(updateHashQuery).
		WithArgs("u-1", "h").
		WillReturnError(errors.New("db err"))

	err := repo.UpdatePasswordHash(context.Background(), "u-1", "h")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
