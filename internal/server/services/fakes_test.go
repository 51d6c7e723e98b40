package services

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/snippets/internal/common"
	"github.com/dmitrijs2005/snippets/internal/dbx"
	"github.com/dmitrijs2005/snippets/internal/server/models"
	snippetsrepo "github.com/dmitrijs2005/snippets/internal/server/repositories/snippets"
	usersrepo "github.com/dmitrijs2005/snippets/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// fakeHasher prefixes the plaintext so tests can read hashes back.
type fakeHasher struct {
	mu           sync.Mutex
	hashes       int
	verifies     int
	hashErr      error
	lastVerified string
}

func (h *fakeHasher) Hash(plaintext string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hashes++
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + plaintext, nil
}

func (h *fakeHasher) Verify(plaintext, encoded string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.verifies++
	h.lastVerified = encoded
	return encoded == "hashed:"+plaintext
}

// fakeUsersRepo keeps accounts in memory keyed by id.
type fakeUsersRepo struct {
	mu       sync.Mutex
	accounts map[string]*models.Account
	nextID   int

	findErr   error
	createErr error
	updateErr error

	updatedID   string
	updatedHash string
}

func newFakeUsersRepo(accounts ...models.Account) *fakeUsersRepo {
	r := &fakeUsersRepo{accounts: make(map[string]*models.Account)}
	for i := range accounts {
		a := accounts[i]
		r.accounts[a.ID] = &a
	}
	return r
}

func (r *fakeUsersRepo) find(match func(*models.Account) bool) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, a := range r.accounts {
		if match(a) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsersRepo) FindByUsername(_ context.Context, username string) (*models.Account, error) {
	return r.find(func(a *models.Account) bool { return a.Username == username })
}

func (r *fakeUsersRepo) FindByUsernameCaseInsensitive(_ context.Context, username string) (*models.Account, error) {
	return r.find(func(a *models.Account) bool { return strings.EqualFold(a.Username, username) })
}

func (r *fakeUsersRepo) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	a.ID = "u-" + strconv.Itoa(r.nextID)
	cp := *a
	r.accounts[a.ID] = &cp
	return a, nil
}

func (r *fakeUsersRepo) UpdatePasswordHash(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	a, ok := r.accounts[id]
	if !ok {
		return common.ErrorNotFound
	}
	a.PasswordHash = hash
	r.updatedID, r.updatedHash = id, hash
	return nil
}

// fakeSnippetsRepo keeps snippets in memory.
type fakeSnippetsRepo struct {
	mu       sync.Mutex
	items    map[string]models.Snippet
	locked   []string
	updated  []models.Snippet
	deleted  []string
	storeErr error
}

func newFakeSnippetsRepo(items ...models.Snippet) *fakeSnippetsRepo {
	r := &fakeSnippetsRepo{items: make(map[string]models.Snippet)}
	for _, s := range items {
		r.items[s.ID] = s
	}
	return r
}

func (r *fakeSnippetsRepo) FindByID(_ context.Context, id string) (*models.Snippet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.storeErr != nil {
		return nil, r.storeErr
	}
	s, ok := r.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &s, nil
}

func (r *fakeSnippetsRepo) FindByIDForUpdate(ctx context.Context, id string) (*models.Snippet, error) {
	r.mu.Lock()
	r.locked = append(r.locked, id)
	r.mu.Unlock()
	return r.FindByID(ctx, id)
}

func (r *fakeSnippetsRepo) List(context.Context) ([]models.Snippet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.storeErr != nil {
		return nil, r.storeErr
	}
	out := make([]models.Snippet, 0, len(r.items))
	for _, s := range r.items {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeSnippetsRepo) Create(_ context.Context, s *models.Snippet) (*models.Snippet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.storeErr != nil {
		return nil, r.storeErr
	}
	r.items[s.ID] = *s
	return s, nil
}

func (r *fakeSnippetsRepo) Update(_ context.Context, s *models.Snippet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[s.ID]; !ok {
		return common.ErrorNotFound
	}
	r.items[s.ID] = *s
	r.updated = append(r.updated, *s)
	return nil
}

func (r *fakeSnippetsRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.items, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	s *fakeSnippetsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository {
	return m.u
}

func (m *fakeRepoManager) Snippets(db dbx.DBTX) snippetsrepo.Repository {
	return m.s
}
