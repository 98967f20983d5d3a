// Package memory provides in-process repositories used when no database is
// configured and by service tests. Data is lost on restart.
package memory

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/flava/internal/common"
	"github.com/dmitrijs2005/flava/internal/dbx"
	"github.com/dmitrijs2005/flava/internal/server/models"
	"github.com/google/uuid"
)

// Store holds all rows. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]models.User
	recipes map[uuid.UUID]models.Recipe
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:   make(map[uuid.UUID]models.User),
		recipes: make(map[uuid.UUID]models.Recipe),
		now:     time.Now,
	}
}

var errNoSQL = errors.New("memory store does not accept SQL")

// DB satisfies dbx.DB for the memory store. RunInTx runs fn directly; there
// is no rollback.
type DB struct{}

func (DB) ExecContext(context.Context, string, ...any) (sql.Result, error) { return nil, errNoSQL }

func (DB) QueryContext(context.Context, string, ...any) (*sql.Rows, error) { return nil, errNoSQL }

// QueryRowContext cannot build a *sql.Row outside database/sql, so it
// returns nil. Memory repositories never call it.
func (DB) QueryRowContext(context.Context, string, ...any) *sql.Row { return nil }

func (d DB) RunInTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return fn(ctx, d)
}

// Users

type UsersRepository struct{ s *Store }

func (s *Store) Users() *UsersRepository { return &UsersRepository{s: s} }

func (r *UsersRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return nil, common.ErrorAlreadyExists
		}
	}
	now := r.s.now()
	user.ID = uuid.New()
	user.Verified = false
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.users[user.ID] = *user
	return user, nil
}

func (r *UsersRepository) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *UsersRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r *UsersRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Username == username })
}

func (r *UsersRepository) find(match func(*models.User) bool) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if match(&u) {
			out := u
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *UsersRepository) MarkVerified(_ context.Context, id uuid.UUID) error {
	return r.update(id, func(u *models.User) { u.Verified = true })
}

func (r *UsersRepository) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	return r.update(id, func(u *models.User) { u.PasswordHash = passwordHash })
}

func (r *UsersRepository) update(id uuid.UUID, fn func(*models.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	fn(&u)
	u.UpdatedAt = r.s.now()
	r.s.users[id] = u
	return nil
}

// Recipes

type RecipesRepository struct{ s *Store }

func (s *Store) Recipes() *RecipesRepository { return &RecipesRepository{s: s} }

func (r *RecipesRepository) Create(_ context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	recipe.ID = uuid.New()
	recipe.CreatedAt, recipe.UpdatedAt = now, now
	r.s.recipes[recipe.ID] = *recipe
	return recipe, nil
}

func (r *RecipesRepository) List(_ context.Context) ([]*models.Recipe, error) {
	return r.filter(func(*models.Recipe) bool { return true }), nil
}

func (r *RecipesRepository) ListByMealType(_ context.Context, mealType models.MealType) ([]*models.Recipe, error) {
	return r.filter(func(rc *models.Recipe) bool { return rc.MealType == mealType }), nil
}

func (r *RecipesRepository) SearchByName(_ context.Context, name string) ([]*models.Recipe, error) {
	needle := strings.ToLower(name)
	return r.filter(func(rc *models.Recipe) bool {
		return strings.Contains(strings.ToLower(rc.Name), needle)
	}), nil
}

func (r *RecipesRepository) filter(match func(*models.Recipe) bool) []*models.Recipe {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*models.Recipe{}
	for _, rc := range r.s.recipes {
		if match(&rc) {
			item := rc
			out = append(out, &item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *RecipesRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Recipe, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rc, ok := r.s.recipes[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &rc, nil
}

func (r *RecipesRepository) Update(_ context.Context, recipe *models.Recipe) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.recipes[recipe.ID]
	if !ok {
		return common.ErrorNotFound
	}
	recipe.ImageKey = cur.ImageKey
	recipe.CreatedAt = cur.CreatedAt
	recipe.UpdatedAt = r.s.now()
	r.s.recipes[recipe.ID] = *recipe
	return nil
}

func (r *RecipesRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.recipes[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.recipes, id)
	return nil
}

func (r *RecipesRepository) SetImageKey(_ context.Context, id uuid.UUID, key string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rc, ok := r.s.recipes[id]
	if !ok {
		return common.ErrorNotFound
	}
	rc.ImageKey = key
	rc.UpdatedAt = r.s.now()
	r.s.recipes[id] = rc
	return nil
}
