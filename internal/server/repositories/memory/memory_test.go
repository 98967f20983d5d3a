package memory

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/flava/internal/common"
	"github.com/dmitrijs2005/flava/internal/dbx"
	"github.com/dmitrijs2005/flava/internal/server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers_UniqueEmailAndUsername(t *testing.T) {
	repo := NewStore().Users()
	ctx := context.Background()

	u, err := repo.Create(ctx, &models.User{Email: "a@x.com", Username: "alice", PasswordHash: "h"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.False(t, u.Verified)

	_, err = repo.Create(ctx, &models.User{Email: "a@x.com", Username: "other"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	_, err = repo.Create(ctx, &models.User{Email: "b@x.com", Username: "alice"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestUsers_LookupsAndUpdates(t *testing.T) {
	repo := NewStore().Users()
	ctx := context.Background()

	u, err := repo.Create(ctx, &models.User{Email: "a@x.com", Username: "alice", PasswordHash: "h"})
	require.NoError(t, err)

	byEmail, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = repo.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, repo.MarkVerified(ctx, u.ID))
	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "h2"))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.Verified)
	assert.Equal(t, "h2", got.PasswordHash)

	assert.ErrorIs(t, repo.MarkVerified(ctx, uuid.New()), common.ErrorNotFound)
}

func TestUsers_ReturnedValueIsCopy(t *testing.T) {
	repo := NewStore().Users()
	ctx := context.Background()

	u, err := repo.Create(ctx, &models.User{Email: "a@x.com", Username: "alice"})
	require.NoError(t, err)

	got, _ := repo.GetByID(ctx, u.ID)
	got.Email = "mutated"

	again, _ := repo.GetByID(ctx, u.ID)
	assert.Equal(t, "a@x.com", again.Email)
}

func TestRecipes_CRUD(t *testing.T) {
	s := NewStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Second) }
	repo := s.Recipes()
	ctx := context.Background()

	soup, err := repo.Create(ctx, &models.Recipe{Name: "Tomato Soup", MealType: models.MealLunch})
	require.NoError(t, err)
	cake, err := repo.Create(ctx, &models.Recipe{Name: "Chocolate Cake", MealType: models.MealDessert})
	require.NoError(t, err)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, soup.ID, all[0].ID)

	desserts, err := repo.ListByMealType(ctx, models.MealDessert)
	require.NoError(t, err)
	require.Len(t, desserts, 1)
	assert.Equal(t, cake.ID, desserts[0].ID)

	found, err := repo.SearchByName(ctx, "SOUP")
	require.NoError(t, err)
	require.Len(t, found, 1)

	none, err := repo.SearchByName(ctx, "pizza")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	require.NoError(t, repo.SetImageKey(ctx, soup.ID, "recipes/k"))
	soup.Name = "Pea Soup"
	require.NoError(t, repo.Update(ctx, soup))
	got, err := repo.GetByID(ctx, soup.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pea Soup", got.Name)
	assert.Equal(t, "recipes/k", got.ImageKey, "update keeps the image key")

	require.NoError(t, repo.Delete(ctx, soup.ID))
	assert.ErrorIs(t, repo.Delete(ctx, soup.ID), common.ErrorNotFound)
	_, err = repo.GetByID(ctx, soup.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, repo.Update(ctx, soup), common.ErrorNotFound)
}

func TestDB_RunInTxCallsFn(t *testing.T) {
	var d dbx.DB = DB{}
	called := false
	err := d.RunInTx(context.Background(), func(ctx context.Context, tx dbx.DBTX) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)

	_, err = d.ExecContext(context.Background(), "SELECT 1")
	assert.Error(t, err)
}
