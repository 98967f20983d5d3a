package recipes

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/flava/internal/common"
	"github.com/dmitrijs2005/flava/internal/server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recipeCols = []string{"id", "name", "description", "ingredients", "instructions", "servings", "meal_type", "image_key", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func recipeRow(rows *sqlmock.Rows, id uuid.UUID, name string, mt models.MealType) *sqlmock.Rows {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return rows.AddRow(id.String(), name, "desc", "eggs", "mix", "2", string(mt), "", now, now)
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+recipes\s*\(name,\s*description,\s*ingredients,\s*instructions,\s*servings,\s*meal_type\).*RETURNING\s+id,\s*created_at,\s*updated_at\s*$`).
		WithArgs("Soup", "hot", "water", "boil", "4", models.MealDinner).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(id.String(), now, now))

	got, err := repo.Create(context.Background(), &models.Recipe{
		Name: "Soup", Description: "hot", Ingredients: "water", Instructions: "boil", Servings: "4", MealType: models.MealDinner,
	})
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`INSERT INTO recipes`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Recipe{Name: "x", MealType: models.MealLunch})
	assert.ErrorContains(t, err, "db error: db down")
}

func TestList(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	a, b := uuid.New(), uuid.New()
	rows := sqlmock.NewRows(recipeCols)
	recipeRow(rows, a, "A", models.MealLunch)
	recipeRow(rows, b, "B", models.MealDinner)
	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+recipes\s+ORDER\s+BY\s+created_at,\s*id$`).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, a, got[0].ID)
	assert.Equal(t, models.MealDinner, got[1].MealType)
}

func TestList_EmptyIsNotNil(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`FROM recipes`).WillReturnRows(sqlmock.NewRows(recipeCols))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListByMealType(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows(recipeCols)
	recipeRow(rows, uuid.New(), "Cake", models.MealDessert)
	mock.ExpectQuery(`(?s)WHERE\s+meal_type\s*=\s*\$1`).WithArgs(models.MealDessert).WillReturnRows(rows)

	got, err := repo.ListByMealType(context.Background(), models.MealDessert)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Cake", got[0].Name)
}

func TestSearchByName_EscapesWildcards(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)WHERE\s+name\s+ILIKE\s+\$1`).
		WithArgs(`%50\% off\_%`).
		WillReturnRows(sqlmock.NewRows(recipeCols))

	_, err := repo.SearchByName(context.Background(), "50% off_")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_QueryError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`FROM recipes`).WillReturnError(errors.New("boom"))

	_, err := repo.List(context.Background())
	assert.ErrorContains(t, err, "failed to select recipes")
}

func TestGetByID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	id := uuid.New()
	rows := sqlmock.NewRows(recipeCols)
	recipeRow(rows, id, "Toast", models.MealBreakfast)
	mock.ExpectQuery(`(?s)FROM\s+recipes\s+WHERE\s+id\s*=\s*\$1$`).WithArgs(id).WillReturnRows(rows)
	mock.ExpectQuery(`(?s)FROM\s+recipes\s+WHERE\s+id\s*=\s*\$1$`).WithArgs(id).WillReturnError(sql.ErrNoRows)

	got, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Toast", got.Name)

	_, err = repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rec := &models.Recipe{ID: uuid.New(), Name: "New", MealType: models.MealLunch}
	later := time.Now()
	q := `(?s)^UPDATE\s+recipes\s+SET\s+name\s*=\s*\$2.*WHERE\s+id\s*=\s*\$1\s+RETURNING\s+updated_at\s*$`
	mock.ExpectQuery(q).
		WithArgs(rec.ID, "New", "", "", "", "", models.MealLunch).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(later))
	mock.ExpectQuery(q).WillReturnError(sql.ErrNoRows)

	require.NoError(t, repo.Update(context.Background(), rec))
	assert.True(t, later.Equal(rec.UpdatedAt))

	assert.ErrorIs(t, repo.Update(context.Background(), rec), common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	id := uuid.New()
	q := `^DELETE\s+FROM\s+recipes\s+WHERE\s+id\s*=\s*\$1$`
	mock.ExpectExec(q).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q).WithArgs(id).WillReturnError(errors.New("db err"))

	require.NoError(t, repo.Delete(context.Background(), id))
	assert.ErrorIs(t, repo.Delete(context.Background(), id), common.ErrorNotFound)
	assert.ErrorContains(t, repo.Delete(context.Background(), id), "db error")
}

func TestSetImageKey(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	id := uuid.New()
	mock.ExpectExec(`(?s)^UPDATE\s+recipes\s+SET\s+image_key\s*=\s*\$2`).
		WithArgs(id, "recipes/x/y").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetImageKey(context.Background(), id, "recipes/x/y"))
}
