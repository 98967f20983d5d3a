package recipes

import (
	"context"

	"github.com/dmitrijs2005/flava/internal/server/models"
	"github.com/google/uuid"
)

// Repository persists recipes. Single-row operations return
// common.ErrorNotFound when the id does not exist. List variants return an
// empty slice, never an error, when nothing matches.
type Repository interface {
	Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	List(ctx context.Context) ([]*models.Recipe, error)
	ListByMealType(ctx context.Context, mealType models.MealType) ([]*models.Recipe, error)
	SearchByName(ctx context.Context, name string) ([]*models.Recipe, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	Update(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetImageKey(ctx context.Context, id uuid.UUID, key string) error
}
