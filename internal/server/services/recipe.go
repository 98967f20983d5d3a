package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/flava/internal/common"
	"github.com/dmitrijs2005/flava/internal/dbx"
	"github.com/dmitrijs2005/flava/internal/logging"
	"github.com/dmitrijs2005/flava/internal/server/cache"
	"github.com/dmitrijs2005/flava/internal/server/models"
	"github.com/dmitrijs2005/flava/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/flava/internal/server/storage"
	"github.com/google/uuid"
)

// ImageStore presigns object URLs for recipe images.
type ImageStore interface {
	PutURL(ctx context.Context, key string) (string, error)
	GetURL(ctx context.Context, key string) (string, error)
}

// RecipeService serves recipe queries through the read-through cache and
// invalidates affected entries after every write.
type RecipeService struct {
	db          dbx.DB
	repomanager repomanager.RepositoryManager
	cache       *cache.Cache
	images      ImageStore
	logger      logging.Logger
}

// NewRecipeService builds a RecipeService. images may be nil, which disables
// the image endpoints.
func NewRecipeService(db dbx.DB, m repomanager.RepositoryManager, c *cache.Cache, images ImageStore, logger logging.Logger) *RecipeService {
	return &RecipeService{db: db, repomanager: m, cache: c, images: images, logger: logger}
}

// List returns every recipe. An empty store yields an empty slice.
func (s *RecipeService) List(ctx context.Context) ([]models.RecipeView, error) {
	return cache.GetOrLoad(ctx, s.cache, cache.KeyAllRecipes, cache.TTLAllRecipes,
		func(ctx context.Context) ([]models.RecipeView, error) {
			rs, err := s.repomanager.Recipes(s.db).List(ctx)
			if err != nil {
				return nil, err
			}
			return models.NewRecipeViews(rs), nil
		})
}

// FilterByMealType returns recipes of one meal type, or common.ErrorNotFound
// when there are none.
func (s *RecipeService) FilterByMealType(ctx context.Context, mealType models.MealType) ([]models.RecipeView, error) {
	if !mealType.Valid() {
		return nil, fmt.Errorf("%w: unknown meal type %q", common.ErrorValidation, mealType)
	}
	views, err := cache.GetOrLoad(ctx, s.cache, cache.RecipesByTypeKey(string(mealType)), cache.TTLRecipesType,
		func(ctx context.Context) ([]models.RecipeView, error) {
			rs, err := s.repomanager.Recipes(s.db).ListByMealType(ctx, mealType)
			if err != nil {
				return nil, err
			}
			return models.NewRecipeViews(rs), nil
		})
	return nonEmpty(views, err)
}

// SearchByName returns recipes whose name contains name, ignoring case, or
// common.ErrorNotFound when there are none. Surrounding whitespace is ignored.
func (s *RecipeService) SearchByName(ctx context.Context, name string) ([]models.RecipeView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	views, err := cache.GetOrLoad(ctx, s.cache, cache.RecipesByNameKey(name), cache.TTLRecipesName,
		func(ctx context.Context) ([]models.RecipeView, error) {
			rs, err := s.repomanager.Recipes(s.db).SearchByName(ctx, name)
			if err != nil {
				return nil, err
			}
			return models.NewRecipeViews(rs), nil
		})
	return nonEmpty(views, err)
}

func nonEmpty(views []models.RecipeView, err error) ([]models.RecipeView, error) {
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, common.ErrorNotFound
	}
	return views, nil
}

// Get returns one recipe or common.ErrorNotFound.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.RecipeView, error) {
	return cache.GetOrLoad(ctx, s.cache, cache.RecipeKey(id.String()), cache.TTLRecipe,
		func(ctx context.Context) (*models.RecipeView, error) {
			r, err := s.repomanager.Recipes(s.db).GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			v := models.NewRecipeView(r)
			return &v, nil
		})
}

func (s *RecipeService) Create(ctx context.Context, recipe *models.Recipe) (*models.RecipeView, error) {
	r, err := s.repomanager.Recipes(s.db).Create(ctx, recipe)
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateRecipes(ctx)

	v := models.NewRecipeView(r)
	return &v, nil
}

// Update applies patch to the stored recipe inside one transaction.
func (s *RecipeService) Update(ctx context.Context, id uuid.UUID, patch models.RecipePatch) (*models.RecipeView, error) {
	var updated *models.Recipe
	err := s.db.RunInTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Recipes(tx)
		r, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		patch.Apply(r)
		if err := repo.Update(ctx, r); err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateRecipes(ctx, id.String())

	v := models.NewRecipeView(updated)
	return &v, nil
}

func (s *RecipeService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repomanager.Recipes(s.db).Delete(ctx, id); err != nil {
		return err
	}
	s.cache.InvalidateRecipes(ctx, id.String())
	return nil
}

// ImageUploadURL assigns a fresh image key to the recipe and returns a
// presigned PUT URL for it.
func (s *RecipeService) ImageUploadURL(ctx context.Context, id uuid.UUID) (string, error) {
	if s.images == nil {
		return "", common.ErrFeatureDisabled
	}

	var url string
	err := s.db.RunInTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Recipes(tx)
		if _, err := repo.GetByID(ctx, id); err != nil {
			return err
		}
		key := storage.ImageKey(id)
		u, err := s.images.PutURL(ctx, key)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
		}
		if err := repo.SetImageKey(ctx, id, key); err != nil {
			return err
		}
		url = u
		return nil
	})
	if err != nil {
		return "", err
	}
	s.cache.InvalidateRecipes(ctx, id.String())
	return url, nil
}

// ImageURL returns a presigned GET URL for the recipe image, or
// common.ErrorNotFound when the recipe has none.
func (s *RecipeService) ImageURL(ctx context.Context, id uuid.UUID) (string, error) {
	if s.images == nil {
		return "", common.ErrFeatureDisabled
	}
	r, err := s.repomanager.Recipes(s.db).GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if r.ImageKey == "" {
		return "", common.ErrorNotFound
	}
	url, err := s.images.GetURL(ctx, r.ImageKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}
	return url, nil
}
