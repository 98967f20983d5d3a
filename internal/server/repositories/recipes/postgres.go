// Package recipes provides the persistence layer for recipes.
package recipes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/flava/internal/common"
	"github.com/dmitrijs2005/flava/internal/dbx"
	"github.com/dmitrijs2005/flava/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectRecipe = `SELECT id, name, description, ingredients, instructions, servings, meal_type, image_key, created_at, updated_at FROM recipes`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecipe(s scanner) (*models.Recipe, error) {
	var r models.Recipe
	err := s.Scan(&r.ID, &r.Name, &r.Description, &r.Ingredients, &r.Instructions,
		&r.Servings, &r.MealType, &r.ImageKey, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *PostgresRepository) Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	query :=
		`INSERT INTO recipes (name, description, ingredients, instructions, servings, meal_type)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		recipe.Name, recipe.Description, recipe.Ingredients, recipe.Instructions,
		recipe.Servings, recipe.MealType).
		Scan(&recipe.ID, &recipe.CreatedAt, &recipe.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return recipe, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Recipe, error) {
	return r.list(ctx, selectRecipe+` ORDER BY created_at, id`)
}

func (r *PostgresRepository) ListByMealType(ctx context.Context, mealType models.MealType) ([]*models.Recipe, error) {
	return r.list(ctx, selectRecipe+` WHERE meal_type = $1 ORDER BY created_at, id`, mealType)
}

// SearchByName matches name as a case-insensitive substring. LIKE wildcards
// in the input are matched literally.
func (r *PostgresRepository) SearchByName(ctx context.Context, name string) ([]*models.Recipe, error) {
	return r.list(ctx, selectRecipe+` WHERE name ILIKE $1 ORDER BY created_at, id`, "%"+escapeLike(name)+"%")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Recipe, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select recipes: %w", err)
	}
	defer rows.Close()

	result := []*models.Recipe{}
	for rows.Next() {
		item, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	item, err := scanRecipe(r.db.QueryRowContext(ctx, selectRecipe+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

// Update writes every mutable column of recipe and refreshes its UpdatedAt.
func (r *PostgresRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	query :=
		`UPDATE recipes
		 SET name = $2, description = $3, ingredients = $4, instructions = $5,
		     servings = $6, meal_type = $7, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, recipe.ID,
		recipe.Name, recipe.Description, recipe.Ingredients, recipe.Instructions,
		recipe.Servings, recipe.MealType).Scan(&recipe.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
}

func (r *PostgresRepository) SetImageKey(ctx context.Context, id uuid.UUID, key string) error {
	return r.exec(ctx, `UPDATE recipes SET image_key = $2, updated_at = now() WHERE id = $1`, id, key)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
