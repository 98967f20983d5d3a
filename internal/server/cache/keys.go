package cache

import (
	"context"
	"strings"
	"time"
)

const (
	KeyAllRecipes      = "recipes:all"
	PrefixRecipeByType = "recipes:type:"
	PrefixRecipeByName = "recipes:name:"
	PrefixRecipeByID   = "recipe:"
)

const (
	TTLAllRecipes  = 30 * time.Minute
	TTLRecipesType = 60 * time.Minute
	TTLRecipesName = 30 * time.Minute
	TTLRecipe      = 30 * time.Minute
)

func RecipesByTypeKey(mealType string) string { return PrefixRecipeByType + mealType }

// RecipesByNameKey folds case since the search itself is case-insensitive.
func RecipesByNameKey(name string) string {
	return PrefixRecipeByName + strings.ToLower(strings.TrimSpace(name))
}

func RecipeKey(id string) string { return PrefixRecipeByID + id }

// InvalidateRecipes drops every aggregate recipe query plus the entries for
// the given recipe ids.
func (c *Cache) InvalidateRecipes(ctx context.Context, ids ...string) {
	keys := []string{KeyAllRecipes}
	for _, id := range ids {
		keys = append(keys, RecipeKey(id))
	}
	c.Invalidate(ctx, keys...)
	c.InvalidatePrefix(ctx, PrefixRecipeByType)
	c.InvalidatePrefix(ctx, PrefixRecipeByName)
}
