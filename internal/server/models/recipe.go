package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MealType classifies a recipe.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealDessert   MealType = "dessert"
)

// MealTypes lists every accepted MealType.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealDessert}

func (m MealType) Valid() bool {
	for _, t := range MealTypes {
		if m == t {
			return true
		}
	}
	return false
}

func ParseMealType(s string) (MealType, error) {
	m := MealType(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown meal type %q", s)
	}
	return m, nil
}

// Recipe is a stored recipe. ImageKey is the object-storage key of the
// recipe photo, empty when none was uploaded.
type Recipe struct {
	ID           uuid.UUID
	Name         string
	Description  string
	Ingredients  string
	Instructions string
	Servings     string
	MealType     MealType
	ImageKey     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RecipeView is the only serialized shape of a recipe. Handlers return it
// and the cache stores it, so both paths produce identical payloads.
type RecipeView struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Ingredients  string    `json:"ingredients"`
	Instructions string    `json:"instructions"`
	Servings     string    `json:"servings"`
	MealType     MealType  `json:"meal_type"`
	HasImage     bool      `json:"has_image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewRecipeView(r *Recipe) RecipeView {
	return RecipeView{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		Servings:     r.Servings,
		MealType:     r.MealType,
		HasImage:     r.ImageKey != "",
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func NewRecipeViews(rs []*Recipe) []RecipeView {
	out := make([]RecipeView, 0, len(rs))
	for _, r := range rs {
		out = append(out, NewRecipeView(r))
	}
	return out
}

// RecipePatch carries a partial update. Nil fields are left untouched.
type RecipePatch struct {
	Name         *string
	Description  *string
	Ingredients  *string
	Instructions *string
	Servings     *string
	MealType     *MealType
}

// Empty reports whether the patch sets no field at all.
func (p RecipePatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Ingredients == nil &&
		p.Instructions == nil && p.Servings == nil && p.MealType == nil
}

// Apply overwrites the fields of r that are present in p.
func (p RecipePatch) Apply(r *Recipe) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Ingredients != nil {
		r.Ingredients = *p.Ingredients
	}
	if p.Instructions != nil {
		r.Instructions = *p.Instructions
	}
	if p.Servings != nil {
		r.Servings = *p.Servings
	}
	if p.MealType != nil {
		r.MealType = *p.MealType
	}
}
