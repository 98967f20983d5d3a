package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParseMealType(t *testing.T) {
	for _, m := range MealTypes {
		got, err := ParseMealType(string(m))
		assert.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err := ParseMealType("brunch")
	assert.Error(t, err)
	_, err = ParseMealType("")
	assert.Error(t, err)
}

func TestRecipePatch_ApplyOnlyPresentFields(t *testing.T) {
	r := &Recipe{
		Name:         "Pancakes",
		Description:  "fluffy",
		Ingredients:  "flour, milk",
		Instructions: "mix, fry",
		Servings:     "4",
		MealType:     MealBreakfast,
	}
	name := "Crepes"
	dessert := MealDessert

	patch := RecipePatch{Name: &name, MealType: &dessert}
	assert.False(t, patch.Empty())
	patch.Apply(r)

	assert.Equal(t, "Crepes", r.Name)
	assert.Equal(t, MealDessert, r.MealType)
	assert.Equal(t, "fluffy", r.Description)
	assert.Equal(t, "flour, milk", r.Ingredients)
	assert.Equal(t, "mix, fry", r.Instructions)
	assert.Equal(t, "4", r.Servings)
}

func TestRecipePatch_EmptyStringIsPresent(t *testing.T) {
	r := &Recipe{Description: "long text"}
	empty := ""
	RecipePatch{Description: &empty}.Apply(r)
	assert.Equal(t, "", r.Description)
	assert.True(t, RecipePatch{}.Empty())
}

func TestNewRecipeView(t *testing.T) {
	now := time.Now()
	r := &Recipe{ID: uuid.New(), Name: "Soup", MealType: MealLunch, CreatedAt: now, UpdatedAt: now}

	v := NewRecipeView(r)
	assert.Equal(t, r.ID, v.ID)
	assert.Equal(t, "Soup", v.Name)
	assert.False(t, v.HasImage)

	r.ImageKey = "recipes/x.jpg"
	assert.True(t, NewRecipeView(r).HasImage)

	assert.Len(t, NewRecipeViews([]*Recipe{r, r}), 2)
	assert.NotNil(t, NewRecipeViews(nil))
}

func TestNewUserView_HasNoPassword(t *testing.T) {
	u := &User{ID: uuid.New(), Name: "Ann", Email: "a@x.com", Username: "ann", PasswordHash: "$2a$..."}
	v := NewUserView(u)
	assert.Equal(t, u.Email, v.Email)
	assert.Equal(t, u.Username, v.Username)
	assert.False(t, v.Verified)
}
