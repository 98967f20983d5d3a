package http

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/flava/internal/server/models"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var mealTypeValues = func() []interface{} {
	out := make([]interface{}, 0, len(models.MealTypes))
	for _, m := range models.MealTypes {
		out = append(out, string(m))
	}
	return out
}()

var passwordRules = []validation.Rule{validation.Required, validation.Length(8, 72)}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.Username, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.Password, passwordRules...),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r ForgotPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

type resetPasswordQuery struct {
	Token       string
	NewPassword string
}

func (q resetPasswordQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Token, validation.Required),
		validation.Field(&q.NewPassword, passwordRules...),
	)
}

type RecipeRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Ingredients  string `json:"ingredients"`
	Instructions string `json:"instructions"`
	Servings     string `json:"servings"`
	MealType     string `json:"meal_type"`
}

func (r RecipeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Ingredients, validation.Required),
		validation.Field(&r.Instructions, validation.Required),
		validation.Field(&r.Servings, validation.Length(0, 50)),
		validation.Field(&r.MealType, validation.Required, validation.In(mealTypeValues...)),
	)
}

func (r RecipeRequest) Recipe() *models.Recipe {
	return &models.Recipe{
		Name:         r.Name,
		Description:  r.Description,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		Servings:     r.Servings,
		MealType:     models.MealType(r.MealType),
	}
}

// RecipeUpdateRequest is a partial update; omitted fields stay unchanged.
type RecipeUpdateRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Ingredients  *string `json:"ingredients"`
	Instructions *string `json:"instructions"`
	Servings     *string `json:"servings"`
	MealType     *string `json:"meal_type"`
}

var notBlankIfSet = validation.By(func(value interface{}) error {
	if p, ok := value.(*string); ok && p != nil && strings.TrimSpace(*p) == "" {
		return errors.New("cannot be blank")
	}
	return nil
})

func (r RecipeUpdateRequest) Validate() error {
	if r.Patch().Empty() {
		return errors.New("at least one field must be set")
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, notBlankIfSet, validation.Length(1, 200)),
		validation.Field(&r.Ingredients, notBlankIfSet),
		validation.Field(&r.Instructions, notBlankIfSet),
		validation.Field(&r.Servings, validation.Length(0, 50)),
		validation.Field(&r.MealType, notBlankIfSet, validation.In(mealTypeValues...)),
	)
}

func (r RecipeUpdateRequest) Patch() models.RecipePatch {
	p := models.RecipePatch{
		Name:         r.Name,
		Description:  r.Description,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		Servings:     r.Servings,
	}
	if r.MealType != nil {
		mt := models.MealType(*r.MealType)
		p.MealType = &mt
	}
	return p
}
