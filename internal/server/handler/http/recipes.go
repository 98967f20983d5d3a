package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/flava/internal/common"
	"github.com/dmitrijs2005/flava/internal/logging"
	"github.com/dmitrijs2005/flava/internal/server/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// RecipeService is the recipe surface the handlers need.
type RecipeService interface {
	List(ctx context.Context) ([]models.RecipeView, error)
	FilterByMealType(ctx context.Context, mealType models.MealType) ([]models.RecipeView, error)
	SearchByName(ctx context.Context, name string) ([]models.RecipeView, error)
	Get(ctx context.Context, id uuid.UUID) (*models.RecipeView, error)
	Create(ctx context.Context, recipe *models.Recipe) (*models.RecipeView, error)
	Update(ctx context.Context, id uuid.UUID, patch models.RecipePatch) (*models.RecipeView, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ImageUploadURL(ctx context.Context, id uuid.UUID) (string, error)
	ImageURL(ctx context.Context, id uuid.UUID) (string, error)
}

type RecipeHandler struct {
	recipes RecipeService
	logger  logging.Logger
}

func NewRecipeHandler(recipes RecipeService, logger logging.Logger) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, logger: logger}
}

type imageURLResponse struct {
	URL string `json:"url"`
}

func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.recipes.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// Filter handles GET /recipes/filter?type=...
func (h *RecipeHandler) Filter(w http.ResponseWriter, r *http.Request) {
	mt, err := models.ParseMealType(r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	views, err := h.recipes.FilterByMealType(r.Context(), mt)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "no recipes found for meal type "+string(mt))
			return
		}
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// Search handles GET /recipes/search?name=...
func (h *RecipeHandler) Search(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	views, err := h.recipes.SearchByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "no recipes found matching "+name)
			return
		}
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeID(w, r)
	if !ok {
		return
	}
	v, err := h.recipes.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req RecipeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	v, err := h.recipes.Create(r.Context(), req.Recipe())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeID(w, r)
	if !ok {
		return
	}
	var req RecipeUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	v, err := h.recipes.Update(r.Context(), id, req.Patch())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeID(w, r)
	if !ok {
		return
	}
	if err := h.recipes.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage handles POST /recipes/{id}/image and returns a presigned PUT URL.
func (h *RecipeHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeID(w, r)
	if !ok {
		return
	}
	url, err := h.recipes.ImageUploadURL(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, imageURLResponse{URL: url})
}

// Image handles GET /recipes/{id}/image and returns a presigned GET URL.
func (h *RecipeHandler) Image(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeID(w, r)
	if !ok {
		return
	}
	url, err := h.recipes.ImageURL(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, imageURLResponse{URL: url})
}

func (h *RecipeHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, common.ErrorNotFound) {
		writeError(w, http.StatusNotFound, "recipe not found")
		return
	}
	writeServiceError(w, r, h.logger, err)
}

func recipeID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid recipe id")
		return uuid.Nil, false
	}
	return id, true
}
