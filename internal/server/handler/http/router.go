// Package http exposes the flava REST API over chi.
package http

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/flava/internal/logging"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the handlers into a chi router.
//
//	GET    /health
//	POST   /users
//	GET    /users/verify-email?token=
//	POST   /users/login
//	POST   /users/forgot-password
//	PUT    /users/reset-password?token=&new_password=
//
// Bearer-protected:
//
//	GET    /users/me
//	GET    /users/{id}
//	GET    /recipes
//	POST   /recipes
//	GET    /recipes/filter?type=
//	GET    /recipes/search?name=
//	GET    /recipes/{id}
//	PUT    /recipes/{id}
//	DELETE /recipes/{id}
//	POST   /recipes/{id}/image
//	GET    /recipes/{id}/image
func NewRouter(users UserService, recipes RecipeService, logger logging.Logger) http.Handler {
	uh := NewUserHandler(users, logger)
	rh := NewRecipeHandler(recipes, logger)

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(RequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", uh.Register)
		r.Get("/verify-email", uh.VerifyEmail)
		r.Post("/login", uh.Login)
		r.Post("/forgot-password", uh.ForgotPassword)
		r.Put("/reset-password", uh.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(users, logger))
			r.Get("/me", uh.Me)
			r.Get("/{id}", uh.Get)
		})
	})

	r.Route("/recipes", func(r chi.Router) {
		r.Use(Authenticate(users, logger))
		r.Get("/", rh.List)
		r.Post("/", rh.Create)
		r.Get("/filter", rh.Filter)
		r.Get("/search", rh.Search)
		r.Get("/{id}", rh.Get)
		r.Put("/{id}", rh.Update)
		r.Delete("/{id}", rh.Delete)
		r.Post("/{id}/image", rh.UploadImage)
		r.Get("/{id}/image", rh.Image)
	})

	return r
}
