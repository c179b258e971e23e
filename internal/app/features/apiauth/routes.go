// internal/app/features/apiauth/routes.go
package apiauth

import (
	"github.com/dalemusser/chathub/internal/app/system/guard"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /api.
func Routes(h *Handler, env *guard.Env) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.HandleLogin)

	r.Group(func(pr chi.Router) {
		pr.Use(env.Chain(guard.RequireAPIToken(h.Tokens)))
		pr.Get("/me", h.ServeMe)
		pr.Get("/users", h.ServeAccount)
		pr.Post("/update/user", h.HandleUpdateUser)
		pr.Post("/change_password", h.HandleChangePassword)
	})
	return r
}
