// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/chathub/internal/app/system/auth"
	"github.com/dalemusser/chathub/internal/app/system/guard"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /users.
func Routes(h *Handler, env *guard.Env, sm *auth.SessionManager) chi.Router {
	session := env.Chain(guard.RequireSession())
	owner := env.Chain(guard.RequireSession(), guard.RequireResourceOwner(guard.ResourceProfile, guard.RouteWeb))

	r := chi.NewRouter()
	r.Use(sm.RememberAnonymous)
	r.With(session).Get("/{userID}", h.ServeProfile)
	r.With(owner).Get("/{userID}/edit", h.ServeEdit)
	r.With(owner).Post("/{userID}/edit", h.HandleEdit)
	return r
}
