// internal/app/features/logout/routes.go
package logout

import (
	"github.com/dalemusser/chathub/internal/app/system/guard"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, env *guard.Env) chi.Router {
	r := chi.NewRouter()
	r.With(env.Chain(guard.RequireSession())).Get("/", h.ServeLogout)
	return r
}
