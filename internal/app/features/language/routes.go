// internal/app/features/language/routes.go
package language

import "github.com/go-chi/chi/v5"

// Routes mounts under /api/language.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{lang}", h.ServeChange)
	return r
}
