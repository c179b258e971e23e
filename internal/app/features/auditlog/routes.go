// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/chathub/internal/app/system/guard"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /api/activity. Only room admins may read a trail.
func Routes(h *Handler, tokens guard.Verifier) chi.Router {
	admin := h.Env.Chain(guard.RequireAPIToken(tokens), guard.RequireRoomAdmin())

	r := chi.NewRouter()
	r.With(admin).Get("/rooms/{roomId}", h.ServeRoomLog)
	return r
}
