// internal/app/features/contacts/routes.go
package contacts

import (
	"github.com/dalemusser/chathub/internal/app/system/guard"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /api/contacts. The guard chain is attached per route
// so the userID parameter is resolved before the Context is built.
func Routes(h *Handler, tokens guard.Verifier) chi.Router {
	signedIn := h.Env.Chain(guard.RequireAPIToken(tokens))

	r := chi.NewRouter()
	r.With(signedIn).Get("/", h.ServeList)
	r.With(signedIn).Get("/count", h.ServeCount)
	r.With(signedIn).Get("/requests", h.ServeRequests)
	r.With(signedIn).Get("/requests/count", h.ServeRequestCount)

	r.Route("/{"+guard.ParamProfileID+"}", func(u chi.Router) {
		u.With(signedIn).Post("/", h.HandleRequest)
		u.With(signedIn).Delete("/", h.HandleDelete)
		u.With(signedIn).Post("/accept", h.HandleAccept)
		u.With(signedIn).Post("/reject", h.HandleReject)
	})
	return r
}
