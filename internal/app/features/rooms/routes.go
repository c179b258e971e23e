// internal/app/features/rooms/routes.go
package rooms

import (
	"github.com/dalemusser/chathub/internal/app/system/guard"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /api/rooms. Each route carries its whole guard chain
// so the authorization rules of an endpoint read in one line.
func Routes(h *Handler, tokens guard.Verifier) chi.Router {
	env := h.Env
	token := guard.RequireAPIToken(tokens)

	member := env.Chain(token, guard.RequireRoomMembership())
	admin := env.Chain(token, guard.RequireRoomAdmin())
	adminOnOther := env.Chain(token, guard.RequireRoomAdmin(), guard.DenySelfTarget())
	authorDelete := env.Chain(append(guard.Pipeline{token}, guard.MessageDeletion()...)...)
	moderate := env.Chain(token, guard.RequireRoomMembership(),
		guard.RequireResourceOwner(guard.ResourceMessage, guard.RouteAPI))

	r := chi.NewRouter()

	r.With(env.Chain(token)).Post("/", h.HandleCreate)
	r.With(env.Chain(token)).Get("/", h.ServeList)
	r.With(env.Chain(token)).Get("/pending", h.ServePending)
	r.With(env.Chain(token)).Get("/count", h.ServeCount)

	r.Route("/{roomId}", func(room chi.Router) {
		room.With(admin).Delete("/", h.HandleDelete)
		room.With(member).Get("/members", h.ServeMembers)
		room.With(adminOnOther).Delete("/members/{memberId}", h.HandleRemoveMember)
		room.With(adminOnOther).Put("/members/{memberId}/role", h.HandleSetRole)
		room.With(member).Post("/leave", h.HandleLeave)

		room.With(member).Post("/messages", h.HandlePost)
		room.With(authorDelete).Delete("/messages/{messageId}", h.HandleDeleteMessage)
		room.With(moderate).Delete("/messages/{messageId}/moderate", h.HandleModerate)

		room.With(admin).Post("/requests/{memberId}/approve", h.HandleApprove)
		room.With(admin).Post("/requests/{memberId}/reject", h.HandleReject)
	})

	return r
}

// InvitationRoutes mounts under /api/invitations.
func InvitationRoutes(h *Handler, tokens guard.Verifier) chi.Router {
	r := chi.NewRouter()
	r.With(h.Env.Chain(guard.RequireAPIToken(tokens), guard.ResolveJoinByCode())).Post("/{invitationCode}", h.HandleJoin)
	return r
}
