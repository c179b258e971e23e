// internal/app/features/rooms/invitations.go
package rooms

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/chathub/internal/app/features/errors"
	roomstore "github.com/dalemusser/chathub/internal/app/store/rooms"
	"github.com/dalemusser/chathub/internal/app/store/audit"
	"github.com/dalemusser/chathub/internal/app/system/guard"
	"github.com/dalemusser/chathub/internal/app/system/i18n"
)

type joinRequested struct {
	RoomID  string `json:"room_id"`
	Message string `json:"message"`
}

// HandleJoin handles POST /api/invitations/{invitationCode}. ResolveJoinByCode
// has answered members and pending users already; everyone else gets a join
// request appended here.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	admitted, uid, roomID, ok := h.admitted(w, r)
	if !ok {
		return
	}

	err := h.Rooms.RequestJoin(r.Context(), roomID, uid)
	switch {
	case err == nil:
	case errors.Is(err, roomstore.ErrAlreadyRelated):
		// Lost a race with another join or an approval: answer from a
		// fresh snapshot.
		c := h.Env.NewContext(r)
		c.Identity, c.Authenticated = admitted.Identity, admitted.Authenticated
		d, name := guard.Pipeline{guard.ResolveJoinByCode()}.Run(r.Context(), c)
		if !d.Passed() {
			h.Env.Write(w, r, c, d, name)
			return
		}
		h.fail(w, r, "rooms.join", err)
		return
	default:
		h.fail(w, r, "rooms.join", err)
		return
	}

	h.AuditLog.RoomEvent(r.Context(), r, audit.EventJoinRequested, uid, roomID, &uid, nil)
	uierrors.WriteJSON(w, http.StatusOK, joinRequested{
		RoomID:  roomID.Hex(),
		Message: h.Env.Catalog.T(r, i18n.KeyRequestSent),
	})
}
