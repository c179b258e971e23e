package guard

import (
	"context"
	"net/http"

	"github.com/dalemusser/chathub/internal/app/system/i18n"
	"github.com/dalemusser/chathub/internal/app/system/membership"
	"github.com/dalemusser/chathub/internal/domain/models"
)

// JoinStatus is the terminal answer of ResolveJoinByCode.
type JoinStatus struct {
	Status  models.InvitationStatus `json:"status"`
	RoomID  string                  `json:"room_id"`
	Message string                  `json:"message,omitempty"`
}

// ResolveJoinByCode handles a join-by-invitation-code request.
//
// An active member gets IN_ROOM. Otherwise a user already listed in the
// room's incoming requests gets HAVE_REQUEST_BEFORE. Both are terminal and
// mutate nothing. Membership is checked first so an approved member is never
// reported as pending. Anyone else continues to the join-request handler
// with RoomID set to the resolved room. The room is always the one the code
// names; a RoomID already on the Context is discarded.
func ResolveJoinByCode() Guard {
	return Guard{Name: "ResolveJoinByCode", Check: func(ctx context.Context, c *Context) Decision {
		uid, ok := c.UserID()
		if !ok {
			return Deny(http.StatusUnauthorized, i18n.KeyErrorToken)
		}
		if c.InvitationCode == "" {
			return Deny(http.StatusNotFound, i18n.KeyRoomNotFound)
		}
		c.resolveByCode()
		room, err := c.Room(ctx)
		if err != nil {
			return Fail(i18n.KeyCommonError, err)
		}
		if room == nil {
			return Deny(http.StatusNotFound, i18n.KeyRoomNotFound)
		}

		roomID := room.ID.Hex()
		if m := membership.ActiveMembership(room, uid); m != nil {
			c.Membership = m
			return Respond(http.StatusOK, JoinStatus{
				Status:  models.InvitationInRoom,
				RoomID:  roomID,
				Message: c.T(i18n.KeyInRoom),
			})
		}
		if membership.HasPendingRequest(room, uid) {
			return Respond(http.StatusOK, JoinStatus{
				Status:  models.InvitationHaveRequestBefore,
				RoomID:  roomID,
				Message: c.T(i18n.KeyRequested),
			})
		}

		c.RoomID = roomID
		return Continue()
	}}
}
