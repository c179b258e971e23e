// internal/app/features/rooms/members.go
package rooms

import (
	"encoding/json"
	"errors"
	"net/http"

	roomstore "github.com/dalemusser/chathub/internal/app/store/rooms"
	"github.com/dalemusser/chathub/internal/app/store/audit"
	"github.com/dalemusser/chathub/internal/app/system/i18n"
	"github.com/dalemusser/chathub/internal/domain/models"
)

// HandleRemoveMember handles DELETE /api/rooms/{roomId}/members/{memberId}.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	c, uid, roomID, ok := h.admitted(w, r)
	if !ok {
		return
	}
	target, ok := h.target(w, r, c)
	if !ok {
		return
	}

	if err := h.Rooms.RemoveMember(r.Context(), roomID, target); err != nil {
		h.memberWriteFailed(w, r, "rooms.remove_member", err)
		return
	}
	h.AuditLog.RoomEvent(r.Context(), r, audit.EventMemberRemoved, uid, roomID, &target, nil)
	h.ok(w, r, i18n.KeyMemberRemoved)
}

type roleRequest struct {
	Role string `json:"role"`
}

// HandleSetRole handles PUT /api/rooms/{roomId}/members/{memberId}/role.
func (h *Handler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	c, uid, roomID, ok := h.admitted(w, r)
	if !ok {
		return
	}
	target, ok := h.target(w, r, c)
	if !ok {
		return
	}

	var in roleRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&in); err != nil {
		h.deny(w, r, http.StatusBadRequest, i18n.KeyBadRequest)
		return
	}
	role, err := models.ParseMemberRole(in.Role)
	if err != nil {
		h.deny(w, r, http.StatusBadRequest, i18n.KeyBadRequest)
		return
	}

	if err := h.Rooms.SetMemberRole(r.Context(), roomID, target, role); err != nil {
		h.memberWriteFailed(w, r, "rooms.set_role", err)
		return
	}
	h.AuditLog.RoomEvent(r.Context(), r, audit.EventMemberRoleChange, uid, roomID, &target,
		map[string]string{"role": string(role)})
	h.ok(w, r, i18n.KeyRoleChanged)
}

// HandleLeave handles POST /api/rooms/{roomId}/leave.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	_, uid, roomID, ok := h.admitted(w, r)
	if !ok {
		return
	}
	if err := h.Rooms.RemoveMember(r.Context(), roomID, uid); err != nil {
		h.memberWriteFailed(w, r, "rooms.leave", err)
		return
	}
	h.AuditLog.RoomEvent(r.Context(), r, audit.EventMemberLeft, uid, roomID, &uid, nil)
	h.ok(w, r, i18n.KeyLeftRoom)
}

// HandleApprove handles POST /api/rooms/{roomId}/requests/{memberId}/approve.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.decideRequest(w, r, true)
}

// HandleReject handles POST /api/rooms/{roomId}/requests/{memberId}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.decideRequest(w, r, false)
}

func (h *Handler) decideRequest(w http.ResponseWriter, r *http.Request, approve bool) {
	c, uid, roomID, ok := h.admitted(w, r)
	if !ok {
		return
	}
	target, ok := h.target(w, r, c)
	if !ok {
		return
	}

	write, event, key := h.Rooms.RejectRequest, audit.EventJoinRejected, i18n.KeyRequestRejected
	if approve {
		write, event, key = h.Rooms.ApproveRequest, audit.EventJoinApproved, i18n.KeyRequestApproved
	}

	if err := write(r.Context(), roomID, target); err != nil {
		if errors.Is(err, roomstore.ErrNoRequest) {
			h.deny(w, r, http.StatusNotFound, i18n.KeyRequestMissing)
			return
		}
		h.fail(w, r, "rooms.decide_request", err)
		return
	}
	h.AuditLog.RoomEvent(r.Context(), r, event, uid, roomID, &target, nil)
	h.ok(w, r, key)
}

// memberWriteFailed maps the store errors of membership writes.
// A room deleted between the guard and the write shows up as ErrNotMember.
func (h *Handler) memberWriteFailed(w http.ResponseWriter, r *http.Request, where string, err error) {
	switch {
	case errors.Is(err, roomstore.ErrNotMember):
		h.deny(w, r, http.StatusNotFound, i18n.KeyNotInRoom)
	case errors.Is(err, models.ErrUnknownRole):
		h.deny(w, r, http.StatusBadRequest, i18n.KeyBadRequest)
	default:
		h.fail(w, r, where, err)
	}
}
