// internal/app/features/rooms/rooms.go
package rooms

import (
	"encoding/json"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/chathub/internal/app/features/errors"
	roomstore "github.com/dalemusser/chathub/internal/app/store/rooms"
	"github.com/dalemusser/chathub/internal/app/store/audit"
	"github.com/dalemusser/chathub/internal/app/system/i18n"
	"github.com/dalemusser/chathub/internal/domain/models"
)

var errNoGuardContext = errors.New("handler reached without guard context")

type createRequest struct {
	Name string `json:"name"`
}

// roomCreated is the created room plus a localized confirmation.
type roomCreated struct {
	models.Room
	Message string `json:"message"`
}

// HandleCreate handles POST /api/rooms. The caller becomes the room's ADMIN.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	c, uid, _, ok := h.admitted(w, r)
	if !ok {
		return
	}
	var in createRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<12)).Decode(&in); err != nil {
		h.deny(w, r, http.StatusBadRequest, i18n.KeyBadRequest)
		return
	}

	room, err := h.Rooms.Create(r.Context(), in.Name, uid)
	if err != nil {
		if errors.Is(err, roomstore.ErrNameRequired) {
			h.deny(w, r, http.StatusBadRequest, i18n.KeyBadRequest)
			return
		}
		h.fail(w, r, "rooms.create", err)
		return
	}

	h.AuditLog.RoomEvent(r.Context(), r, audit.EventRoomCreated, uid, room.ID, nil,
		map[string]string{"name": room.Name, "by": c.Identity.Email})
	uierrors.WriteJSON(w, http.StatusCreated, roomCreated{
		Room:    room,
		Message: h.Env.Catalog.T(r, i18n.KeyRoomCreated),
	})
}

// ServeList handles GET /api/rooms: rooms where the caller is an active member.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, uid, _, ok := h.admitted(w, r)
	if !ok {
		return
	}
	rooms, err := h.Rooms.ListForUser(r.Context(), uid)
	if err != nil {
		h.fail(w, r, "rooms.list", err)
		return
	}
	if rooms == nil {
		rooms = []models.Room{}
	}
	uierrors.WriteJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

// ServeCount handles GET /api/rooms/count: how many rooms the caller is in.
func (h *Handler) ServeCount(w http.ResponseWriter, r *http.Request) {
	_, uid, _, ok := h.admitted(w, r)
	if !ok {
		return
	}
	n, err := h.Rooms.CountForUser(r.Context(), uid)
	if err != nil {
		h.fail(w, r, "rooms.count", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, map[string]int64{"total": n})
}

// ServePending handles GET /api/rooms/pending.
func (h *Handler) ServePending(w http.ResponseWriter, r *http.Request) {
	_, uid, _, ok := h.admitted(w, r)
	if !ok {
		return
	}
	rooms, err := h.Rooms.PendingRequestRooms(r.Context(), uid)
	if err != nil {
		h.fail(w, r, "rooms.pending", err)
		return
	}
	if rooms == nil {
		rooms = []roomstore.PendingSummary{}
	}
	uierrors.WriteJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

// ServeMembers handles GET /api/rooms/{roomId}/members. It answers from the
// snapshot RequireRoomMembership already loaded.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	c, _, _, ok := h.admitted(w, r)
	if !ok {
		return
	}
	room, err := c.Room(r.Context())
	if err != nil {
		h.fail(w, r, "rooms.members", err)
		return
	}
	if room == nil {
		h.deny(w, r, http.StatusNotFound, i18n.KeyRoomNotFound)
		return
	}

	members := make([]models.Membership, 0, len(room.Members))
	for _, m := range room.Members {
		if m.Active() {
			members = append(members, m)
		}
	}
	uierrors.WriteJSON(w, http.StatusOK, map[string]any{"members": members})
}

// HandleDelete handles DELETE /api/rooms/{roomId} (soft delete).
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, uid, roomID, ok := h.admitted(w, r)
	if !ok {
		return
	}
	if err := h.Rooms.SoftDelete(r.Context(), roomID); err != nil {
		if errors.Is(err, roomstore.ErrNotFound) {
			h.deny(w, r, http.StatusNotFound, i18n.KeyRoomNotFound)
			return
		}
		h.fail(w, r, "rooms.delete", err)
		return
	}
	h.AuditLog.RoomEvent(r.Context(), r, audit.EventRoomDeleted, uid, roomID, nil, nil)
	h.ok(w, r, i18n.KeyRoomDeleted)
}
