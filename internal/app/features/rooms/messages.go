// internal/app/features/rooms/messages.go
package rooms

import (
	"encoding/json"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/chathub/internal/app/features/errors"
	roomstore "github.com/dalemusser/chathub/internal/app/store/rooms"
	"github.com/dalemusser/chathub/internal/app/store/audit"
	"github.com/dalemusser/chathub/internal/app/system/i18n"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type postRequest struct {
	Content string `json:"content"`
}

// HandlePost handles POST /api/rooms/{roomId}/messages. The route admits any
// active member; READ_ONLY members are turned away here.
func (h *Handler) HandlePost(w http.ResponseWriter, r *http.Request) {
	c, uid, roomID, ok := h.admitted(w, r)
	if !ok {
		return
	}
	if c.Membership == nil || !c.Membership.Role.CanPost() {
		h.deny(w, r, http.StatusForbidden, i18n.KeyReadOnly)
		return
	}

	var in postRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&in); err != nil {
		h.deny(w, r, http.StatusBadRequest, i18n.KeyBadRequest)
		return
	}

	msg, err := h.Rooms.PostMessage(r.Context(), roomID, uid, in.Content)
	switch {
	case err == nil:
	case errors.Is(err, roomstore.ErrContentRequired):
		h.deny(w, r, http.StatusBadRequest, i18n.KeyBadRequest)
		return
	case errors.Is(err, roomstore.ErrNotMember):
		// Role changed or membership removed after the guard ran.
		h.deny(w, r, http.StatusForbidden, i18n.KeyReadOnly)
		return
	default:
		h.fail(w, r, "rooms.post_message", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusCreated, msg)
}

// HandleDeleteMessage handles DELETE /api/rooms/{roomId}/messages/{messageId}
// for the message author.
func (h *Handler) HandleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	h.deleteMessage(w, r, audit.EventMessageDeleted)
}

// HandleModerate handles DELETE /api/rooms/{roomId}/messages/{messageId}/moderate
// for the author or the room owner.
func (h *Handler) HandleModerate(w http.ResponseWriter, r *http.Request) {
	h.deleteMessage(w, r, audit.EventMessageModerated)
}

func (h *Handler) deleteMessage(w http.ResponseWriter, r *http.Request, event string) {
	c, uid, roomID, ok := h.admitted(w, r)
	if !ok {
		return
	}
	msgID, err := primitive.ObjectIDFromHex(c.MessageID)
	if err != nil {
		h.deny(w, r, http.StatusNotFound, i18n.KeyMessageNotFound)
		return
	}

	if err := h.Rooms.DeleteMessage(r.Context(), roomID, msgID); err != nil {
		if errors.Is(err, roomstore.ErrMessageNotFound) {
			h.deny(w, r, http.StatusNotFound, i18n.KeyMessageNotFound)
			return
		}
		h.fail(w, r, "rooms.delete_message", err)
		return
	}

	var author *primitive.ObjectID
	if m, _ := c.Message(r.Context()); m != nil {
		author = &m.UserID
	}
	h.AuditLog.RoomEvent(r.Context(), r, event, uid, roomID, author,
		map[string]string{"message_id": msgID.Hex()})
	h.ok(w, r, i18n.KeyMessageDeleted)
}
