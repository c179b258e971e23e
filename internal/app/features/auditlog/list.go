// internal/app/features/auditlog/list.go
package auditlog

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/dalemusser/chathub/internal/app/features/errors"
	"github.com/dalemusser/chathub/internal/app/store/audit"
	"github.com/dalemusser/chathub/internal/app/system/guard"
	"github.com/dalemusser/chathub/internal/app/system/i18n"
	"github.com/dalemusser/chathub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const pageSize = 50

// ServeRoomLog handles GET /api/activity/rooms/{roomId}: the room's audit
// trail, newest first, optionally narrowed to one event_type.
func (h *Handler) ServeRoomLog(w http.ResponseWriter, r *http.Request) {
	c, ok := guard.FromRequest(r)
	if !ok {
		h.fail(w, r, "auditlog.context", errors.New("no guard context"))
		return
	}
	roomID, err := primitive.ObjectIDFromHex(c.RoomID)
	if err != nil {
		uierrors.WriteError(w, http.StatusNotFound, i18n.KeyRoomNotFound, h.Env.Catalog.T(r, i18n.KeyRoomNotFound))
		return
	}

	eventType := strings.TrimSpace(r.URL.Query().Get("event_type"))
	if eventType != "" && !roomEvents[eventType] {
		uierrors.WriteError(w, http.StatusBadRequest, i18n.KeyBadRequest, h.Env.Catalog.T(r, i18n.KeyBadRequest))
		return
	}
	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	filter := audit.QueryFilter{
		RoomID:    &roomID,
		Category:  audit.CategoryRoom,
		EventType: eventType,
		Limit:     pageSize,
		Offset:    int64((page - 1) * pageSize),
	}

	ctx, cancel := timeouts.WithStore(r.Context())
	defer cancel()

	events, err := h.Audit.Query(ctx, filter)
	if err != nil {
		h.fail(w, r, "auditlog.query", err)
		return
	}
	total, err := h.Audit.CountByFilter(ctx, filter)
	if err != nil {
		h.fail(w, r, "auditlog.count", err)
		return
	}

	names := h.resolveNames(r, events)

	items := make([]listItem, 0, len(events))
	for _, e := range events {
		item := listItem{
			ID:        e.ID.Hex(),
			Timestamp: e.Timestamp,
			EventType: e.EventType,
			Details:   e.Details,
		}
		if e.ActorID != nil {
			item.ActorID = e.ActorID.Hex()
			item.ActorName = names[*e.ActorID]
		}
		if e.UserID != nil {
			item.TargetID = e.UserID.Hex()
			item.TargetName = names[*e.UserID]
		}
		items = append(items, item)
	}

	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}

	uierrors.WriteJSON(w, http.StatusOK, listResponse{
		Events:     items,
		EventType:  eventType,
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	})
}

// resolveNames maps the actor and target ids of events to display names.
// A lookup failure only costs the names.
func (h *Handler) resolveNames(r *http.Request, events []audit.Event) map[primitive.ObjectID]string {
	seen := make(map[primitive.ObjectID]struct{})
	for _, e := range events {
		if e.ActorID != nil {
			seen[*e.ActorID] = struct{}{}
		}
		if e.UserID != nil {
			seen[*e.UserID] = struct{}{}
		}
	}
	names := make(map[primitive.ObjectID]string, len(seen))
	if len(seen) == 0 {
		return names
	}

	ids := make([]primitive.ObjectID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	users, err := h.Users.GetByIDs(r.Context(), ids)
	if err != nil {
		h.Log.Warn("failed to fetch user names for audit log", zap.Error(err))
		return names
	}
	for _, u := range users {
		names[u.ID] = u.FullName
	}
	return names
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, where string, err error) {
	h.Env.ErrLog.Fail(w, r, where, err, i18n.KeyCommonError, h.Env.Catalog.T(r, i18n.KeyCommonError))
}
