// internal/app/features/contacts/contacts.go
package contacts

import (
	"context"
	"errors"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/chathub/internal/app/features/errors"
	contactstore "github.com/dalemusser/chathub/internal/app/store/contacts"
	userstore "github.com/dalemusser/chathub/internal/app/store/users"
	"github.com/dalemusser/chathub/internal/app/system/i18n"
	"github.com/dalemusser/chathub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// contactItem is one row of a contact or request list, seen from the caller.
type contactItem struct {
	UserID   string    `json:"user_id"`
	FullName string    `json:"full_name"`
	Status   string    `json:"status"`
	Since    time.Time `json:"since"`
}

type listResponse struct {
	Contacts []contactItem `json:"contacts"`
}

type countResponse struct {
	Total int64 `json:"total"`
}

// items resolves the other side of each contact to a display name.
// Users that no longer exist are listed without a name.
func (h *Handler) items(ctx context.Context, uid primitive.ObjectID, list []models.Contact) ([]contactItem, error) {
	ids := make([]primitive.ObjectID, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.Other(uid))
	}
	users, err := h.Users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[primitive.ObjectID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.FullName
	}

	out := make([]contactItem, 0, len(list))
	for _, c := range list {
		other := c.Other(uid)
		since := c.CreatedAt
		if c.Status == models.ContactAccepted {
			since = c.UpdatedAt
		}
		out = append(out, contactItem{
			UserID:   other.Hex(),
			FullName: names[other],
			Status:   c.Status,
			Since:    since,
		})
	}
	return out, nil
}

func (h *Handler) serveList(w http.ResponseWriter, r *http.Request, where string, load func(context.Context, primitive.ObjectID) ([]models.Contact, error)) {
	_, uid, ok := h.caller(w, r)
	if !ok {
		return
	}
	list, err := load(r.Context(), uid)
	if err != nil {
		h.fail(w, r, where, err)
		return
	}
	items, err := h.items(r.Context(), uid, list)
	if err != nil {
		h.fail(w, r, where, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, listResponse{Contacts: items})
}

func (h *Handler) serveCount(w http.ResponseWriter, r *http.Request, where string, count func(context.Context, primitive.ObjectID) (int64, error)) {
	_, uid, ok := h.caller(w, r)
	if !ok {
		return
	}
	n, err := count(r.Context(), uid)
	if err != nil {
		h.fail(w, r, where, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, countResponse{Total: n})
}

// ServeList handles GET /api/contacts.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, "contacts.list", h.Contacts.List)
}

// ServeCount handles GET /api/contacts/count.
func (h *Handler) ServeCount(w http.ResponseWriter, r *http.Request) {
	h.serveCount(w, r, "contacts.count", h.Contacts.Count)
}

// ServeRequests handles GET /api/contacts/requests: requests waiting on the caller.
func (h *Handler) ServeRequests(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, "contacts.requests", h.Contacts.Incoming)
}

// ServeRequestCount handles GET /api/contacts/requests/count.
func (h *Handler) ServeRequestCount(w http.ResponseWriter, r *http.Request) {
	h.serveCount(w, r, "contacts.requests_count", h.Contacts.CountIncoming)
}

// HandleRequest handles POST /api/contacts/{userID}. The target must be an
// active account.
func (h *Handler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	uid, other, ok := h.other(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	u, err := h.Users.GetByID(ctx, other)
	if errors.Is(err, mongo.ErrNoDocuments) || (err == nil && u.Status == userstore.StatusDisabled) {
		h.deny(w, r, http.StatusNotFound, i18n.KeyNotFound)
		return
	}
	if err != nil {
		h.fail(w, r, "contacts.request", err)
		return
	}

	c, err := h.Contacts.Request(ctx, uid, other)
	switch {
	case err == nil:
	case errors.Is(err, contactstore.ErrSelf):
		h.deny(w, r, http.StatusBadRequest, i18n.KeyBadRequest)
		return
	case errors.Is(err, contactstore.ErrAlreadyContacts):
		h.deny(w, r, http.StatusConflict, i18n.KeyContactExists)
		return
	case errors.Is(err, contactstore.ErrAlreadyRequested):
		h.deny(w, r, http.StatusConflict, i18n.KeyContactPending)
		return
	default:
		h.fail(w, r, "contacts.request", err)
		return
	}

	h.Log.Debug("contact request", zap.String("from", uid.Hex()), zap.String("to", other.Hex()), zap.String("status", c.Status))
	if c.Status == models.ContactAccepted {
		h.ok(w, r, i18n.KeyContactAccepted)
		return
	}
	h.ok(w, r, i18n.KeyContactSent)
}

// settle runs one accept, reject or delete and maps ErrNotFound to 404.
func (h *Handler) settle(w http.ResponseWriter, r *http.Request, where, key string, act func(context.Context, primitive.ObjectID, primitive.ObjectID) error) {
	uid, other, ok := h.other(w, r)
	if !ok {
		return
	}
	if err := act(r.Context(), uid, other); err != nil {
		if errors.Is(err, contactstore.ErrNotFound) {
			h.deny(w, r, http.StatusNotFound, i18n.KeyContactMissing)
			return
		}
		h.fail(w, r, where, err)
		return
	}
	h.ok(w, r, key)
}

// HandleAccept handles POST /api/contacts/{userID}/accept.
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	h.settle(w, r, "contacts.accept", i18n.KeyContactAccepted, h.Contacts.Accept)
}

// HandleReject handles POST /api/contacts/{userID}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.settle(w, r, "contacts.reject", i18n.KeyContactRejected, h.Contacts.Reject)
}

// HandleDelete handles DELETE /api/contacts/{userID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	h.settle(w, r, "contacts.delete", i18n.KeyContactRemoved, h.Contacts.Delete)
}
