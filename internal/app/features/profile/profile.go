// internal/app/features/profile/profile.go
package profile

import (
	"errors"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/chathub/internal/app/features/errors"
	userstore "github.com/dalemusser/chathub/internal/app/store/users"
	"github.com/dalemusser/chathub/internal/app/system/guard"
	"github.com/dalemusser/chathub/internal/app/system/i18n"
	"github.com/dalemusser/chathub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// profileData is the view model for both profile pages.
type profileData struct {
	ID        string
	FullName  string
	Email     string // edit page only
	CreatedAt time.Time
	IsOwner   bool
	Error     string
}

// loadProfile fetches the user named by the route. It writes the response
// and returns nil when there is nothing to show.
func (h *Handler) loadProfile(w http.ResponseWriter, r *http.Request) (*guard.Context, *models.User) {
	c, ok := guard.FromRequest(r)
	if !ok {
		h.ErrLog.Fail(w, r, "profile.context", errors.New("no guard context"), i18n.KeyCommonError, h.Catalog.T(r, i18n.KeyCommonError))
		return nil, nil
	}
	oid, err := primitive.ObjectIDFromHex(c.ProfileID)
	if err != nil {
		uierrors.WriteError(w, http.StatusNotFound, i18n.KeyNotFound, h.Catalog.T(r, i18n.KeyNotFound))
		return nil, nil
	}
	u, err := h.Users.GetByID(r.Context(), oid)
	if errors.Is(err, mongo.ErrNoDocuments) || (err == nil && u.Status == userstore.StatusDisabled) {
		uierrors.WriteError(w, http.StatusNotFound, i18n.KeyNotFound, h.Catalog.T(r, i18n.KeyNotFound))
		return nil, nil
	}
	if err != nil {
		h.ErrLog.Fail(w, r, "profile.load", err, i18n.KeyCommonError, h.Catalog.T(r, i18n.KeyCommonError))
		return nil, nil
	}
	return c, u
}

// ServeProfile handles GET /users/{userID}: the public profile, visible to
// any signed-in user.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	c, u := h.loadProfile(w, r)
	if u == nil {
		return
	}
	templates.Render(w, r, "profile_view", profileData{
		ID:        u.ID.Hex(),
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt,
		IsOwner:   c.Identity.ID == u.ID.Hex(),
	})
}

// ServeEdit handles GET /users/{userID}/edit. The owner guard has run.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	_, u := h.loadProfile(w, r)
	if u == nil {
		return
	}
	templates.Render(w, r, "profile_edit", profileData{
		ID:       u.ID.Hex(),
		FullName: u.FullName,
		Email:    u.Email,
		IsOwner:  true,
	})
}

// HandleEdit handles POST /users/{userID}/edit.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	_, u := h.loadProfile(w, r)
	if u == nil {
		return
	}
	if err := r.ParseForm(); err != nil {
		uierrors.WriteError(w, http.StatusBadRequest, i18n.KeyBadRequest, h.Catalog.T(r, i18n.KeyBadRequest))
		return
	}

	name := r.FormValue("full_name")
	err := h.Users.UpdateName(r.Context(), u.ID, name)
	if errors.Is(err, userstore.ErrNameRequired) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		templates.Render(w, r, "profile_edit", profileData{
			ID:      u.ID.Hex(),
			Email:   u.Email,
			IsOwner: true,
			Error:   h.Catalog.T(r, i18n.KeyBadRequest),
		})
		return
	}
	if err != nil {
		h.ErrLog.Fail(w, r, "profile.update", err, i18n.KeyCommonError, h.Catalog.T(r, i18n.KeyCommonError))
		return
	}
	http.Redirect(w, r, "/users/"+u.ID.Hex(), http.StatusSeeOther)
}
