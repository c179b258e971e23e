// internal/app/features/apiauth/account.go
package apiauth

import (
	"encoding/json"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/chathub/internal/app/features/errors"
	userstore "github.com/dalemusser/chathub/internal/app/store/users"
	"github.com/dalemusser/chathub/internal/app/system/guard"
	"github.com/dalemusser/chathub/internal/app/system/i18n"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type updateUserRequest struct {
	FullName string `json:"full_name"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) reply(w http.ResponseWriter, r *http.Request, status int, key string) {
	if status >= 400 {
		uierrors.WriteError(w, status, key, h.Catalog.T(r, key))
		return
	}
	uierrors.WriteJSON(w, status, messageResponse{Message: h.Catalog.T(r, key)})
}

// caller returns the token subject's id. A token whose subject is malformed
// is treated like a bad token.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	c, ok := guard.FromRequest(r)
	if !ok {
		h.reply(w, r, http.StatusUnauthorized, i18n.KeyErrorToken)
		return primitive.NilObjectID, false
	}
	uid, ok := c.UserID()
	if !ok {
		h.reply(w, r, http.StatusUnauthorized, i18n.KeyErrorToken)
		return primitive.NilObjectID, false
	}
	return uid, true
}

// ServeAccount handles GET /api/users: the caller's stored profile.
func (h *Handler) ServeAccount(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.caller(w, r)
	if !ok {
		return
	}
	u, err := h.Users.GetByID(r.Context(), uid)
	if errors.Is(err, mongo.ErrNoDocuments) || (err == nil && u.Status == userstore.StatusDisabled) {
		h.reply(w, r, http.StatusNotFound, i18n.KeyNotFound)
		return
	}
	if err != nil {
		h.ErrLog.Fail(w, r, "apiauth.account", err, i18n.KeyCommonError, h.Catalog.T(r, i18n.KeyCommonError))
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, u)
}

// HandleUpdateUser handles POST /api/update/user. Only the display name can
// change; tokens already issued keep the old name until they expire.
func (h *Handler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.caller(w, r)
	if !ok {
		return
	}
	var in updateUserRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<14)).Decode(&in); err != nil {
		h.reply(w, r, http.StatusBadRequest, i18n.KeyBadRequest)
		return
	}

	err := h.Users.UpdateName(r.Context(), uid, in.FullName)
	switch {
	case err == nil:
	case errors.Is(err, userstore.ErrNameRequired):
		h.reply(w, r, http.StatusBadRequest, i18n.KeyBadRequest)
		return
	case errors.Is(err, mongo.ErrNoDocuments):
		h.reply(w, r, http.StatusNotFound, i18n.KeyNotFound)
		return
	default:
		h.ErrLog.Fail(w, r, "apiauth.update_user", err, i18n.KeyCommonError, h.Catalog.T(r, i18n.KeyCommonError))
		return
	}
	h.reply(w, r, http.StatusOK, i18n.KeyProfileUpdated)
}

// HandleChangePassword handles POST /api/change_password.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.caller(w, r)
	if !ok {
		return
	}
	var in changePasswordRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<14)).Decode(&in); err != nil || in.CurrentPassword == "" {
		h.reply(w, r, http.StatusBadRequest, i18n.KeyBadRequest)
		return
	}

	ctx := r.Context()
	err := h.Users.ChangePassword(ctx, uid, in.CurrentPassword, in.NewPassword)
	switch {
	case err == nil:
	case errors.Is(err, userstore.ErrWeakPassword):
		h.reply(w, r, http.StatusBadRequest, i18n.KeyWeakPassword)
		return
	case errors.Is(err, userstore.ErrWrongPassword):
		h.AuditLog.PasswordChangeFailed(ctx, r, uid)
		h.reply(w, r, http.StatusBadRequest, i18n.KeyWrongPassword)
		return
	case errors.Is(err, mongo.ErrNoDocuments):
		h.reply(w, r, http.StatusNotFound, i18n.KeyNotFound)
		return
	default:
		h.ErrLog.Fail(w, r, "apiauth.change_password", err, i18n.KeyCommonError, h.Catalog.T(r, i18n.KeyCommonError))
		return
	}
	h.AuditLog.PasswordChanged(ctx, r, uid)
	h.Log.Info("password changed", zap.String("user_id", uid.Hex()))
	h.reply(w, r, http.StatusOK, i18n.KeyPasswordChanged)
}

