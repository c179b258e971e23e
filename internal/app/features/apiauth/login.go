// internal/app/features/apiauth/login.go
package apiauth

import (
	"encoding/json"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/chathub/internal/app/features/errors"
	userstore "github.com/dalemusser/chathub/internal/app/store/users"
	"github.com/dalemusser/chathub/internal/app/system/guard"
	"github.com/dalemusser/chathub/internal/app/system/i18n"
	"github.com/dalemusser/chathub/internal/app/system/normalize"
	"github.com/dalemusser/chathub/internal/domain/models"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body of a successful POST /api/login.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"` // seconds
}

// HandleLogin handles POST /api/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<14)).Decode(&in); err != nil {
		uierrors.WriteError(w, http.StatusBadRequest, i18n.KeyBadRequest, h.Catalog.T(r, i18n.KeyBadRequest))
		return
	}
	email := normalize.Email(in.Email)
	if email == "" || in.Password == "" {
		uierrors.WriteError(w, http.StatusBadRequest, i18n.KeyBadRequest, h.Catalog.T(r, i18n.KeyBadRequest))
		return
	}

	ctx := r.Context()

	if h.Limiter != nil && !h.Limiter.Allow(r, email) {
		h.AuditLog.LoginFailedRateLimit(ctx, r, email)
		uierrors.WriteError(w, http.StatusTooManyRequests, i18n.KeyRateLimited, h.Catalog.T(r, i18n.KeyRateLimited))
		return
	}

	u, err := h.Users.Authenticate(ctx, email, in.Password)
	switch {
	case err == nil:
	case errors.Is(err, userstore.ErrBadCredentials):
		if u == nil {
			h.AuditLog.LoginFailedUserNotFound(ctx, r, email)
		} else {
			h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, email)
		}
		h.denyLogin(w, r)
		return
	case errors.Is(err, userstore.ErrDisabled):
		h.AuditLog.LoginFailedUserDisabled(ctx, r, u.ID, email)
		h.denyLogin(w, r)
		return
	default:
		h.ErrLog.Fail(w, r, "apiauth.login", err, i18n.KeyCommonError, h.Catalog.T(r, i18n.KeyCommonError))
		return
	}

	tok, err := h.Tokens.Issue(models.IdentityOf(*u))
	if err != nil {
		h.ErrLog.Fail(w, r, "apiauth.issue", err, i18n.KeyCommonError, h.Catalog.T(r, i18n.KeyCommonError))
		return
	}
	if h.Limiter != nil {
		h.Limiter.ResetEmail(email)
	}
	h.AuditLog.LoginSuccess(ctx, r, u.ID, email, "api")
	h.Log.Debug("token issued", zap.String("user_id", u.ID.Hex()))

	uierrors.WriteJSON(w, http.StatusOK, LoginResponse{
		Token:     tok,
		ExpiresIn: int64(h.Tokens.TTL().Seconds()),
	})
}

// Unknown email, wrong password and disabled account all look the same to
// the client.
func (h *Handler) denyLogin(w http.ResponseWriter, r *http.Request) {
	uierrors.WriteError(w, http.StatusUnauthorized, i18n.KeyLoginFailed, h.Catalog.T(r, i18n.KeyLoginFailed))
}

// ServeMe handles GET /api/me. RequireAPIToken has already run.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	c, ok := guard.FromRequest(r)
	if !ok {
		uierrors.WriteError(w, http.StatusUnauthorized, i18n.KeyErrorToken, h.Catalog.T(r, i18n.KeyErrorToken))
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, c.Identity)
}
