// internal/app/features/login/handler.go
package login

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/chathub/internal/app/features/errors"
	userstore "github.com/dalemusser/chathub/internal/app/store/users"
	"github.com/dalemusser/chathub/internal/app/system/auditlog"
	"github.com/dalemusser/chathub/internal/app/system/auth"
	"github.com/dalemusser/chathub/internal/app/system/i18n"
	"github.com/dalemusser/chathub/internal/app/system/normalize"
	"github.com/dalemusser/chathub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

// Handler serves the browser sign-in form. The JSON API signs in through
// apiauth instead.
type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.LoginLimiter
	AuditLog   *auditlog.Logger
	Catalog    *i18n.Catalog
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(
	users *userstore.Store,
	sessionMgr *auth.SessionManager,
	limiter *ratelimit.LoginLimiter,
	audit *auditlog.Logger,
	catalog *i18n.Catalog,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Users:      users,
		SessionMgr: sessionMgr,
		Limiter:    limiter,
		AuditLog:   audit,
		Catalog:    catalog,
		ErrLog:     errLog,
		Log:        logger,
	}
}

type loginData struct {
	Email string
	Error string
}

// ServeLogin handles GET /login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/users/"+u.ID, http.StatusSeeOther)
		return
	}
	templates.Render(w, r, "login_page", loginData{})
}

// HandleLoginPost handles POST /login.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		uierrors.WriteError(w, http.StatusBadRequest, i18n.KeyBadRequest, h.Catalog.T(r, i18n.KeyBadRequest))
		return
	}
	email := normalize.Email(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		h.renderFormWithError(w, r, email, i18n.KeyLoginFailed)
		return
	}

	ctx := r.Context()

	if h.Limiter != nil && !h.Limiter.Allow(r, email) {
		h.AuditLog.LoginFailedRateLimit(ctx, r, email)
		w.WriteHeader(http.StatusTooManyRequests)
		h.renderFormWithError(w, r, email, i18n.KeyRateLimited)
		return
	}

	u, err := h.Users.Authenticate(ctx, email, password)
	switch {
	case err == nil:
	case errors.Is(err, userstore.ErrBadCredentials):
		if u == nil {
			h.AuditLog.LoginFailedUserNotFound(ctx, r, email)
		} else {
			h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, email)
		}
		h.renderFormWithError(w, r, email, i18n.KeyLoginFailed)
		return
	case errors.Is(err, userstore.ErrDisabled):
		h.AuditLog.LoginFailedUserDisabled(ctx, r, u.ID, email)
		h.renderFormWithError(w, r, email, i18n.KeyLoginFailed)
		return
	default:
		h.ErrLog.Fail(w, r, "login.authenticate", err, i18n.KeyCommonError, h.Catalog.T(r, i18n.KeyCommonError))
		return
	}

	ret, err := h.SessionMgr.SignIn(w, r, *u)
	if err != nil {
		h.ErrLog.Fail(w, r, "login.session", err, i18n.KeyCommonError, h.Catalog.T(r, i18n.KeyCommonError))
		return
	}
	if h.Limiter != nil {
		h.Limiter.ResetEmail(email)
	}
	h.AuditLog.LoginSuccess(ctx, r, u.ID, email, "session")

	http.Redirect(w, r, urlutil.SafeReturn(ret, "", "/users/"+u.ID.Hex()), http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, email, key string) {
	templates.Render(w, r, "login_page", loginData{Email: email, Error: h.Catalog.T(r, key)})
}
