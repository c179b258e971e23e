// internal/app/features/language/handler.go
package language

import (
	"net/http"
	"time"

	uierrors "github.com/dalemusser/chathub/internal/app/features/errors"
	"github.com/dalemusser/chathub/internal/app/system/i18n"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CookieMaxAge is how long a language choice is remembered.
const CookieMaxAge = 15 * time.Minute

type Handler struct {
	Catalog *i18n.Catalog
	Secure  bool
	Log     *zap.Logger
}

func NewHandler(catalog *i18n.Catalog, secure bool, logger *zap.Logger) *Handler {
	return &Handler{Catalog: catalog, Secure: secure, Log: logger}
}

type changedResponse struct {
	Msg string `json:"msg"`
}

// ServeChange handles GET /api/language/{lang}.
func (h *Handler) ServeChange(w http.ResponseWriter, r *http.Request) {
	tag, ok := h.Catalog.Supported(chi.URLParam(r, "lang"))
	if !ok {
		uierrors.WriteError(w, http.StatusBadRequest, i18n.KeyBadRequest, h.Catalog.T(r, i18n.KeyBadRequest))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     i18n.CookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int(CookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	h.Log.Debug("language changed", zap.String("lang", tag.String()))

	// Answer in the language just chosen, not the one the request came with.
	uierrors.WriteJSON(w, http.StatusOK, changedResponse{
		Msg: h.Catalog.Text(tag, i18n.KeyChangedLang, tag.String()),
	})
}
