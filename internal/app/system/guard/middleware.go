package guard

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/chathub/internal/app/features/errors"
	"github.com/dalemusser/chathub/internal/app/system/i18n"
	"github.com/dalemusser/chathub/internal/app/system/membership"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Request parameter names read into Context.
const (
	ParamRoomID         = "roomId"
	ParamMemberID       = "memberId"
	ParamMessageID      = "messageId"
	ParamInvitationCode = "invitationCode"
	ParamProfileID      = "userID"
)

type ctxKey struct{}

// FromRequest returns the Context of the pipeline that admitted r.
func FromRequest(r *http.Request) (*Context, bool) {
	c, ok := r.Context().Value(ctxKey{}).(*Context)
	return c, ok && c != nil
}

// Env holds what every pipeline needs to turn decisions into responses.
type Env struct {
	Members *membership.Query
	Catalog *i18n.Catalog
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

// NewContext builds the guard Context for r. Parameters come from the chi
// route only; the query string never names a resource.
func (e *Env) NewContext(r *http.Request) *Context {
	c := NewContext(r, e.Members)
	c.RoomID = param(r, ParamRoomID)
	c.MemberID = param(r, ParamMemberID)
	c.MessageID = param(r, ParamMessageID)
	c.InvitationCode = param(r, ParamInvitationCode)
	c.ProfileID = param(r, ParamProfileID)
	if e.Catalog != nil {
		lang := e.Catalog.Resolve(r)
		c.translate = func(key string, args ...any) string {
			return e.Catalog.Text(lang, key, args...)
		}
	}
	return c
}

func param(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// Chain returns middleware running guards in order. On Continue the handler
// runs with the Context available through FromRequest; otherwise the
// decision is written and the handler is skipped.
func (e *Env) Chain(guards ...Guard) func(http.Handler) http.Handler {
	p := Pipeline(guards)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := e.NewContext(r)
			d, name := p.Run(r.Context(), c)
			if d.Passed() {
				r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, c))
				c.Request = r
				next.ServeHTTP(w, r)
				return
			}
			e.Write(w, r, c, d, name)
		})
	}
}

// Write sends a terminal decision to the client.
func (e *Env) Write(w http.ResponseWriter, r *http.Request, c *Context, d Decision, guardName string) {
	switch d.Kind {
	case KindDeny:
		e.Log.Debug("request denied",
			zap.String("guard", guardName),
			zap.String("reason", d.Reason),
			zap.Int("status", d.Status),
			zap.String("user_id", c.Identity.ID),
			zap.String("path", r.URL.Path))
		if d.Redirect != "" {
			http.Redirect(w, r, d.Redirect, d.Status)
			return
		}
		uierrors.WriteError(w, d.Status, d.Reason, c.T(d.Reason))
	case KindFail:
		e.ErrLog.Fail(w, r, guardName, d.Err, d.Reason, c.T(d.Reason))
	case KindRespond:
		uierrors.WriteJSON(w, d.Status, d.Body)
	}
}
