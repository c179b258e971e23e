package guard

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/chathub/internal/app/system/auth"
	"github.com/dalemusser/chathub/internal/app/system/i18n"
	"github.com/dalemusser/chathub/internal/app/system/membership"
	"github.com/dalemusser/chathub/internal/domain/models"
)

// LoginPath is where RequireSession sends anonymous browsers.
const LoginPath = "/login"

// Verifier checks an API token. *token.Service satisfies it.
type Verifier interface {
	Verify(tokenString string) (models.Identity, error)
}

// RequireSession passes when the browser session is authenticated and
// otherwise redirects to the login page. It reads the user that
// auth.SessionManager.LoadSessionUser put on the request.
func RequireSession() Guard {
	return Guard{Name: "RequireSession", Check: func(_ context.Context, c *Context) Decision {
		u, ok := auth.CurrentUser(c.Request)
		if !ok {
			return DenyRedirect(LoginPath)
		}
		c.Identity, c.Authenticated = u.Identity(), true
		return Continue()
	}}
}

// RequireAPIToken verifies the Authorization header. Every failure is the
// same 401 so callers cannot tell a bad signature from an expired token.
func RequireAPIToken(v Verifier) Guard {
	return Guard{Name: "RequireAPIToken", Check: func(_ context.Context, c *Context) Decision {
		raw := bearer(c.Request.Header.Get("Authorization"))
		if raw == "" {
			return Deny(http.StatusUnauthorized, i18n.KeyErrorToken)
		}
		id, err := v.Verify(raw)
		if err != nil {
			return Deny(http.StatusUnauthorized, i18n.KeyErrorToken)
		}
		c.Identity, c.Authenticated = id, true
		return Continue()
	}}
}

// bearer accepts both "Bearer <token>" and a bare token.
func bearer(h string) string {
	h = strings.TrimSpace(h)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return h
}

// RequireRoomMembership passes when the user has an active membership of
// any role in a non-deleted room, and records it on the context.
func RequireRoomMembership() Guard {
	return roleGuard("RequireRoomMembership", membership.Roles(models.AllMemberRoles...), i18n.KeyNotInRoom)
}

// RequireRoomAdmin passes only for an active ADMIN membership of this room.
func RequireRoomAdmin() Guard {
	return roleGuard("RequireRoomAdmin", membership.Roles(models.RoleAdmin), i18n.KeyNotAdmin)
}

// RequireNonReadOnlyMembership passes for ADMIN and MEMBER memberships.
func RequireNonReadOnlyMembership() Guard {
	return roleGuard("RequireNonReadOnlyMembership", membership.Writers(), i18n.KeyForbidden)
}

func roleGuard(name string, roles membership.RoleSet, reason string) Guard {
	return Guard{Name: name, Check: func(ctx context.Context, c *Context) Decision {
		uid, ok := c.UserID()
		if !ok {
			return Deny(http.StatusForbidden, reason)
		}
		room, err := c.Room(ctx)
		if err != nil {
			return Fail(i18n.KeyCommonError, err)
		}
		m := membership.ActiveMembershipWithRole(room, uid, roles)
		if m == nil {
			return Deny(http.StatusForbidden, reason)
		}
		c.Membership = m
		return Continue()
	}}
}

// RequireMessageOwnership passes when the message exists, is not deleted and
// was written by the acting user. Admin role does not substitute for
// authorship here.
func RequireMessageOwnership() Guard {
	return Guard{Name: "RequireMessageOwnership", Check: func(ctx context.Context, c *Context) Decision {
		uid, ok := c.UserID()
		if !ok {
			return Deny(http.StatusForbidden, i18n.KeyForbidden)
		}
		msg, err := c.Message(ctx)
		if err != nil {
			return Fail(i18n.KeyCommonError, err)
		}
		if msg == nil || msg.UserID != uid {
			return Deny(http.StatusForbidden, i18n.KeyForbidden)
		}
		return Continue()
	}}
}

// MessageDeletion is the chain for deleting one's own message.
func MessageDeletion() Pipeline {
	return Pipeline{RequireNonReadOnlyMembership(), RequireMessageOwnership()}
}

// DenySelfTarget blocks an action aimed at the acting user's own member id.
func DenySelfTarget() Guard {
	return Guard{Name: "DenySelfTarget", Check: func(_ context.Context, c *Context) Decision {
		if strings.EqualFold(c.MemberID, c.Identity.ID) {
			return Deny(http.StatusForbidden, i18n.KeyNotAdmin)
		}
		return Continue()
	}}
}
