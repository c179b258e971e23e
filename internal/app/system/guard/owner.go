package guard

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/chathub/internal/app/system/i18n"
)

// ResourceKind names what RequireResourceOwner compares against.
type ResourceKind uint8

const (
	// ResourceProfile is a user profile; the owner is ProfileID itself.
	ResourceProfile ResourceKind = iota + 1
	// ResourceMessage is a room message; its author or the room owner may act.
	ResourceMessage
)

// RouteClass selects how a denial is delivered.
type RouteClass uint8

const (
	// RouteAPI denies with 403 JSON.
	RouteAPI RouteClass = iota + 1
	// RouteWeb denies by redirecting to the resource's public page.
	RouteWeb
)

// RequireResourceOwner passes when the acting user owns the resource.
// For messages either the author or the owner of the containing room
// authorizes; one of the two is enough.
func RequireResourceOwner(kind ResourceKind, class RouteClass) Guard {
	return Guard{Name: "RequireResourceOwner", Check: func(ctx context.Context, c *Context) Decision {
		owner, d := isOwner(ctx, c, kind)
		if !d.Passed() {
			return d
		}
		if owner {
			return Continue()
		}
		if class == RouteWeb {
			return DenyRedirect(fallback(c, kind))
		}
		return Deny(http.StatusForbidden, i18n.KeyForbidden)
	}}
}

func isOwner(ctx context.Context, c *Context, kind ResourceKind) (bool, Decision) {
	uid, ok := c.UserID()
	if !ok {
		return false, Continue()
	}
	switch kind {
	case ResourceProfile:
		return strings.EqualFold(c.ProfileID, uid.Hex()), Continue()
	case ResourceMessage:
		room, err := c.Room(ctx)
		if err != nil {
			return false, Fail(i18n.KeyCommonError, err)
		}
		if room == nil {
			return false, Deny(http.StatusNotFound, i18n.KeyRoomNotFound)
		}
		msg, err := c.Message(ctx)
		if err != nil {
			return false, Fail(i18n.KeyCommonError, err)
		}
		if msg == nil {
			return false, Deny(http.StatusNotFound, i18n.KeyMessageNotFound)
		}
		return msg.UserID == uid || room.OwnerID == uid, Continue()
	}
	return false, Continue()
}

func fallback(c *Context, kind ResourceKind) string {
	switch kind {
	case ResourceProfile:
		return "/users/" + c.ProfileID
	case ResourceMessage:
		return "/rooms/" + c.RoomID
	}
	return "/"
}
