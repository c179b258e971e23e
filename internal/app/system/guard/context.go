package guard

import (
	"context"
	"net/http"

	"github.com/dalemusser/chathub/internal/app/system/membership"
	"github.com/dalemusser/chathub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context is the per-request state guards read and fill in. The transport
// layer sets the request parameters; guards set Identity and Membership.
type Context struct {
	Request *http.Request

	Identity      models.Identity
	Authenticated bool

	RoomID         string
	MemberID       string
	MessageID      string
	InvitationCode string
	ProfileID      string

	Membership *models.Membership

	members    *membership.Query
	translate  func(key string, args ...any) string
	room       *models.Room
	roomLoaded bool
}

// T localizes key for the request's language. Without a catalog the key
// itself is returned.
func (c *Context) T(key string, args ...any) string {
	if c.translate == nil {
		return key
	}
	return c.translate(key, args...)
}

// NewContext returns a Context reading rooms through members.
func NewContext(r *http.Request, members *membership.Query) *Context {
	return &Context{Request: r, members: members}
}

// UserID is the acting user's id. ok is false when no identity is set or
// the id is malformed.
func (c *Context) UserID() (primitive.ObjectID, bool) {
	if !c.Authenticated {
		return primitive.NilObjectID, false
	}
	return c.Identity.ObjectID()
}

// Room returns the room named by RoomID (or InvitationCode when RoomID is
// empty). The room is read once per pipeline run and every later call
// returns the same snapshot. A missing, soft-deleted or malformed room is
// (nil, nil). Store errors are not cached.
func (c *Context) Room(ctx context.Context) (*models.Room, error) {
	if c.roomLoaded {
		return c.room, nil
	}

	var lookup membership.RoomLookup
	switch {
	case c.RoomID != "":
		id, err := primitive.ObjectIDFromHex(c.RoomID)
		if err != nil {
			c.roomLoaded = true
			return nil, nil
		}
		lookup.RoomID = id
	case c.InvitationCode != "":
		lookup.InvitationCode = c.InvitationCode
	default:
		c.roomLoaded = true
		return nil, nil
	}
	if c.MessageID != "" {
		if id, err := primitive.ObjectIDFromHex(c.MessageID); err == nil {
			lookup.MessageID = id
		}
	}

	room, err := c.members.Room(ctx, lookup)
	if err != nil {
		return nil, err
	}
	c.room, c.roomLoaded = room, true
	return room, nil
}

// resolveByCode drops any room id and cached snapshot so the next Room call
// looks the room up by InvitationCode alone.
func (c *Context) resolveByCode() {
	c.RoomID, c.MessageID = "", ""
	c.room, c.roomLoaded = nil, false
}

// Message returns the active message named by MessageID from the room
// snapshot, or nil.
func (c *Context) Message(ctx context.Context) (*models.Message, error) {
	room, err := c.Room(ctx)
	if err != nil || room == nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(c.MessageID)
	if err != nil {
		return nil, nil
	}
	return membership.ActiveMessage(room, id), nil
}
