// Package membership answers "is user U an active member (or admin) of room R?".
//
// Rules:
//   - A room counts only while its deletedAt is unset.
//   - A membership counts only while its deletedAt is unset.
//   - Role matching is exact. ADMIN does not satisfy a MEMBER check; callers
//     that accept several roles pass an explicit RoleSet.
//
// The Query reads rooms through RoomSource, so it can be backed by the Mongo
// room store in production and by an in-memory fake in tests.
package membership

import (
	"context"

	"github.com/dalemusser/chathub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoomLookup selects one room. Exactly one of RoomID or InvitationCode is set.
// When MessageID is set the returned room also carries that message (if any);
// otherwise messages are not loaded.
type RoomLookup struct {
	RoomID         primitive.ObjectID
	InvitationCode string
	MessageID      primitive.ObjectID
}

// RoomSource is the read contract the query needs from the room store.
// FindRoom returns (nil, nil) when no non-deleted room matches. The returned
// document is a single atomic snapshot of the room.
type RoomSource interface {
	FindRoom(ctx context.Context, lookup RoomLookup) (*models.Room, error)
}

// Query evaluates membership rules against a RoomSource.
type Query struct {
	rooms RoomSource
}

// New returns a Query backed by rooms.
func New(rooms RoomSource) *Query {
	return &Query{rooms: rooms}
}

// Room loads a non-deleted room snapshot by id. It returns (nil, nil) when
// the room does not exist or is soft-deleted.
func (q *Query) Room(ctx context.Context, lookup RoomLookup) (*models.Room, error) {
	room, err := q.rooms.FindRoom(ctx, lookup)
	if err != nil {
		return nil, err
	}
	if room == nil || !room.Active() {
		return nil, nil
	}
	return room, nil
}

// FindActiveMembership returns the user's active membership in the room, or nil.
func (q *Query) FindActiveMembership(ctx context.Context, roomID, userID primitive.ObjectID) (*models.Membership, error) {
	room, err := q.Room(ctx, RoomLookup{RoomID: roomID})
	if err != nil || room == nil {
		return nil, err
	}
	return ActiveMembership(room, userID), nil
}

// FindActiveMembershipWithRole returns the user's active membership only if
// its role is exactly role.
func (q *Query) FindActiveMembershipWithRole(ctx context.Context, roomID, userID primitive.ObjectID, role models.MemberRole) (*models.Membership, error) {
	return q.FindActiveMembershipWithAnyRole(ctx, roomID, userID, Roles(role))
}

// FindActiveMembershipWithAnyRole returns the user's active membership only
// if its role is in roles.
func (q *Query) FindActiveMembershipWithAnyRole(ctx context.Context, roomID, userID primitive.ObjectID, roles RoleSet) (*models.Membership, error) {
	room, err := q.Room(ctx, RoomLookup{RoomID: roomID})
	if err != nil || room == nil {
		return nil, err
	}
	return ActiveMembershipWithRole(room, userID, roles), nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Snapshot helpers                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// ActiveMembership finds the user's active membership in an already-loaded
// room. It returns nil for a nil or soft-deleted room.
func ActiveMembership(room *models.Room, userID primitive.ObjectID) *models.Membership {
	if room == nil || !room.Active() || userID.IsZero() {
		return nil
	}
	for i := range room.Members {
		m := &room.Members[i]
		if m.UserID == userID && m.Active() {
			return m
		}
	}
	return nil
}

// ActiveMembershipWithRole is ActiveMembership restricted to roles.
func ActiveMembershipWithRole(room *models.Room, userID primitive.ObjectID, roles RoleSet) *models.Membership {
	m := ActiveMembership(room, userID)
	if m == nil || !roles.Contains(m.Role) {
		return nil
	}
	return m
}

// HasPendingRequest reports whether userID is waiting in the room's
// incoming requests.
func HasPendingRequest(room *models.Room, userID primitive.ObjectID) bool {
	if room == nil || userID.IsZero() {
		return false
	}
	for _, id := range room.IncomingRequests {
		if id == userID {
			return true
		}
	}
	return false
}

// ActiveMessage returns the non-deleted message with the given id, or nil.
func ActiveMessage(room *models.Room, messageID primitive.ObjectID) *models.Message {
	if room == nil || messageID.IsZero() {
		return nil
	}
	for i := range room.Messages {
		msg := &room.Messages[i]
		if msg.ID == messageID && msg.DeletedAt == nil {
			return msg
		}
	}
	return nil
}
