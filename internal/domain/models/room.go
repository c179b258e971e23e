// internal/domain/models/room.go
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberRole is a user's role inside one room.
// There is no hierarchy between roles: ADMIN does not satisfy a MEMBER check.
type MemberRole string

const (
	RoleAdmin    MemberRole = "ADMIN"
	RoleMember   MemberRole = "MEMBER"
	RoleReadOnly MemberRole = "READ_ONLY"
)

// ErrUnknownRole is returned when a role outside AllMemberRoles is used.
var ErrUnknownRole = errors.New("unknown member role")

// AllMemberRoles lists every valid role.
var AllMemberRoles = []MemberRole{RoleAdmin, RoleMember, RoleReadOnly}

// Valid reports whether r is one of the known roles.
func (r MemberRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleReadOnly:
		return true
	}
	return false
}

// CanPost reports whether the role may write messages.
func (r MemberRole) CanPost() bool {
	switch r {
	case RoleAdmin, RoleMember:
		return true
	case RoleReadOnly:
		return false
	}
	return false
}

// ParseMemberRole accepts the canonical form case-insensitively.
func ParseMemberRole(s string) (MemberRole, error) {
	r := MemberRole(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w %q", ErrUnknownRole, s)
	}
	return r, nil
}

// InvitationStatus is the terminal outcome of resolving an invitation code
// for a user who cannot simply submit a new join request.
type InvitationStatus int

const (
	InvitationInRoom InvitationStatus = iota + 1
	InvitationHaveRequestBefore
)

// String returns the wire value.
func (s InvitationStatus) String() string {
	switch s {
	case InvitationInRoom:
		return "IN_ROOM"
	case InvitationHaveRequestBefore:
		return "HAVE_REQUEST_BEFORE"
	}
	return fmt.Sprintf("InvitationStatus(%d)", int(s))
}

// MarshalText makes the status serialize as its wire value.
func (s InvitationStatus) MarshalText() ([]byte, error) {
	switch s {
	case InvitationInRoom, InvitationHaveRequestBefore:
		return []byte(s.String()), nil
	}
	return nil, fmt.Errorf("invalid invitation status %d", int(s))
}

// Membership is embedded in Room. At most one non-deleted membership
// exists per (room, user); deleted ones are kept as history.
type Membership struct {
	UserID    primitive.ObjectID `bson:"user" json:"user_id"`
	Role      MemberRole         `bson:"role" json:"role"`
	JoinedAt  time.Time          `bson:"joined_at" json:"joined_at"`
	DeletedAt *time.Time         `bson:"deletedAt" json:"deleted_at,omitempty"`
}

// Active reports whether the membership has not been soft-deleted.
func (m Membership) Active() bool { return m.DeletedAt == nil }

// Message is embedded in Room; ownership is by UserID.
type Message struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    primitive.ObjectID `bson:"user" json:"user_id"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	DeletedAt *time.Time         `bson:"deletedAt" json:"deleted_at,omitempty"`
}

// Room is a chat room. Rooms are soft-deleted via DeletedAt.
//
// OwnerID is the creator and acts as the thread owner for moderation:
// the owner may remove any message in the room through the moderation route.
type Room struct {
	ID               primitive.ObjectID   `bson:"_id" json:"id"`
	Name             string               `bson:"name" json:"name"`
	NameCI           string               `bson:"name_ci" json:"-"`
	OwnerID          primitive.ObjectID   `bson:"owner" json:"owner_id"`
	InvitationCode   string               `bson:"invitation_code" json:"invitation_code,omitempty"`
	Members          []Membership         `bson:"members" json:"members,omitempty"`
	Messages         []Message            `bson:"messages" json:"messages,omitempty"`
	IncomingRequests []primitive.ObjectID `bson:"incoming_requests" json:"incoming_requests,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deletedAt" json:"deleted_at,omitempty"`
}

// Active reports whether the room has not been soft-deleted.
func (r Room) Active() bool { return r.DeletedAt == nil }
