package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/chathub/internal/app/system/membership"
	"github.com/dalemusser/chathub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FakeRooms is an in-memory membership.RoomSource for guard and query tests.
// It honours the store contract: soft-deleted rooms are not returned unless
// IncludeDeleted is set, and messages are only loaded when asked for.
type FakeRooms struct {
	mu    sync.Mutex
	rooms map[primitive.ObjectID]models.Room

	// Err, when non-nil, is returned from every FindRoom call.
	Err error
	// IncludeDeleted makes FindRoom return soft-deleted rooms too, to check
	// that callers filter them themselves.
	IncludeDeleted bool
	// Calls counts FindRoom invocations.
	Calls int
}

// NewFakeRooms returns a fake seeded with rooms.
func NewFakeRooms(rooms ...models.Room) *FakeRooms {
	f := &FakeRooms{rooms: make(map[primitive.ObjectID]models.Room)}
	for _, r := range rooms {
		f.Put(r)
	}
	return f
}

// Put inserts or replaces a room.
func (f *FakeRooms) Put(room models.Room) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms[room.ID] = room
}

// FindRoom implements membership.RoomSource.
func (f *FakeRooms) FindRoom(_ context.Context, lookup membership.RoomLookup) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}

	for _, r := range f.rooms {
		if !lookup.RoomID.IsZero() && r.ID != lookup.RoomID {
			continue
		}
		if lookup.InvitationCode != "" && r.InvitationCode != lookup.InvitationCode {
			continue
		}
		if r.DeletedAt != nil && !f.IncludeDeleted {
			continue
		}
		return snapshot(r, lookup.MessageID), nil
	}
	return nil, nil
}

// snapshot copies the room so callers cannot mutate the fake's state.
func snapshot(r models.Room, messageID primitive.ObjectID) *models.Room {
	out := r
	out.Members = append([]models.Membership(nil), r.Members...)
	out.IncomingRequests = append([]primitive.ObjectID(nil), r.IncomingRequests...)
	out.Messages = nil
	if !messageID.IsZero() {
		for _, m := range r.Messages {
			if m.ID == messageID {
				out.Messages = []models.Message{m}
				break
			}
		}
	}
	return &out
}

/*─────────────────────────────────────────────────────────────────────────────*
| Room builders                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// NewRoom returns an active room owned by owner, who is its ADMIN.
func NewRoom(owner primitive.ObjectID) models.Room {
	now := time.Now().UTC()
	return models.Room{
		ID:             primitive.NewObjectID(),
		Name:           "Test Room",
		NameCI:         "test room",
		OwnerID:        owner,
		InvitationCode: primitive.NewObjectID().Hex(),
		Members:        []models.Membership{Member(owner, models.RoleAdmin)},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Member returns an active membership.
func Member(userID primitive.ObjectID, role models.MemberRole) models.Membership {
	return models.Membership{UserID: userID, Role: role, JoinedAt: time.Now().UTC()}
}

// DeletedMember returns a soft-deleted membership.
func DeletedMember(userID primitive.ObjectID, role models.MemberRole) models.Membership {
	m := Member(userID, role)
	at := time.Now().UTC()
	m.DeletedAt = &at
	return m
}

// NewMessage returns an active message authored by userID.
func NewMessage(userID primitive.ObjectID, content string) models.Message {
	return models.Message{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// SoftDeleted returns a deletedAt timestamp of now.
func SoftDeleted() *time.Time {
	at := time.Now().UTC()
	return &at
}
