// internal/app/store/rooms/roomstore.go
package roomstore

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/dalemusser/chathub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/chathub/internal/app/system/membership"
	"github.com/dalemusser/chathub/internal/app/system/normalize"
	"github.com/dalemusser/chathub/internal/app/system/timeouts"
	"github.com/dalemusser/chathub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/gorilla/securecookie"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound means no non-deleted room matched.
	ErrNotFound = errors.New("room not found")
	// ErrAlreadyRelated means the user is already an active member or
	// already has a pending request.
	ErrAlreadyRelated = errors.New("user is already a member or has a pending request")
	// ErrNoRequest means the user has no pending request for the room.
	ErrNoRequest = errors.New("no pending request for user")
	// ErrNotMember means the user has no active membership (with a
	// qualifying role, for writes that require one).
	ErrNotMember = errors.New("user is not an active member")
	// ErrMessageNotFound means no undeleted message matched.
	ErrMessageNotFound = errors.New("message not found")
	// ErrNameRequired means the room name was empty after sanitizing.
	ErrNameRequired = errors.New("room name is required")
	// ErrContentRequired means the message was empty after sanitizing.
	ErrContentRequired = errors.New("message content is required")
)

const codeAttempts = 3

// Store is the Mongo room store. It implements membership.RoomSource.
type Store struct {
	c   *mongo.Collection
	now func() time.Time
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("rooms"), now: func() time.Time { return time.Now().UTC() }}
}

var _ membership.RoomSource = (*Store)(nil)

// activeMember matches an undeleted membership of userID.
func activeMember(userID primitive.ObjectID) bson.M {
	return bson.M{"$elemMatch": bson.M{"user": userID, "deletedAt": nil}}
}

// roomFields is the projection used for snapshots. Messages are only
// projected through $elemMatch when one is asked for.
func roomFields() bson.M {
	return bson.M{
		"_id":               1,
		"name":              1,
		"owner":             1,
		"invitation_code":   1,
		"members":           1,
		"incoming_requests": 1,
		"created_at":        1,
		"updated_at":        1,
		"deletedAt":         1,
	}
}

// FindRoom loads one non-deleted room snapshot in a single read.
// It returns (nil, nil) when nothing matches.
func (s *Store) FindRoom(ctx context.Context, lookup membership.RoomLookup) (*models.Room, error) {
	filter := bson.M{"deletedAt": nil}
	switch {
	case !lookup.RoomID.IsZero():
		filter["_id"] = lookup.RoomID
	case lookup.InvitationCode != "":
		filter["invitation_code"] = normalize.InvitationCode(lookup.InvitationCode)
	default:
		return nil, nil
	}

	proj := roomFields()
	if !lookup.MessageID.IsZero() {
		proj["messages"] = bson.M{"$elemMatch": bson.M{"_id": lookup.MessageID}}
	}

	ctx, cancel := timeouts.WithStore(ctx)
	defer cancel()

	var room models.Room
	err := s.c.FindOne(ctx, filter, options.FindOne().SetProjection(proj)).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// ListForUser returns the rooms where userID holds an active membership,
// most recently updated first.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Room, error) {
	ctx, cancel := timeouts.WithStore(ctx)
	defer cancel()

	opts := options.Find().
		SetProjection(roomFields()).
		SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"deletedAt": nil, "members": activeMember(userID)}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rooms []models.Room
	if err := cur.All(ctx, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// CountForUser counts the rooms ListForUser would return.
func (s *Store) CountForUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	ctx, cancel := timeouts.WithStore(ctx)
	defer cancel()
	return s.c.CountDocuments(ctx, bson.M{"deletedAt": nil, "members": activeMember(userID)})
}

// PendingSummary is one row of PendingRequestRooms.
type PendingSummary struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	OwnerID   primitive.ObjectID `bson:"owner" json:"owner_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// PendingRequestRooms returns the non-deleted rooms whose incoming requests
// contain userID.
func (s *Store) PendingRequestRooms(ctx context.Context, userID primitive.ObjectID) ([]PendingSummary, error) {
	ctx, cancel := timeouts.WithStore(ctx)
	defer cancel()

	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"deletedAt": nil, "incoming_requests": userID}}},
		bson.D{{Key: "$project", Value: bson.M{"name": 1, "owner": 1, "created_at": 1}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}
	cur, err := s.c.Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []PendingSummary
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a room owned by ownerID, who becomes its first ADMIN.
// The invitation code is random; a colliding code is regenerated.
func (s *Store) Create(ctx context.Context, name string, ownerID primitive.ObjectID) (models.Room, error) {
	name = normalize.Name(htmlsanitize.PlainText(name))
	if name == "" {
		return models.Room{}, ErrNameRequired
	}

	now := s.now()
	room := models.Room{
		Name:      name,
		NameCI:    text.Fold(name),
		OwnerID:   ownerID,
		Members:   []models.Membership{{UserID: ownerID, Role: models.RoleAdmin, JoinedAt: now}},
		Messages:  []models.Message{},
		CreatedAt: now,
		UpdatedAt: now,

		IncomingRequests: []primitive.ObjectID{},
	}

	ctx, cancel := timeouts.WithStore(ctx)
	defer cancel()

	var err error
	for i := 0; i < codeAttempts; i++ {
		room.ID = primitive.NewObjectID()
		room.InvitationCode = NewInvitationCode()
		if _, err = s.c.InsertOne(ctx, room); err == nil {
			return room, nil
		}
		if !wafflemongo.IsDup(err) {
			return models.Room{}, err
		}
	}
	return models.Room{}, err
}

// NewInvitationCode returns a URL-safe random code.
func NewInvitationCode() string {
	return base64.RawURLEncoding.EncodeToString(securecookie.GenerateRandomKey(12))
}

// SoftDelete marks the room deleted.
func (s *Store) SoftDelete(ctx context.Context, roomID primitive.ObjectID) error {
	now := s.now()
	return s.update(ctx, bson.M{"_id": roomID, "deletedAt": nil},
		bson.M{"$set": bson.M{"deletedAt": now, "updated_at": now}}, ErrNotFound)
}

// RequestJoin appends userID to the room's incoming requests. The update is
// conditional: it matches only while the user is neither an active member
// nor already pending, so concurrent joins and approvals cannot produce a
// user who is both.
func (s *Store) RequestJoin(ctx context.Context, roomID, userID primitive.ObjectID) error {
	filter := bson.M{
		"_id":               roomID,
		"deletedAt":         nil,
		"incoming_requests": bson.M{"$ne": userID},
		"members":           bson.M{"$not": activeMember(userID)},
	}
	update := bson.M{
		"$addToSet": bson.M{"incoming_requests": userID},
		"$set":      bson.M{"updated_at": s.now()},
	}
	return s.update(ctx, filter, update, ErrAlreadyRelated)
}

// ApproveRequest moves userID from incoming requests to an active MEMBER
// in one update.
func (s *Store) ApproveRequest(ctx context.Context, roomID, userID primitive.ObjectID) error {
	now := s.now()
	filter := bson.M{
		"_id":               roomID,
		"deletedAt":         nil,
		"incoming_requests": userID,
		"members":           bson.M{"$not": activeMember(userID)},
	}
	update := bson.M{
		"$pull": bson.M{"incoming_requests": userID},
		"$push": bson.M{"members": models.Membership{UserID: userID, Role: models.RoleMember, JoinedAt: now}},
		"$set":  bson.M{"updated_at": now},
	}
	return s.update(ctx, filter, update, ErrNoRequest)
}

// RejectRequest drops userID from incoming requests.
func (s *Store) RejectRequest(ctx context.Context, roomID, userID primitive.ObjectID) error {
	filter := bson.M{"_id": roomID, "deletedAt": nil, "incoming_requests": userID}
	update := bson.M{
		"$pull": bson.M{"incoming_requests": userID},
		"$set":  bson.M{"updated_at": s.now()},
	}
	return s.update(ctx, filter, update, ErrNoRequest)
}

// SetMemberRole changes the role of userID's active membership.
func (s *Store) SetMemberRole(ctx context.Context, roomID, userID primitive.ObjectID, role models.MemberRole) error {
	if !role.Valid() {
		return models.ErrUnknownRole
	}
	filter := bson.M{"_id": roomID, "deletedAt": nil, "members": activeMember(userID)}
	update := bson.M{"$set": bson.M{"members.$.role": role, "updated_at": s.now()}}
	return s.update(ctx, filter, update, ErrNotMember)
}

// RemoveMember soft-deletes userID's active membership. Used both for admin
// removal and for leaving a room.
func (s *Store) RemoveMember(ctx context.Context, roomID, userID primitive.ObjectID) error {
	now := s.now()
	filter := bson.M{"_id": roomID, "deletedAt": nil, "members": activeMember(userID)}
	update := bson.M{"$set": bson.M{"members.$.deletedAt": now, "updated_at": now}}
	return s.update(ctx, filter, update, ErrNotMember)
}

// PostMessage appends a message. The write matches only while the author
// holds an active ADMIN or MEMBER membership.
func (s *Store) PostMessage(ctx context.Context, roomID, userID primitive.ObjectID, content string) (models.Message, error) {
	content = htmlsanitize.Sanitize(content)
	if content == "" {
		return models.Message{}, ErrContentRequired
	}
	now := s.now()
	msg := models.Message{ID: primitive.NewObjectID(), UserID: userID, Content: content, CreatedAt: now}

	filter := bson.M{
		"_id":       roomID,
		"deletedAt": nil,
		"members": bson.M{"$elemMatch": bson.M{
			"user":      userID,
			"deletedAt": nil,
			"role":      bson.M{"$in": []models.MemberRole{models.RoleAdmin, models.RoleMember}},
		}},
	}
	update := bson.M{
		"$push": bson.M{"messages": msg},
		"$set":  bson.M{"updated_at": now},
	}
	if err := s.update(ctx, filter, update, ErrNotMember); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// DeleteMessage soft-deletes an undeleted message.
func (s *Store) DeleteMessage(ctx context.Context, roomID, messageID primitive.ObjectID) error {
	now := s.now()
	filter := bson.M{
		"_id":       roomID,
		"deletedAt": nil,
		"messages":  bson.M{"$elemMatch": bson.M{"_id": messageID, "deletedAt": nil}},
	}
	update := bson.M{"$set": bson.M{"messages.$.deletedAt": now, "updated_at": now}}
	return s.update(ctx, filter, update, ErrMessageNotFound)
}

// update runs a single conditional UpdateOne and maps "nothing matched" to
// noMatch.
func (s *Store) update(ctx context.Context, filter, update bson.M, noMatch error) error {
	ctx, cancel := timeouts.WithStore(ctx)
	defer cancel()

	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return noMatch
	}
	return nil
}

// Indexes returns the index models for the rooms collection.
func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "invitation_code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_rooms_invitation_code"),
		},
		{Keys: bson.D{{Key: "members.user", Value: 1}, {Key: "deletedAt", Value: 1}}},
		{Keys: bson.D{{Key: "incoming_requests", Value: 1}}},
		{Keys: bson.D{{Key: "updated_at", Value: -1}}},
	}
}

// EnsureIndexes creates the rooms indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, Indexes())
	return err
}
