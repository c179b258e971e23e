// internal/app/store/contacts/contactstore.go
package contactstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/chathub/internal/app/system/timeouts"
	"github.com/dalemusser/chathub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrSelf is returned by Request when a user asks to add themselves.
	ErrSelf = errors.New("cannot add yourself as a contact")
	// ErrAlreadyContacts is returned by Request when the pair is already accepted.
	ErrAlreadyContacts = errors.New("already contacts")
	// ErrAlreadyRequested is returned by Request when the caller's request is still pending.
	ErrAlreadyRequested = errors.New("contact request already pending")
	// ErrNotFound is returned when there is no matching request or contact.
	ErrNotFound = errors.New("contact not found")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("contacts")}
}

// Request records a contact request from one user to another. When to has
// already asked from, the pending request is accepted instead and the
// returned contact is mutual.
func (s *Store) Request(ctx context.Context, from, to primitive.ObjectID) (models.Contact, error) {
	if from == to {
		return models.Contact{}, ErrSelf
	}
	ctx, cancel := timeouts.WithStore(ctx)
	defer cancel()

	pair := models.ContactPair(from, to)
	var existing models.Contact
	err := s.c.FindOne(ctx, bson.M{"pair": pair}).Decode(&existing)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
	case err != nil:
		return models.Contact{}, err
	case existing.Status == models.ContactAccepted:
		return models.Contact{}, ErrAlreadyContacts
	case existing.RequesterID == from:
		return models.Contact{}, ErrAlreadyRequested
	default:
		if err := s.accept(ctx, from, to); err != nil {
			return models.Contact{}, err
		}
		existing.Status = models.ContactAccepted
		return existing, nil
	}

	now := time.Now().UTC()
	c := models.Contact{
		ID:          primitive.NewObjectID(),
		Pair:        pair,
		RequesterID: from,
		RecipientID: to,
		Status:      models.ContactPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Contact{}, ErrAlreadyRequested
		}
		return models.Contact{}, err
	}
	return c, nil
}

func pendingFilter(recipient, requester primitive.ObjectID) bson.M {
	return bson.M{
		"pair":      models.ContactPair(recipient, requester),
		"requester": requester,
		"recipient": recipient,
		"status":    models.ContactPending,
	}
}

func (s *Store) accept(ctx context.Context, recipient, requester primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, pendingFilter(recipient, requester), bson.M{"$set": bson.M{
		"status":     models.ContactAccepted,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Accept turns requester's pending request to recipient into a contact.
func (s *Store) Accept(ctx context.Context, recipient, requester primitive.ObjectID) error {
	ctx, cancel := timeouts.WithStore(ctx)
	defer cancel()
	return s.accept(ctx, recipient, requester)
}

// Reject drops requester's pending request to recipient.
func (s *Store) Reject(ctx context.Context, recipient, requester primitive.ObjectID) error {
	ctx, cancel := timeouts.WithStore(ctx)
	defer cancel()
	res, err := s.c.DeleteOne(ctx, pendingFilter(recipient, requester))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the accepted contact between userID and other.
func (s *Store) Delete(ctx context.Context, userID, other primitive.ObjectID) error {
	ctx, cancel := timeouts.WithStore(ctx)
	defer cancel()
	res, err := s.c.DeleteOne(ctx, bson.M{
		"pair":   models.ContactPair(userID, other),
		"status": models.ContactAccepted,
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func incomingFilter(userID primitive.ObjectID) bson.M {
	return bson.M{"recipient": userID, "status": models.ContactPending}
}

func acceptedFilter(userID primitive.ObjectID) bson.M {
	return bson.M{
		"status": models.ContactAccepted,
		"$or":    bson.A{bson.M{"requester": userID}, bson.M{"recipient": userID}},
	}
}

// Incoming lists the pending requests sent to userID, newest first.
func (s *Store) Incoming(ctx context.Context, userID primitive.ObjectID) ([]models.Contact, error) {
	return s.find(ctx, incomingFilter(userID), "created_at")
}

// CountIncoming counts the pending requests sent to userID.
func (s *Store) CountIncoming(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	ctx, cancel := timeouts.WithStore(ctx)
	defer cancel()
	return s.c.CountDocuments(ctx, incomingFilter(userID))
}

// List returns userID's accepted contacts, most recently accepted first.
func (s *Store) List(ctx context.Context, userID primitive.ObjectID) ([]models.Contact, error) {
	return s.find(ctx, acceptedFilter(userID), "updated_at")
}

// Count counts userID's accepted contacts.
func (s *Store) Count(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	ctx, cancel := timeouts.WithStore(ctx)
	defer cancel()
	return s.c.CountDocuments(ctx, acceptedFilter(userID))
}

func (s *Store) find(ctx context.Context, filter bson.M, newestBy string) ([]models.Contact, error) {
	ctx, cancel := timeouts.WithStore(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: newestBy, Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Contact
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Indexes returns the index models for the contacts collection.
func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "pair", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_contacts_pair")},
		{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "requester", Value: 1}, {Key: "status", Value: 1}}},
	}
}

// EnsureIndexes creates the contacts indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, Indexes())
	return err
}
