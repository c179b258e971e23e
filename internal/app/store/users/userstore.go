package userstore

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/dalemusser/chathub/internal/app/system/normalize"
	"github.com/dalemusser/chathub/internal/app/system/timeouts"
	"github.com/dalemusser/chathub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// Account statuses.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrBadCredentials is returned by Authenticate for an unknown email or wrong password.
	ErrBadCredentials = errors.New("email or password is incorrect")
	// ErrDisabled is returned by Authenticate for a disabled account.
	ErrDisabled = errors.New("user is disabled")
	// ErrNameRequired is returned by UpdateName for a blank name.
	ErrNameRequired = errors.New("full name is required")
	// ErrWrongPassword is returned by ChangePassword when the current password does not match.
	ErrWrongPassword = errors.New("current password is incorrect")
	// ErrWeakPassword is returned by ChangePassword for a new password shorter than MinPasswordLength.
	ErrWeakPassword = errors.New("new password is too short")

	errEmailNeeded    = errors.New("email is required")
	errPasswordNeeded = errors.New("password is required")
	errBadStatus      = errors.New(`status must be "active"|"disabled"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	ctx, cancel := timeouts.WithStore(ctx)
	defer cancel()

	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByIDs loads the users with the given ids. Unknown ids are skipped.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := timeouts.WithStore(ctx)
	defer cancel()

	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"full_name": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := timeouts.WithStore(ctx)
	defer cancel()

	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateInput is what Create needs to register an account.
type CreateInput struct {
	FullName string
	Email    string
	Password string
	Status   string
}

// Create hashes the password with bcrypt and inserts a new user.
func (s *Store) Create(ctx context.Context, in CreateInput) (models.User, error) {
	u := models.User{
		ID:       primitive.NewObjectID(),
		FullName: normalize.Name(in.FullName),
		Email:    normalize.Email(in.Email),
		Status:   normalize.Status(in.Status),
	}
	u.FullNameCI = text.Fold(u.FullName)
	if u.Status == "" {
		u.Status = StatusActive
	}

	if u.Email == "" {
		return models.User{}, errEmailNeeded
	}
	if in.Password == "" {
		return models.User{}, errPasswordNeeded
	}
	if u.Status != StatusActive && u.Status != StatusDisabled {
		return models.User{}, errBadStatus
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	u.PasswordHash = string(hash)

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	ctx, cancel := timeouts.WithStore(ctx)
	defer cancel()
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// Authenticate checks email and password. The returned user is the stored
// record (it carries Status so callers can tell which failure happened;
// on ErrBadCredentials for a wrong password the user is also returned).
func (s *Store) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return u, ErrBadCredentials
	}
	if normalize.Status(u.Status) == StatusDisabled {
		return u, ErrDisabled
	}
	return u, nil
}

// SetStatus enables or disables an account.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	status = normalize.Status(status)
	if status != StatusActive && status != StatusDisabled {
		return errBadStatus
	}
	ctx, cancel := timeouts.WithStore(ctx)
	defer cancel()
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}})
	return err
}

// UpdateName changes a user's display name.
func (s *Store) UpdateName(ctx context.Context, id primitive.ObjectID, fullName string) error {
	name := normalize.Name(fullName)
	if name == "" {
		return ErrNameRequired
	}
	ctx, cancel := timeouts.WithStore(ctx)
	defer cancel()
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"full_name":    name,
		"full_name_ci": text.Fold(name),
		"updated_at":   time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// MinPasswordLength is the shortest password ChangePassword accepts.
const MinPasswordLength = 8

// ChangePassword replaces the password of id after checking the current one.
// Returns mongo.ErrNoDocuments for an unknown user.
func (s *Store) ChangePassword(ctx context.Context, id primitive.ObjectID, current, next string) error {
	if utf8.RuneCountInString(next) < MinPasswordLength {
		return ErrWeakPassword
	}
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	ctx, cancel := timeouts.WithStore(ctx)
	defer cancel()
	// Matching on the old hash keeps two concurrent changes from both winning.
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "password_hash": u.PasswordHash}, bson.M{"$set": bson.M{
		"password_hash": string(hash),
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrWrongPassword
	}
	return nil
}

// Indexes returns the index models for the users collection.
func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_users_email")},
		{Keys: bson.D{{Key: "full_name_ci", Value: 1}}},
	}
}

// EnsureIndexes creates the users indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, Indexes())
	return err
}
