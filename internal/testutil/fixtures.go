package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/chathub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "correct horse battery"

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
// Repeated calls on the same request accumulate parameters.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, _ := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts an active user whose password is TestPassword.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.insertUser(ctx, fullName, email, "active")
}

// CreateDisabledUser inserts a user with disabled status.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.insertUser(ctx, fullName, email, "disabled")
}

func (f *Fixtures) insertUser(ctx context.Context, fullName, email, status string) models.User {
	f.t.Helper()

	// MinCost keeps fixture setup fast.
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		Email:        text.Fold(email),
		PasswordHash: string(hash),
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateRoom inserts an active room owned by owner, who is its ADMIN.
// extra memberships are appended after the owner's.
func (f *Fixtures) CreateRoom(ctx context.Context, owner primitive.ObjectID, extra ...models.Membership) models.Room {
	f.t.Helper()

	room := NewRoom(owner)
	room.Members = append(room.Members, extra...)
	room.Messages = []models.Message{}
	room.IncomingRequests = []primitive.ObjectID{}
	return f.InsertRoom(ctx, room)
}

// InsertRoom stores room as given.
func (f *Fixtures) InsertRoom(ctx context.Context, room models.Room) models.Room {
	f.t.Helper()

	if _, err := f.db.Collection("rooms").InsertOne(ctx, room); err != nil {
		f.t.Fatalf("failed to create test room: %v", err)
	}
	return room
}
