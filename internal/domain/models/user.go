// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account that can sign in and hold room memberships.
//
// NOTE:
//   - Roles are per room (see Membership); a User carries no global role.
//   - PasswordHash is a bcrypt hash and is never serialized to JSON.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Status       string             `bson:"status,omitempty" json:"status,omitempty"` // active | disabled

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Identity is the subject carried inside a signed token.
// It is immutable once issued.
type Identity struct {
	ID          string `json:"_id"`
	Email       string `json:"email"`
	DisplayName string `json:"fullName"`
}

// IdentityOf projects the token subject out of a stored user.
func IdentityOf(u User) Identity {
	return Identity{
		ID:          u.ID.Hex(),
		Email:       u.Email,
		DisplayName: u.FullName,
	}
}

// ObjectID parses the identity's id. ok is false for malformed ids.
func (i Identity) ObjectID() (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(i.ID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}
