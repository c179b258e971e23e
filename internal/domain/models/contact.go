// internal/domain/models/contact.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contact statuses.
const (
	ContactPending  = "pending"
	ContactAccepted = "accepted"
)

// Contact links two users. It starts as a pending request from Requester to
// Recipient and becomes mutual once the recipient accepts.
//
// Pair is the two ids in sorted order, so a pair of users has at most one
// Contact whichever side asked first.
type Contact struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Pair        string             `bson:"pair" json:"-"`
	RequesterID primitive.ObjectID `bson:"requester" json:"requester_id"`
	RecipientID primitive.ObjectID `bson:"recipient" json:"recipient_id"`
	Status      string             `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ContactPair returns the Pair key shared by a and b.
func ContactPair(a, b primitive.ObjectID) string {
	x, y := a.Hex(), b.Hex()
	if y < x {
		x, y = y, x
	}
	return x + ":" + y
}

// Other returns the side of the contact that is not userID.
func (c Contact) Other(userID primitive.ObjectID) primitive.ObjectID {
	if c.RequesterID == userID {
		return c.RecipientID
	}
	return c.RequesterID
}
