package guard_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/chathub/internal/app/system/guard"
	"github.com/dalemusser/chathub/internal/app/system/membership"
	"github.com/dalemusser/chathub/internal/domain/models"
	"github.com/dalemusser/chathub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// newCtx returns a guard Context for uid (signed in) over rooms.
func newCtx(rooms *testutil.FakeRooms, uid primitive.ObjectID) *guard.Context {
	c := guard.NewContext(httptest.NewRequest("GET", "/", nil), membership.New(rooms))
	c.Identity = models.Identity{ID: uid.Hex(), Email: "u@example.com"}
	c.Authenticated = true
	return c
}

func run(t *testing.T, c *guard.Context, guards ...guard.Guard) (guard.Decision, string) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	return guard.Pipeline(guards).Run(ctx, c)
}

func check(t *testing.T, g guard.Guard, c *guard.Context) guard.Decision {
	t.Helper()
	return g.Check(context.Background(), c)
}

func wantDeny(t *testing.T, d guard.Decision, status int, reason string) {
	t.Helper()
	if d.Kind != guard.KindDeny || d.Status != status || d.Reason != reason {
		t.Errorf("got %s %d %q, want deny %d %q", d.Kind, d.Status, d.Reason, status, reason)
	}
}

func wantContinue(t *testing.T, d guard.Decision) {
	t.Helper()
	if !d.Passed() {
		t.Errorf("got %s %d %q, want continue", d.Kind, d.Status, d.Reason)
	}
}

func membershipLookup(roomID primitive.ObjectID) membership.RoomLookup {
	return membership.RoomLookup{RoomID: roomID}
}
