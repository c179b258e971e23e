package guard_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/dalemusser/chathub/internal/app/system/guard"
	"github.com/dalemusser/chathub/internal/app/system/i18n"
	"github.com/dalemusser/chathub/internal/domain/models"
	"github.com/dalemusser/chathub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func joinCtx(rooms *testutil.FakeRooms, uid primitive.ObjectID, code string) *guard.Context {
	c := newCtx(rooms, uid)
	c.InvitationCode = code
	return c
}

func wantJoinStatus(t *testing.T, d guard.Decision, status models.InvitationStatus, roomID primitive.ObjectID) {
	t.Helper()
	if d.Kind != guard.KindRespond || d.Status != http.StatusOK {
		t.Fatalf("got %s %d, want respond 200", d.Kind, d.Status)
	}
	body, ok := d.Body.(guard.JoinStatus)
	if !ok {
		t.Fatalf("body type %T", d.Body)
	}
	if body.Status != status || body.RoomID != roomID.Hex() {
		t.Errorf("got %v/%s, want %v/%s", body.Status, body.RoomID, status, roomID.Hex())
	}
}

func TestResolveJoinByCode_States(t *testing.T) {
	owner, member, pending, both, stranger := primitive.NewObjectID(), primitive.NewObjectID(),
		primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	room := testutil.NewRoom(owner)
	room.Members = append(room.Members,
		testutil.Member(member, models.RoleMember),
		testutil.Member(both, models.RoleReadOnly))
	room.IncomingRequests = []primitive.ObjectID{pending, both}
	rooms := testutil.NewFakeRooms(room)

	t.Run("active member is IN_ROOM", func(t *testing.T) {
		wantJoinStatus(t, check(t, guard.ResolveJoinByCode(), joinCtx(rooms, member, room.InvitationCode)), models.InvitationInRoom, room.ID)
	})
	t.Run("member also listed as pending is still IN_ROOM", func(t *testing.T) {
		wantJoinStatus(t, check(t, guard.ResolveJoinByCode(), joinCtx(rooms, both, room.InvitationCode)), models.InvitationInRoom, room.ID)
	})
	t.Run("pending requester", func(t *testing.T) {
		wantJoinStatus(t, check(t, guard.ResolveJoinByCode(), joinCtx(rooms, pending, room.InvitationCode)), models.InvitationHaveRequestBefore, room.ID)
	})
	t.Run("unrelated user continues with room id", func(t *testing.T) {
		c := joinCtx(rooms, stranger, room.InvitationCode)
		wantContinue(t, check(t, guard.ResolveJoinByCode(), c))
		if c.RoomID != room.ID.Hex() {
			t.Errorf("RoomID: got %q", c.RoomID)
		}
	})
}

func TestResolveJoinByCode_FormerMemberCanRequestAgain(t *testing.T) {
	owner, left := primitive.NewObjectID(), primitive.NewObjectID()
	room := testutil.NewRoom(owner)
	room.Members = append(room.Members, testutil.DeletedMember(left, models.RoleMember))

	wantContinue(t, check(t, guard.ResolveJoinByCode(), joinCtx(testutil.NewFakeRooms(room), left, room.InvitationCode)))
}

func TestResolveJoinByCode_NoMutation(t *testing.T) {
	owner := primitive.NewObjectID()
	room := testutil.NewRoom(owner)
	rooms := testutil.NewFakeRooms(room)

	check(t, guard.ResolveJoinByCode(), joinCtx(rooms, owner, room.InvitationCode))

	ctx, cancel := testutil.TestContext()
	defer cancel()
	after, _ := rooms.FindRoom(ctx, membershipLookup(room.ID))
	if len(after.Members) != 1 || len(after.IncomingRequests) != 0 {
		t.Errorf("room changed: members=%d requests=%d", len(after.Members), len(after.IncomingRequests))
	}
}

func TestResolveJoinByCode_NotFound(t *testing.T) {
	owner := primitive.NewObjectID()
	deleted := testutil.NewRoom(owner)
	deleted.DeletedAt = testutil.SoftDeleted()
	rooms := testutil.NewFakeRooms(deleted)

	for name, code := range map[string]string{
		"unknown code":      "does-not-exist",
		"soft-deleted room": deleted.InvitationCode,
		"empty code":        "",
	} {
		t.Run(name, func(t *testing.T) {
			wantDeny(t, check(t, guard.ResolveJoinByCode(), joinCtx(rooms, owner, code)), http.StatusNotFound, i18n.KeyRoomNotFound)
		})
	}
}

func TestResolveJoinByCode_StoreFault(t *testing.T) {
	rooms := testutil.NewFakeRooms()
	rooms.Err = errors.New("socket closed")

	d := check(t, guard.ResolveJoinByCode(), joinCtx(rooms, primitive.NewObjectID(), "abc"))
	if d.Kind != guard.KindFail {
		t.Errorf("got %s, want fail", d.Kind)
	}
}

func TestResolveJoinByCode_IgnoresPresetRoomID(t *testing.T) {
	public := testutil.NewRoom(primitive.NewObjectID())
	private := testutil.NewRoom(primitive.NewObjectID())
	rooms := testutil.NewFakeRooms(public, private)
	uid := primitive.NewObjectID()

	c := joinCtx(rooms, uid, public.InvitationCode)
	c.RoomID = private.ID.Hex()
	wantContinue(t, check(t, guard.ResolveJoinByCode(), c))
	if c.RoomID != public.ID.Hex() {
		t.Errorf("RoomID = %s, want %s", c.RoomID, public.ID.Hex())
	}

	c = joinCtx(rooms, uid, "unknown")
	c.RoomID = private.ID.Hex()
	wantDeny(t, check(t, guard.ResolveJoinByCode(), c), http.StatusNotFound, i18n.KeyRoomNotFound)
}
