package rooms_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/chathub/internal/app/features/errors"
	"github.com/dalemusser/chathub/internal/app/features/rooms"
	roomstore "github.com/dalemusser/chathub/internal/app/store/rooms"
	"github.com/dalemusser/chathub/internal/app/system/guard"
	"github.com/dalemusser/chathub/internal/app/system/i18n"
	"github.com/dalemusser/chathub/internal/app/system/membership"
	"github.com/dalemusser/chathub/internal/app/system/token"
	"github.com/dalemusser/chathub/internal/domain/models"
	"github.com/dalemusser/chathub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fixture struct {
	t      *testing.T
	router http.Handler
	store  *roomstore.Store
	tokens *token.Service
	fx     *testutil.Fixtures
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	store := roomstore.New(db)
	tokens, err := token.New(token.Config{Secret: "test-secret", TTL: time.Hour})
	if err != nil {
		t.Fatalf("token.New: %v", err)
	}
	env := &guard.Env{
		Members: membership.New(store),
		Catalog: i18n.New("en"),
		ErrLog:  uierrors.NewErrorLogger(logger),
		Log:     logger,
	}
	h := rooms.NewHandler(store, env, nil, logger)

	router := chi.NewRouter()
	router.Mount("/rooms", rooms.Routes(h, tokens))
	router.Mount("/invitations", rooms.InvitationRoutes(h, tokens))

	return &fixture{
		t:      t,
		router: router,
		store:  store,
		tokens: tokens,
		fx:     testutil.NewFixtures(t, db),
	}
}

func (f *fixture) do(method, path string, uid primitive.ObjectID, body string) *httptest.ResponseRecorder {
	f.t.Helper()
	req := testutil.NewJSONRequest(method, path, body)
	if !uid.IsZero() {
		tok, err := f.tokens.Issue(models.Identity{ID: uid.Hex(), Email: uid.Hex() + "@example.com"})
		if err != nil {
			f.t.Fatalf("Issue: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) room(id primitive.ObjectID, messageID ...primitive.ObjectID) *models.Room {
	f.t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	lookup := membership.RoomLookup{RoomID: id}
	if len(messageID) > 0 {
		lookup.MessageID = messageID[0]
	}
	room, err := f.store.FindRoom(ctx, lookup)
	if err != nil {
		f.t.Fatalf("FindRoom: %v", err)
	}
	return room
}

func (f *fixture) seed(owner primitive.ObjectID, extra ...models.Membership) models.Room {
	f.t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	return f.fx.CreateRoom(ctx, owner, extra...)
}

func errorKey(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body uierrors.Body
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Error
}

func TestCreateAndList(t *testing.T) {
	f := newFixture(t)
	owner := primitive.NewObjectID()

	rec := f.do(http.MethodPost, "/rooms", owner, `{"name":"Lobby"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created models.Room
	_ = json.Unmarshal(rec.Body.Bytes(), &created)
	if created.Name != "Lobby" || created.InvitationCode == "" {
		t.Errorf("created = %+v", created)
	}
	if !strings.Contains(rec.Body.String(), `"message":"Room created."`) {
		t.Errorf("create should confirm in the caller's language, got %s", rec.Body.String())
	}

	rec = f.do(http.MethodGet, "/rooms", owner, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), created.ID.Hex()) {
		t.Errorf("list: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = f.do(http.MethodGet, "/rooms", primitive.NewObjectID(), "")
	if !strings.Contains(rec.Body.String(), `"rooms":[]`) {
		t.Errorf("stranger list should be empty, got %s", rec.Body.String())
	}

	rec = f.do(http.MethodGet, "/rooms/count", owner, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"total":1`) {
		t.Errorf("count: status %d body %s", rec.Code, rec.Body.String())
	}

	if rec := f.do(http.MethodPost, "/rooms", owner, `{"name":"  "}`); rec.Code != http.StatusBadRequest {
		t.Errorf("blank name: status = %d", rec.Code)
	}
}

func TestRoutes_RequireToken(t *testing.T) {
	f := newFixture(t)
	room := f.seed(primitive.NewObjectID())

	paths := []struct{ method, path string }{
		{http.MethodGet, "/rooms"},
		{http.MethodGet, "/rooms/count"},
		{http.MethodGet, "/rooms/" + room.ID.Hex() + "/members"},
		{http.MethodDelete, "/rooms/" + room.ID.Hex()},
		{http.MethodPost, "/invitations/" + room.InvitationCode},
	}
	for _, p := range paths {
		rec := f.do(p.method, p.path, primitive.NilObjectID, "")
		if rec.Code != http.StatusUnauthorized || errorKey(t, rec) != i18n.KeyErrorToken {
			t.Errorf("%s %s: status %d body %s", p.method, p.path, rec.Code, rec.Body.String())
		}
	}
}

func TestMembers_OnlyForMembers(t *testing.T) {
	f := newFixture(t)
	owner, reader, gone := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	room := f.seed(owner,
		testutil.Member(reader, models.RoleReadOnly),
		testutil.DeletedMember(gone, models.RoleMember),
	)
	path := "/rooms/" + room.ID.Hex() + "/members"

	rec := f.do(http.MethodGet, path, reader, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reader: status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), gone.Hex()) {
		t.Error("deleted membership should not be listed")
	}

	rec = f.do(http.MethodGet, path, gone, "")
	if rec.Code != http.StatusForbidden || errorKey(t, rec) != i18n.KeyNotInRoom {
		t.Errorf("former member: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = f.do(http.MethodGet, "/rooms/not-an-id/members", owner, "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("malformed room id: status = %d, want 403", rec.Code)
	}
}

func TestDeleteRoom_AdminOnly(t *testing.T) {
	f := newFixture(t)
	owner, member := primitive.NewObjectID(), primitive.NewObjectID()
	room := f.seed(owner, testutil.Member(member, models.RoleMember))
	path := "/rooms/" + room.ID.Hex()

	rec := f.do(http.MethodDelete, path, member, "")
	if rec.Code != http.StatusForbidden || errorKey(t, rec) != i18n.KeyNotAdmin {
		t.Errorf("member delete: status %d body %s", rec.Code, rec.Body.String())
	}
	if f.room(room.ID) == nil {
		t.Fatal("room deleted by non-admin")
	}

	if rec := f.do(http.MethodDelete, path, owner, ""); rec.Code != http.StatusOK {
		t.Fatalf("admin delete: status = %d", rec.Code)
	}
	if f.room(room.ID) != nil {
		t.Error("room still visible after delete")
	}

	// The deleted room no longer admits anyone.
	rec = f.do(http.MethodGet, path+"/members", owner, "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("members of deleted room: status = %d", rec.Code)
	}
}

func TestRemoveMember(t *testing.T) {
	f := newFixture(t)
	owner, member := primitive.NewObjectID(), primitive.NewObjectID()
	room := f.seed(owner, testutil.Member(member, models.RoleMember))
	base := "/rooms/" + room.ID.Hex() + "/members/"

	rec := f.do(http.MethodDelete, base+owner.Hex(), owner, "")
	if rec.Code != http.StatusForbidden || errorKey(t, rec) != i18n.KeyNotAdmin {
		t.Errorf("self removal: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = f.do(http.MethodDelete, base+owner.Hex(), member, "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("member removing admin: status = %d", rec.Code)
	}

	if rec := f.do(http.MethodDelete, base+member.Hex(), owner, ""); rec.Code != http.StatusOK {
		t.Fatalf("remove: status = %d body %s", rec.Code, rec.Body.String())
	}
	if membership.ActiveMembership(f.room(room.ID), member) != nil {
		t.Error("member still active")
	}

	rec = f.do(http.MethodDelete, base+member.Hex(), owner, "")
	if rec.Code != http.StatusNotFound || errorKey(t, rec) != i18n.KeyNotInRoom {
		t.Errorf("second removal: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestSetRole(t *testing.T) {
	f := newFixture(t)
	owner, member := primitive.NewObjectID(), primitive.NewObjectID()
	room := f.seed(owner, testutil.Member(member, models.RoleMember))
	path := "/rooms/" + room.ID.Hex() + "/members/" + member.Hex() + "/role"

	if rec := f.do(http.MethodPut, path, owner, `{"role":"read_only"}`); rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}
	if m := membership.ActiveMembership(f.room(room.ID), member); m == nil || m.Role != models.RoleReadOnly {
		t.Errorf("role = %+v", m)
	}

	if rec := f.do(http.MethodPut, path, owner, `{"role":"owner"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown role: status = %d", rec.Code)
	}
}

func TestLeave(t *testing.T) {
	f := newFixture(t)
	owner, member := primitive.NewObjectID(), primitive.NewObjectID()
	room := f.seed(owner, testutil.Member(member, models.RoleMember))
	path := "/rooms/" + room.ID.Hex() + "/leave"

	if rec := f.do(http.MethodPost, path, member, ""); rec.Code != http.StatusOK {
		t.Fatalf("leave: status = %d", rec.Code)
	}
	if rec := f.do(http.MethodPost, path, member, ""); rec.Code != http.StatusForbidden {
		t.Errorf("second leave: status = %d, want 403", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/rooms/count", member, ""); !strings.Contains(rec.Body.String(), `"total":0`) {
		t.Errorf("count after leave: %s", rec.Body.String())
	}
}

func TestPostMessage(t *testing.T) {
	f := newFixture(t)
	owner, reader := primitive.NewObjectID(), primitive.NewObjectID()
	room := f.seed(owner, testutil.Member(reader, models.RoleReadOnly))
	path := "/rooms/" + room.ID.Hex() + "/messages"

	rec := f.do(http.MethodPost, path, owner, `{"content":"hello <script>x</script>"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin post: status = %d body %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "script") {
		t.Errorf("content not sanitized: %s", rec.Body.String())
	}

	rec = f.do(http.MethodPost, path, reader, `{"content":"hi"}`)
	if rec.Code != http.StatusForbidden || errorKey(t, rec) != i18n.KeyReadOnly {
		t.Errorf("read-only post: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = f.do(http.MethodPost, path, primitive.NewObjectID(), `{"content":"hi"}`)
	if rec.Code != http.StatusForbidden || errorKey(t, rec) != i18n.KeyNotInRoom {
		t.Errorf("stranger post: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteMessage(t *testing.T) {
	f := newFixture(t)
	owner, author, other := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	room := testutil.NewRoom(owner)
	room.Members = append(room.Members,
		testutil.Member(author, models.RoleMember),
		testutil.Member(other, models.RoleMember),
	)
	msg := testutil.NewMessage(author, "mine")
	room.Messages = []models.Message{msg}
	room.IncomingRequests = []primitive.ObjectID{}
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f.fx.InsertRoom(ctx, room)

	path := "/rooms/" + room.ID.Hex() + "/messages/" + msg.ID.Hex()

	// The room owner is not the author: the author route refuses them.
	if rec := f.do(http.MethodDelete, path, owner, ""); rec.Code != http.StatusForbidden {
		t.Errorf("owner via author route: status = %d", rec.Code)
	}
	if rec := f.do(http.MethodDelete, path, other, ""); rec.Code != http.StatusForbidden {
		t.Errorf("other member: status = %d", rec.Code)
	}
	if rec := f.do(http.MethodDelete, path, author, ""); rec.Code != http.StatusOK {
		t.Fatalf("author delete: status = %d body %s", rec.Code, rec.Body.String())
	}
	if membership.ActiveMessage(f.room(room.ID, msg.ID), msg.ID) != nil {
		t.Error("message still active")
	}
}

func TestModerateMessage(t *testing.T) {
	f := newFixture(t)
	owner, author, other := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	room := testutil.NewRoom(owner)
	room.Members = append(room.Members,
		testutil.Member(author, models.RoleMember),
		testutil.Member(other, models.RoleMember),
	)
	msg := testutil.NewMessage(author, "spam")
	room.Messages = []models.Message{msg}
	room.IncomingRequests = []primitive.ObjectID{}
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f.fx.InsertRoom(ctx, room)

	path := "/rooms/" + room.ID.Hex() + "/messages/" + msg.ID.Hex() + "/moderate"

	if rec := f.do(http.MethodDelete, path, other, ""); rec.Code != http.StatusForbidden {
		t.Errorf("other member: status = %d", rec.Code)
	}
	if rec := f.do(http.MethodDelete, path, owner, ""); rec.Code != http.StatusOK {
		t.Fatalf("owner moderate: status = %d body %s", rec.Code, rec.Body.String())
	}

	rec := f.do(http.MethodDelete, path, owner, "")
	if rec.Code != http.StatusNotFound || errorKey(t, rec) != i18n.KeyMessageNotFound {
		t.Errorf("already deleted: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestJoinByInvitation(t *testing.T) {
	f := newFixture(t)
	owner, user := primitive.NewObjectID(), primitive.NewObjectID()
	room := f.seed(owner)
	path := "/invitations/" + room.InvitationCode

	rec := f.do(http.MethodPost, path, user, "")
	if rec.Code != http.StatusOK || strings.Contains(rec.Body.String(), `"status"`) {
		t.Fatalf("first join: status %d body %s", rec.Code, rec.Body.String())
	}
	if !membership.HasPendingRequest(f.room(room.ID), user) {
		t.Fatal("join request not recorded")
	}

	rec = f.do(http.MethodPost, path, user, "")
	if !strings.Contains(rec.Body.String(), `"HAVE_REQUEST_BEFORE"`) {
		t.Errorf("second join: %s", rec.Body.String())
	}

	rec = f.do(http.MethodPost, path, owner, "")
	if !strings.Contains(rec.Body.String(), `"IN_ROOM"`) {
		t.Errorf("owner join: %s", rec.Body.String())
	}

	rec = f.do(http.MethodPost, "/invitations/unknown-code", user, "")
	if rec.Code != http.StatusNotFound || errorKey(t, rec) != i18n.KeyRoomNotFound {
		t.Errorf("unknown code: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestApproveAndReject(t *testing.T) {
	f := newFixture(t)
	owner, a, b := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	room := f.seed(owner)
	for _, u := range []primitive.ObjectID{a, b} {
		if rec := f.do(http.MethodPost, "/invitations/"+room.InvitationCode, u, ""); rec.Code != http.StatusOK {
			t.Fatalf("join: status = %d", rec.Code)
		}
	}
	base := "/rooms/" + room.ID.Hex() + "/requests/"

	if rec := f.do(http.MethodPost, base+a.Hex()+"/approve", a, ""); rec.Code != http.StatusForbidden {
		t.Errorf("self approve: status = %d", rec.Code)
	}
	if rec := f.do(http.MethodPost, base+a.Hex()+"/approve", owner, ""); rec.Code != http.StatusOK {
		t.Fatalf("approve: status = %d body %s", rec.Code, rec.Body.String())
	}
	if rec := f.do(http.MethodPost, base+b.Hex()+"/reject", owner, ""); rec.Code != http.StatusOK {
		t.Fatalf("reject: status = %d", rec.Code)
	}

	got := f.room(room.ID)
	if m := membership.ActiveMembership(got, a); m == nil || m.Role != models.RoleMember {
		t.Errorf("approved user: %+v", m)
	}
	if membership.HasPendingRequest(got, b) || membership.ActiveMembership(got, b) != nil {
		t.Error("rejected user should be neither pending nor member")
	}

	rec := f.do(http.MethodPost, base+b.Hex()+"/approve", owner, "")
	if rec.Code != http.StatusNotFound || errorKey(t, rec) != i18n.KeyRequestMissing {
		t.Errorf("approve without request: status %d body %s", rec.Code, rec.Body.String())
	}

	// The approved member now sees IN_ROOM through the invitation.
	rec = f.do(http.MethodPost, "/invitations/"+room.InvitationCode, a, "")
	if !strings.Contains(rec.Body.String(), `"IN_ROOM"`) {
		t.Errorf("approved user join: %s", rec.Body.String())
	}
}

func TestPending(t *testing.T) {
	f := newFixture(t)
	user := primitive.NewObjectID()
	room := f.seed(primitive.NewObjectID())
	f.do(http.MethodPost, "/invitations/"+room.InvitationCode, user, "")

	rec := f.do(http.MethodGet, "/rooms/pending", user, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), room.ID.Hex()) {
		t.Errorf("pending: status %d body %s", rec.Code, rec.Body.String())
	}
}
