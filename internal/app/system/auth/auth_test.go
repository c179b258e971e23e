package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/chathub/internal/app/system/auth"
	"github.com/dalemusser/chathub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

// captureUser runs LoadSessionUser and reports the user it injected.
func captureUser(sm *auth.SessionManager, req *http.Request) (*auth.SessionUser, bool) {
	var (
		got   *auth.SessionUser
		found bool
	)
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = auth.CurrentUser(r)
	}))
	h.ServeHTTP(httptest.NewRecorder(), req)
	return got, found
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "s", "", time.Hour, false, zap.NewNop()); err == nil {
		t.Error("expected error for empty session key")
	}
}

func TestLoadSessionUser_NoCookie(t *testing.T) {
	sm := newTestSessionManager(t)
	req := httptest.NewRequest("GET", "/", nil)

	if _, ok := captureUser(sm, req); ok {
		t.Error("expected no user without a session cookie")
	}
}

func TestSignIn_ThenLoad(t *testing.T) {
	sm := newTestSessionManager(t)
	user := models.User{ID: primitive.NewObjectID(), FullName: "Alice", Email: "alice@example.com"}

	rec := httptest.NewRecorder()
	if _, err := sm.SignIn(rec, httptest.NewRequest("POST", "/login", nil), user); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	got, ok := captureUser(sm, req)
	if !ok {
		t.Fatal("expected a signed-in user")
	}
	if got.ID != user.ID.Hex() || got.Email != user.Email || got.Name != user.FullName {
		t.Errorf("got %+v", got)
	}
	if id := got.Identity(); id.ID != user.ID.Hex() || id.DisplayName != "Alice" {
		t.Errorf("Identity: got %+v", id)
	}
}

type nilFetcher struct{}

func (nilFetcher) FetchUser(context.Context, string) *auth.SessionUser { return nil }

func TestLoadSessionUser_FetcherCanRevoke(t *testing.T) {
	sm := newTestSessionManager(t)
	user := models.User{ID: primitive.NewObjectID(), FullName: "Bob", Email: "bob@example.com"}

	rec := httptest.NewRecorder()
	if _, err := sm.SignIn(rec, httptest.NewRequest("POST", "/login", nil), user); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	sm.SetUserFetcher(nilFetcher{})

	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	if _, ok := captureUser(sm, req); ok {
		t.Error("fetcher returning nil should sign the user out")
	}
}

func TestRememberReturn_RoundTrip(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	sm.RememberReturn(rec, httptest.NewRequest("GET", "/users/abc/edit?tab=1", nil))

	req := httptest.NewRequest("POST", "/login", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	ret, err := sm.SignIn(httptest.NewRecorder(), req, models.User{ID: primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if ret != "/users/abc/edit?tab=1" {
		t.Errorf("return url: got %q", ret)
	}
}

func TestWithTestUser(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: "x"})
	u, ok := auth.CurrentUser(req)
	if !ok || u.ID != "x" {
		t.Errorf("CurrentUser: got %+v, %v", u, ok)
	}
}

func TestRememberAnonymous(t *testing.T) {
	sm := newTestSessionManager(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	sm.RememberAnonymous(next).ServeHTTP(rec, httptest.NewRequest("GET", "/users/abc", nil))
	if len(rec.Result().Cookies()) == 0 {
		t.Error("anonymous GET should save the return url")
	}

	rec = httptest.NewRecorder()
	req := auth.WithTestUser(httptest.NewRequest("GET", "/users/abc", nil), &auth.SessionUser{ID: "x"})
	sm.RememberAnonymous(next).ServeHTTP(rec, req)
	if len(rec.Result().Cookies()) != 0 {
		t.Error("signed-in GET should not touch the session")
	}

	rec = httptest.NewRecorder()
	sm.RememberAnonymous(next).ServeHTTP(rec, httptest.NewRequest("POST", "/users/abc/edit", nil))
	if len(rec.Result().Cookies()) != 0 {
		t.Error("POST should not save a return url")
	}
}
