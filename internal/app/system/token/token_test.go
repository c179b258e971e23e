package token_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/chathub/internal/app/system/token"
	"github.com/dalemusser/chathub/internal/domain/models"
)

const testSecret = "test-secret-key-for-jwt-signing"

// clock is a settable time source for deterministic expiry tests.
type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func newTestService(t *testing.T, c *clock, ttl time.Duration) *token.Service {
	t.Helper()
	svc, err := token.New(token.Config{Secret: testSecret, TTL: ttl, Now: c.Now})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return svc
}

func testIdentity() models.Identity {
	return models.Identity{
		ID:          "507f1f77bcf86cd799439011",
		Email:       "alice@example.com",
		DisplayName: "Alice",
	}
}

func TestNew_RequiresSecret(t *testing.T) {
	_, err := token.New(token.Config{Secret: "", TTL: time.Hour})
	if !errors.Is(err, token.ErrNoSecret) {
		t.Fatalf("New() error = %v, want ErrNoSecret", err)
	}
}

func TestNew_RequiresPositiveTTL(t *testing.T) {
	if _, err := token.New(token.Config{Secret: testSecret, TTL: 0}); err == nil {
		t.Fatal("New() should reject a zero TTL")
	}
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	ttls := []time.Duration{time.Second, time.Minute, time.Hour, 24 * time.Hour, 30 * 24 * time.Hour}

	for _, ttl := range ttls {
		svc := newTestService(t, c, time.Hour)
		tok, err := svc.IssueTTL(testIdentity(), ttl)
		if err != nil {
			t.Fatalf("IssueTTL(%v) error = %v", ttl, err)
		}
		got, err := svc.Verify(tok)
		if err != nil {
			t.Fatalf("Verify() ttl=%v error = %v", ttl, err)
		}
		if got != testIdentity() {
			t.Errorf("Verify() ttl=%v = %+v, want %+v", ttl, got, testIdentity())
		}
	}
}

func TestIssue_Deterministic(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	svc := newTestService(t, c, time.Hour)

	a, err := svc.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	b, err := svc.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if a != b {
		t.Error("Issue() should produce identical tokens for identical inputs and clock")
	}
}

func TestIssue_RejectsNonPositiveTTL(t *testing.T) {
	svc := newTestService(t, &clock{t: time.Now()}, time.Hour)
	if _, err := svc.IssueTTL(testIdentity(), 0); err == nil {
		t.Error("IssueTTL(0) should fail")
	}
	if _, err := svc.IssueTTL(testIdentity(), -time.Second); err == nil {
		t.Error("IssueTTL(-1s) should fail")
	}
}

func TestVerify_ExpiresAtBoundary(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	ttl := 90 * time.Second
	c := &clock{t: issued}
	svc := newTestService(t, c, ttl)

	tok, err := svc.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	c.t = issued.Add(ttl - time.Second)
	if _, err := svc.Verify(tok); err != nil {
		t.Fatalf("Verify() one second before expiry error = %v", err)
	}

	for _, at := range []time.Duration{ttl, ttl + time.Second, ttl + 24*time.Hour} {
		c.t = issued.Add(at)
		_, err := svc.Verify(tok)
		if !errors.Is(err, token.ErrExpiredToken) {
			t.Errorf("Verify() at issuedAt+%v error = %v, want ErrExpiredToken", at, err)
		}
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	other, err := token.New(token.Config{Secret: "some-other-secret", TTL: time.Hour, Now: c.Now})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	forged, err := other.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = newTestService(t, c, time.Hour).Verify(forged)
	if !errors.Is(err, token.ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_BadSignatureWinsOverExpiry(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	c := &clock{t: issued}
	other, _ := token.New(token.Config{Secret: "some-other-secret", TTL: time.Minute, Now: c.Now})
	forged, _ := other.Issue(testIdentity())

	c.t = issued.Add(time.Hour)
	_, err := newTestService(t, c, time.Minute).Verify(forged)
	if !errors.Is(err, token.ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	svc := newTestService(t, &clock{t: time.Now()}, time.Hour)

	cases := []string{
		"",
		"not-a-jwt",
		"a.b.c",
		"eyJhbGciOiJIUzI1NiJ9.e30.",
	}
	for _, in := range cases {
		if _, err := svc.Verify(in); !errors.Is(err, token.ErrInvalidToken) {
			t.Errorf("Verify(%q) error = %v, want ErrInvalidToken", in, err)
		}
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	svc := newTestService(t, c, time.Hour)
	tok, _ := svc.Issue(testIdentity())

	parts := strings.Split(tok, ".")
	other, _ := svc.Issue(models.Identity{ID: "507f1f77bcf86cd799439012", Email: "mallory@example.com"})
	parts[1] = strings.Split(other, ".")[1]

	if _, err := svc.Verify(strings.Join(parts, ".")); !errors.Is(err, token.ErrInvalidToken) {
		t.Errorf("Verify() of spliced payload error = %v, want ErrInvalidToken", err)
	}
}

// The client-side check decodes without verifying, so it accepts a forged
// token that the server rejects. Only the server check is authoritative.
func TestLooksUnexpired_DoesNotVerifySignature(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	c := &clock{t: issued}
	forger, _ := token.New(token.Config{Secret: "attacker-secret", TTL: time.Hour, Now: c.Now})
	forged, _ := forger.Issue(testIdentity())

	if !token.LooksUnexpired(forged, issued.Add(time.Minute)) {
		t.Error("LooksUnexpired() should accept an unexpired token regardless of signature")
	}
	if _, err := newTestService(t, c, time.Hour).Verify(forged); err == nil {
		t.Error("Verify() must reject a token signed with another secret")
	}
}

func TestLooksUnexpired_Expiry(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	svc := newTestService(t, &clock{t: issued}, time.Hour)
	tok, _ := svc.Issue(testIdentity())

	if !token.LooksUnexpired(tok, issued.Add(59*time.Minute)) {
		t.Error("LooksUnexpired() before exp = false, want true")
	}
	if token.LooksUnexpired(tok, issued.Add(time.Hour)) {
		t.Error("LooksUnexpired() at exp = true, want false")
	}
	if token.LooksUnexpired("garbage", issued) {
		t.Error("LooksUnexpired(garbage) = true, want false")
	}
}

func TestExpiresAt(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	svc := newTestService(t, &clock{t: issued}, 2*time.Hour)
	tok, _ := svc.Issue(testIdentity())

	exp, ok := token.ExpiresAt(tok)
	if !ok {
		t.Fatal("ExpiresAt() ok = false")
	}
	if !exp.Equal(issued.Add(2 * time.Hour)) {
		t.Errorf("ExpiresAt() = %v, want %v", exp, issued.Add(2*time.Hour))
	}
}
