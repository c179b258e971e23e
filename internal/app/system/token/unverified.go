package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiresAt decodes the exp claim WITHOUT checking the signature.
//
// This mirrors what a client does to decide whether to prompt for a new
// login. Nothing on the server may use it to make an authorization
// decision; use Service.Verify for that.
func ExpiresAt(tokenString string) (time.Time, bool) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// LooksUnexpired reports whether tokenString decodes and its exp claim is
// still in the future at now. The signature is not checked.
func LooksUnexpired(tokenString string, now time.Time) bool {
	exp, ok := ExpiresAt(tokenString)
	if !ok {
		return false
	}
	return exp.After(now)
}
