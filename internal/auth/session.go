// Package auth mints and verifies the session tokens carried in the
// session cookie. Tokens are HMAC-signed JWTs whose subject is the user id.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie the session token travels in.
const CookieName = "session"

const (
	sessionTTL  = 24 * time.Hour
	rememberTTL = 7 * 24 * time.Hour
)

var ErrInvalidSession = errors.New("auth: invalid session")

type Sessions struct {
	secret []byte
}

func NewSessions(secret string) *Sessions {
	return &Sessions{secret: []byte(secret)}
}

// Issue returns a signed token for the user and the cookie max-age in
// seconds. A remembered session lasts 7 days; otherwise the cookie is
// dropped when the browser closes (max-age 0) while the token itself stays
// valid for a day.
func (s *Sessions) Issue(userID int64, remember bool) (token string, maxAge int, err error) {
	ttl := sessionTTL
	if remember {
		ttl = rememberTTL
	}

	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"exp": time.Now().Add(ttl).Unix(),
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", 0, err
	}

	if remember {
		maxAge = int(ttl / time.Second)
	}
	return token, maxAge, nil
}

// Verify checks the token signature and expiry and returns the user id.
func (s *Sessions) Verify(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidSession
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return 0, ErrInvalidSession
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, ErrInvalidSession
	}
	return userID, nil
}
