package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is an issued auth session: the bearer token the catalog and
// storage clients attach to requests, plus what is needed to renew it.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         User
}

func newSession(tr tokenResponse) *Session {
	s := &Session{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		User:         tr.User,
	}

	if tr.ExpiresIn > 0 {
		s.ExpiresAt = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	} else if exp, ok := tokenExpiry(tr.AccessToken); ok {
		s.ExpiresAt = exp
	}

	return s
}

// Expired reports whether the access token needs refreshing. A small
// margin keeps requests from racing the actual expiry.
func (s *Session) Expired() bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(s.ExpiresAt.Add(-30 * time.Second))
}

// tokenExpiry reads the exp claim out of the access token. The token is
// not verified here; the backend is the authority, this is only used to
// know when to ask for a new one.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
