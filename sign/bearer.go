package sign

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// refreshMargin is how long before a token's exp claim it is treated as
// expired, so a request never leaves with a token about to lapse mid-flight.
const refreshMargin = 60 * time.Second

// Bearer signs with an Authorization: Bearer token obtained from TokenFunc.
// Tokens are cached until their exp claim comes within the refresh margin;
// tokens without a readable exp claim are fetched once and kept forever.
type Bearer struct {
	TokenFunc func() (string, error)
	Now       func() time.Time

	mutex     sync.Mutex
	token     string
	expiresAt time.Time
}

func (s *Bearer) Apply(req *http.Request, body []byte) error {
	token, err := s.current()
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+token)

	return nil
}

func (s *Bearer) current() (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := clock(s.Now)
	if len(s.token) > 0 && (s.expiresAt.IsZero() || now.Before(s.expiresAt.Add(-refreshMargin))) {
		return s.token, nil
	}

	if s.TokenFunc == nil {
		return "", errors.New("sign: no token source configured")
	}

	token, err := s.TokenFunc()
	if err != nil {
		return "", err
	}

	s.token = token
	s.expiresAt = tokenExpiry(token)

	return token, nil
}

// tokenExpiry extracts the exp claim without verifying the signature; the
// client is the party that minted or received the token, verification is the
// server's job.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	parser := &jwt.Parser{}

	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}
	}

	return time.Unix(int64(exp), 0)
}
