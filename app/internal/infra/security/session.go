package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSession = errors.New("invalid session token")

// SessionService signs the storefront session cookie. The token only carries
// the session id; carts and view state stay server side.
type SessionService struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

func NewSessionService(secret string, expiration time.Duration) *SessionService {
	return &SessionService{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func (s *SessionService) Expiration() time.Duration {
	return s.expiration
}

func (s *SessionService) Issue(sessionID string) (string, error) {
	now := s.now()
	claims := sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *SessionService) Parse(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", errors.Join(ErrInvalidSession, err)
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid || claims.SessionID == "" {
		return "", ErrInvalidSession
	}
	return claims.SessionID, nil
}
