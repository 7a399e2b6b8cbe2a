package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"smart-loan-recovery/pkg/id"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	// SessionCookie carries the opaque session token.
	SessionCookie = "session_token"
	// CtxUserID is the echo context key the middleware fills in.
	CtxUserID = "user_id"

	sessionKeyPrefix = "sess:"
)

var ErrNoSession = errors.New("no such session")

// SessionStore keeps token → user id mappings in redis with a TTL.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func (s *SessionStore) Create(ctx context.Context, userID string) (string, error) {
	token := id.NewID32()
	if err := s.rdb.Set(ctx, sessionKeyPrefix+token, userID, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *SessionStore) Resolve(ctx context.Context, token string) (string, error) {
	uid, err := s.rdb.Get(ctx, sessionKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", err
	}
	return uid, nil
}

func (s *SessionStore) Destroy(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+token).Err()
}

// NewCookie builds the session cookie for a token; an empty token
// produces an expired cookie (logout).
func NewCookie(token string, ttl time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if token == "" {
		c.MaxAge = -1
	} else {
		c.MaxAge = int(ttl / time.Second)
	}
	return c
}

// Middleware requires a valid session cookie and stashes the resolved
// user id under CtxUserID.
func (s *SessionStore) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(SessionCookie)
			if err != nil || ck.Value == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			}
			uid, err := s.Resolve(c.Request().Context(), ck.Value)
			if err != nil {
				if errors.Is(err, ErrNoSession) {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				}
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "session store unavailable"})
			}
			c.Set(CtxUserID, uid)
			return next(c)
		}
	}
}
