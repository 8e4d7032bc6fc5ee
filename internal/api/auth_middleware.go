package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/vivekkatkar/PrepSync/internal/core"
)

type ctxKey string

const (
	// UserContextKey is used for extract the authenticated user from request context
	UserContextKey ctxKey = "current_user"
)

// AuthFailFunc is function that is called when authentication failed
type AuthFailFunc func(w http.ResponseWriter, r *http.Request, err error)

// AuthHandler is optional handler for mocking in tests
type AuthHandler func(next http.Handler) http.Handler

var (
	authorizationHeader = http.CanonicalHeaderKey("Authorization")

	ErrEmptyAuthToken   = errors.New("empty auth token")
	ErrInvalidAuthToken = errors.New("invalid auth token")
)

// JWTAuth verifies bearer tokens and resolves the user behind them.
type JWTAuth struct {
	Secret       []byte
	AuthFailFunc AuthFailFunc
	StubHandler  AuthHandler

	userRepository core.UserStorer
}

func NewJWTAuth(userRepository core.UserStorer, secret string) *JWTAuth {
	return &JWTAuth{
		Secret:         []byte(secret),
		userRepository: userRepository,
	}
}

// Middleware is a middleware that verifies the Authorization bearer token
func (m *JWTAuth) Middleware() AuthHandler {
	if m.StubHandler != nil {
		return m.StubHandler
	}

	return m.defaultMiddleware()
}

func (m *JWTAuth) defaultMiddleware() AuthHandler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(authorizationHeader)
			if !strings.HasPrefix(header, "Bearer ") {
				m.authFailed(w, r, ErrEmptyAuthToken)
				return
			}

			userID, err := m.verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				m.authFailed(w, r, err)
				return
			}

			u, err := m.userRepository.Find(userID)
			if err != nil {
				m.authFailed(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (m *JWTAuth) verify(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidAuthToken
		}

		return m.Secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return "", ErrInvalidAuthToken
	}

	userID, ok := claims["userId"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidAuthToken
	}

	return userID, nil
}

func (m *JWTAuth) authFailed(w http.ResponseWriter, r *http.Request, err error) {
	if m.AuthFailFunc != nil {
		m.AuthFailFunc(w, r, err)
	} else {
		w.WriteHeader(http.StatusUnauthorized)
	}
}

// userFromRequest extracts the authenticated user from the request context
func userFromRequest(r *http.Request) (*core.User, error) {
	user, ok := r.Context().Value(UserContextKey).(*core.User)
	if !ok {
		return nil, errors.New("can't get user from request context")
	}

	return user, nil
}
