// Package auth verifies bearer tokens and carries the caller's identity in
// the request context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrJamesThe3rd/finboard/internal/apperror"
	"github.com/MrJamesThe3rd/finboard/internal/http/respond"
	"github.com/MrJamesThe3rd/finboard/internal/logger"
)

// Claims is the token payload. The subject is the user id; Plan is the
// subscription plan assigned by the billing provider.
type Claims struct {
	Plan string `json:"plan,omitempty"`
	jwt.RegisteredClaims
}

type Identity struct {
	UserID string
	Plan   string
}

type contextKey struct{}

// NewToken signs an HS256 token for userID. A non-positive ttl means 24h.
func NewToken(secret, userID, plan string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	now := time.Now()
	claims := &Claims{
		Plan: plan,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// ParseToken verifies tokenStr and returns its claims.
func ParseToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%w: %w", apperror.ErrUnauthorized, jwt.ErrTokenInvalidClaims)
	}

	return claims, nil
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored by Middleware, or the zero value.
func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(contextKey{}).(Identity)
	return id
}

// Middleware rejects requests without a valid bearer token.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")

			tokenStr, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(tokenStr) == "" {
				respond.Error(w, r, apperror.ErrUnauthorized)
				return
			}

			claims, err := ParseToken(secret, strings.TrimSpace(tokenStr))
			if err != nil {
				if !errors.Is(err, jwt.ErrTokenExpired) {
					logger.FromContext(r.Context()).Debug().Err(err).Msg("rejected token")
				}

				respond.Error(w, r, apperror.ErrUnauthorized)

				return
			}

			ctx := WithIdentity(r.Context(), Identity{UserID: claims.Subject, Plan: claims.Plan})

			log := logger.FromContext(ctx).With().Str("user_id", claims.Subject).Logger()
			ctx = logger.WithContext(ctx, log)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
