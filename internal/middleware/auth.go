package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/veridianlabs/esg-intel/internal/domain/users"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// Paths reachable without a token.
var publicPaths = map[string]struct{}{
	"/health":          {},
	"/health/detailed": {},
	"/metrics":         {},
	"/auth/register":   {},
}

// Endpoints flagged public: an untokened caller may use them at the
// anonymous tier (its own rate-limit row, no credits, no persistence).
// A present-but-invalid token is still rejected.
var anonPaths = map[string]struct{}{
	"/analyze":    {},
	"/compare":    {},
	"/benchmark":  {},
	"/export":     {},
	"/frameworks": {},
}

// Claims are the bearer-token contents: subject (user id), tier, and
// the registered iat/exp pair. Signed HMAC-SHA256.
type Claims struct {
	Tier string `json:"tier"`
	jwt.RegisteredClaims
}

// SignToken issues a token for a user.
func SignToken(secret []byte, userID string, tier users.Tier, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Tier: string(tier),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseToken(secret []byte, tok string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tok, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

// BearerAuth validates the Authorization header on every non-public
// path and stores the claims in the request context.
func BearerAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, public := publicPaths[r.URL.Path]; public {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				if _, open := anonPaths[r.URL.Path]; open {
					// No claims in context marks the anonymous tier.
					next.ServeHTTP(w, r)
					return
				}
				unauthorized(w, "missing Authorization header")
				return
			}
			tok := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if tok == "" || tok == auth {
				unauthorized(w, "invalid Authorization header format")
				return
			}

			claims, err := parseToken(secret, tok)
			if err != nil {
				unauthorized(w, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized","message":"` + msg + `"}`))
}

// ClaimsFromContext returns the verified claims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok
}

// UserFromContext extracts the caller's id and tier.
func UserFromContext(ctx context.Context) (id string, tier users.Tier, ok bool) {
	c, ok := ClaimsFromContext(ctx)
	if !ok {
		return "", users.TierAnonymous, false
	}
	tier = users.Tier(c.Tier)
	if !users.ValidTier(tier) {
		tier = users.TierAnonymous
	}
	return c.Subject, tier, true
}
