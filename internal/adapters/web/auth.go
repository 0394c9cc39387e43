package web

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"salon-billing/internal/core"

	"github.com/golang-jwt/jwt/v5"
)

type actorKey struct{}

// actorFromContext returns the authenticated actor stored in ctx.
func actorFromContext(ctx context.Context) (core.Actor, bool) {
	v, ok := ctx.Value(actorKey{}).(core.Actor)
	return v, ok
}

// jwtClaims is the JWT payload issued by the identity service. BranchID is
// absent for users not bound to a branch.
type jwtClaims struct {
	UserID   int    `json:"user_id"`
	BranchID *int   `json:"branch_id,omitempty"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for actor. Used by operator tooling and
// tests; production tokens come from the identity service with the same claims.
func IssueToken(secret string, actor core.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &jwtClaims{
		UserID:   actor.UserID,
		BranchID: actor.BranchID,
		Role:     actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// bearerToken reads the token from the Authorization header, falling back to
// the auth_token cookie.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie("auth_token"); err == nil {
		return cookie.Value
	}
	return ""
}

// RequireAuth is chi middleware that validates the JWT and injects the actor
// into the request context. Returns 401 if the token is absent or invalid.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			writeError(w, r, "authentication required", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}

		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(h.jwtSecret), nil
		})
		if err != nil || !token.Valid || claims.UserID == 0 {
			writeError(w, r, "invalid or expired token", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), actorKey{}, core.Actor{
			UserID:   claims.UserID,
			BranchID: claims.BranchID,
			Role:     claims.Role,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// me handles GET /api/auth/me and echoes the caller's identity.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	type meResponse struct {
		UserID   int    `json:"user_id"`
		BranchID *int   `json:"branch_id"`
		Role     string `json:"role"`
	}
	writeJSON(w, http.StatusOK, meResponse{UserID: actor.UserID, BranchID: actor.BranchID, Role: actor.Role})
}
