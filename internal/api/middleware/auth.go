package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/providers"
)

type claimsContextKey struct{}

// TokenDecoder turns a bearer token into identity claims
type TokenDecoder interface {
	Decode(token string) (*entities.TokenClaims, error)
}

// ContextWithClaims returns a copy of ctx carrying claims
func ContextWithClaims(ctx context.Context, claims *entities.TokenClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext returns the claims stored by RequireAuth, or nil
func ClaimsFromContext(ctx context.Context) *entities.TokenClaims {
	claims, _ := ctx.Value(claimsContextKey{}).(*entities.TokenClaims)
	return claims
}

// Auth builds handlers that require a valid access token
type Auth struct {
	tokens TokenDecoder
}

// NewAuth creates the token middleware
func NewAuth(tokens TokenDecoder) *Auth {
	return &Auth{tokens: tokens}
}

// RequireAuth rejects requests without a valid bearer token and stores the
// decoded claims in the request context
func (a *Auth) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := a.tokens.Decode(token)
		if err != nil {
			if errors.Is(err, providers.ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, "Token expired")
				return
			}
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		next(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	}
}

// RequireAdmin is RequireAuth plus a check for the admin role
func (a *Auth) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return a.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if !ClaimsFromContext(r.Context()).IsAdmin() {
			writeError(w, http.StatusForbidden, "admin role required")
			return
		}
		next(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
