package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/EO-DataHub/eodhp-group-services/internal/authn"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string
type tokenKey string

const ClaimsKey contextKey = "claims"
const TokenKey tokenKey = "token"

// JWTMiddleware parses the JWT token and adds claims to the request context.
func JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			logger := zerolog.Ctx(r.Context()).With().
				Str("handler", "JWTMiddleware").Logger()

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug().Msg("authorization header missing")
				http.Error(w, "authorization header missing",
					http.StatusUnauthorized)
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == authHeader {
				logger.Error().Msg("invalid token format")
				http.Error(w, "invalid token format", http.StatusUnauthorized)
				return
			}

			claims, err := authn.ParseClaims(token)
			if err != nil {
				logger.Error().Err(err).Msg("invalid bearer jwt token")
				http.Error(w, "invalid bearer jwt token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), TokenKey, token)
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		},
	)
}

// RequireRole rejects requests whose claims lack role. It must run after
// JWTMiddleware.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(ClaimsKey).(authn.Claims)
			if !ok {
				http.Error(w, "unauthorized: invalid claims", http.StatusUnauthorized)
				return
			}
			if !claims.HasRole(role) {
				zerolog.Ctx(r.Context()).Warn().Str("user", claims.Username).
					Str("role", role).Msg("Access denied: missing role")
				http.Error(w, "forbidden: administrator use only", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithLogger adds a logger to the context and logs request information.
func WithLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			logger := log.With().
				Str("host", r.Host).
				Str("method", r.Method).
				Str("url", r.URL.String()).
				Str("remote_addr", r.RemoteAddr).
				Time("timestamp", time.Now()).
				Logger()

			ctx := logger.WithContext(r.Context())
			next.ServeHTTP(w, r.WithContext(ctx))
		},
	)
}
