package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// TokenParser resolves an access token into the caller it was issued to
type TokenParser interface {
	ParseToken(token string) (int64, models.Role, error)
}

// Caller is the authenticated identity attached to a request
type Caller struct {
	UserID int64
	Role   models.Role
}

// IsAdmin reports whether the caller has the ADMIN role
func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

type callerKey struct{}

// WithCaller returns a copy of ctx carrying caller
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFrom returns the caller stored by Auth
func CallerFrom(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(Caller)
	return caller, ok
}

// Auth checks the Bearer token in the Authorization header
func Auth(parser TokenParser, logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.WithField("path", r.URL.Path).Debug("Missing Authorization header")
				unauthorized(w, "authorization header is required")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				logger.WithField("path", r.URL.Path).Debug("Malformed Authorization header")
				unauthorized(w, "invalid authorization header format")
				return
			}

			userID, role, err := parser.ParseToken(parts[1])
			if err != nil {
				logger.WithError(err).Warn("Rejected access token")
				unauthorized(w, "invalid token")
				return
			}

			ctx := WithCaller(r.Context(), Caller{UserID: userID, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects callers without role with 403
func RequireRole(role models.Role) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFrom(r.Context())
			if !ok {
				unauthorized(w, "authentication required")
				return
			}
			if caller.Role != role {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	http.Error(w, msg, http.StatusUnauthorized)
}
