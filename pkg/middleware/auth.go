package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"portfolio-backend-refactor/pkg/database"
	"portfolio-backend-refactor/pkg/models"
	"portfolio-backend-refactor/pkg/utils"
)

type contextKey string

const userContextKey contextKey = "user"

// SessionCookieName is the cookie carrying the opaque session token for
// browser clients.
const SessionCookieName = "session"

// Identity resolves the requesting user from either the session cookie or
// a Bearer access token and stores it in the request context. Requests
// with no usable credential pass through anonymous. A store failure while
// resolving a presented credential is a 503, never anonymity: degraded
// infrastructure must not look like a logged-out user.
func Identity(store database.Store, jwtService *utils.JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				user, err := store.GetSessionUser(r.Context(), cookie.Value)
				switch {
				case err == nil:
					next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
					return
				case errors.Is(err, database.ErrNotFound):
					// Expired or revoked session, fall through to anonymous.
				default:
					utils.WriteErrorResponseWithCode(w, http.StatusServiceUnavailable,
						"IDENTITY_LOAD_FAILED", "Unable to verify identity, try again shortly", "")
					return
				}
			}

			if token := bearerToken(r); token != "" {
				claims, err := jwtService.ValidateAccessToken(token)
				if err == nil {
					user, err := store.GetUserByID(r.Context(), claims.UserID)
					switch {
					case err == nil:
						next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
						return
					case errors.Is(err, database.ErrNotFound):
						// Token for a deleted account, treat as anonymous.
					default:
						utils.WriteErrorResponseWithCode(w, http.StatusServiceUnavailable,
							"IDENTITY_LOAD_FAILED", "Unable to verify identity, try again shortly", "")
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects anonymous requests. API clients get a 401 JSON
// envelope; browser navigation gets redirected to the login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserFromContext(r.Context()); !ok {
			if wantsHTML(r) {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			utils.WriteUnauthorizedResponse(w, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext extracts the authenticated user, if any.
func GetUserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok && user != nil
}

// RequireUser extracts the authenticated user and panics when missing.
// Only for handlers mounted behind RequireAuth.
func RequireUser(ctx context.Context) *models.User {
	user, ok := GetUserFromContext(ctx)
	if !ok {
		panic("handler requires authentication middleware")
	}
	return user
}
