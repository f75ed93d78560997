package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vendra/escrow-svc/internal/service/models/user"
	"github.com/vendra/escrow-svc/pkg/http/respond"
)

type contextKey struct{}

var actorKey contextKey

// userResolver loads the full user record behind a token subject.
type userResolver interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// IssueToken signs a bearer token for the given user id.
func IssueToken(secret []byte, userID int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id": userID,
	})

	return token.SignedString(secret)
}

// ParseToken verifies a bearer token and returns the user id it carries.
func ParseToken(secret []byte, tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("unexpected claims type")
	}

	id, ok := claims["id"].(float64)
	if !ok {
		return 0, fmt.Errorf("token has no user id")
	}

	return int64(id), nil
}

// NewMiddleware authenticates the bearer token and attaches the caller's
// Actor to the request context.
func NewMiddleware(secret []byte, users userResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				respond.Message(w, http.StatusUnauthorized, "Access denied!")

				return
			}

			userID, err := ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				respond.Message(w, http.StatusUnauthorized, "Not authorized!")

				return
			}

			u, err := users.GetByID(r.Context(), userID)
			if err != nil {
				respond.Message(w, http.StatusInternalServerError, "Something went wrong!")

				return
			}
			if u == nil {
				respond.Message(w, http.StatusNotFound, "User not found!")

				return
			}

			ctx := context.WithValue(r.Context(), actorKey, u.Actor())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects callers whose role is not in the allowed set.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				respond.Message(w, http.StatusUnauthorized, "Access denied!")

				return
			}

			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)

					return
				}
			}

			respond.Message(w, http.StatusForbidden, "Access Denied")
		})
	}
}

// ActorFromContext extracts the authenticated caller, if any.
func ActorFromContext(ctx context.Context) (user.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(user.Actor)

	return actor, ok
}

// WithActor returns a context carrying the given actor. Used by tests and by
// transports that authenticate out of band.
func WithActor(ctx context.Context, actor user.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}
