package middleware

import (
	"context"
	"net/http"

	"github.com/rbt-academy/trainer/internal/api/apierr"
	"github.com/rbt-academy/trainer/internal/services/account"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Identities resolves the device's signed-in user
type Identities interface {
	Current(ctx context.Context) (*account.Identity, error)
}

// Authorizer checks administrative access
type Authorizer interface {
	Authorize(ctx context.Context) error
}

// RequireUser rejects requests when nobody is signed in on this device
func RequireUser(identities Identities) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := identities.Current(r.Context())
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests unless the administrator is signed in
func RequireAdmin(authorizer Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := authorizer.Authorize(r.Context()); err != nil {
				apierr.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetIdentity returns the signed-in identity from the request context
func GetIdentity(ctx context.Context) *account.Identity {
	identity, _ := ctx.Value(identityContextKey).(*account.Identity)
	return identity
}

// MustGetIdentity returns the signed-in identity or panics
func MustGetIdentity(ctx context.Context) *account.Identity {
	identity := GetIdentity(ctx)
	if identity == nil {
		panic("no identity in context - RequireUser not applied?")
	}
	return identity
}
