package api

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
	"github.com/tendant/simple-drive/pkg/simpledrive"
)

type contextKey string

const currentUserKey contextKey = "simpledrive.currentUser"

// CurrentUserFromToken resolves the current user from the verified session
// token and stores it on the request context. Requests with no resolvable
// user are rejected; every file route requires one.
func CurrentUserFromToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			http.Error(w, "invalid session token", http.StatusUnauthorized)
			return
		}

		user, ok := userFromClaims(claims)
		if !ok {
			http.Error(w, "no authenticated user", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), currentUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromClaims(claims map[string]interface{}) (simpledrive.CurrentUser, bool) {
	rawID, _ := claims["user_id"].(string)
	email, _ := claims["email"].(string)

	id, err := uuid.Parse(rawID)
	if err != nil {
		return simpledrive.CurrentUser{}, false
	}

	return simpledrive.CurrentUser{ID: id, Email: email}, true
}

// CurrentUser returns the user resolved by CurrentUserFromToken, if any.
func CurrentUser(ctx context.Context) (simpledrive.CurrentUser, bool) {
	user, ok := ctx.Value(currentUserKey).(simpledrive.CurrentUser)
	return user, ok
}

// WithCurrentUser stores a user on the context directly. Test helper.
func WithCurrentUser(ctx context.Context, user simpledrive.CurrentUser) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}
