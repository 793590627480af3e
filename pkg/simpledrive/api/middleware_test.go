package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-drive/pkg/simpledrive"
	"github.com/tendant/simple-drive/pkg/simpledrive/api"
)

func tokenRouter(t *testing.T, auth *jwtauth.JWTAuth) chi.Router {
	t.Helper()

	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(auth))
	r.Use(api.CurrentUserFromToken)
	r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
		user, ok := api.CurrentUser(r.Context())
		require.True(t, ok)
		w.Write([]byte(user.Email))
	})
	return r
}

func TestCurrentUserFromToken(t *testing.T) {
	auth := jwtauth.New("HS256", []byte("test-secret"), nil)
	router := tokenRouter(t, auth)

	userID := uuid.New()
	_, token, err := auth.Encode(map[string]interface{}{
		"user_id": userID.String(),
		"email":   "u@example.com",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "BEARER "+token)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u@example.com", rec.Body.String())
}

func TestCurrentUserFromTokenRejectsMissingToken(t *testing.T) {
	auth := jwtauth.New("HS256", []byte("test-secret"), nil)
	router := tokenRouter(t, auth)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCurrentUserFromTokenRejectsBadClaims(t *testing.T) {
	auth := jwtauth.New("HS256", []byte("test-secret"), nil)
	router := tokenRouter(t, auth)

	_, token, err := auth.Encode(map[string]interface{}{
		"user_id": "not-a-uuid",
		"email":   "u@example.com",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "BEARER "+token)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithCurrentUserRoundTrip(t *testing.T) {
	user := simpledrive.CurrentUser{ID: uuid.New(), Email: "u@example.com"}
	ctx := api.WithCurrentUser(httptest.NewRequest(http.MethodGet, "/", nil).Context(), user)

	got, ok := api.CurrentUser(ctx)
	require.True(t, ok)
	assert.Equal(t, user, got)
}
