package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/attendance-classifier/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protected(ja *jwtauth.JWTAuth) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return jwtauth.Verifier(ja)(AuthRequired(ja)(RequireCompany(ok)))
}

func doRequest(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	svc := jwt.NewJWTService("middleware-secret", "1h")
	h := protected(svc.JWTAuth())

	token, _, err := svc.GenerateAccessToken("ops", "company-1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, doRequest(h, token).Code)

	assert.Equal(t, http.StatusUnauthorized, doRequest(h, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(h, "not-a-token").Code)

	_, refresh, err := svc.JWTAuth().Encode(map[string]interface{}{"type": "refresh", "company_id": "company-1"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doRequest(h, refresh).Code)
}

func TestRequireCompany(t *testing.T) {
	svc := jwt.NewJWTService("middleware-secret", "1h")
	h := protected(svc.JWTAuth())

	token, _, err := svc.GenerateAccessToken("ops", "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, doRequest(h, token).Code)
}
