package httpgin

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)

	return signed
}

func authProbe(mw gin.HandlerFunc) (*gin.Engine, *int64) {
	r := gin.New()
	var seen int64
	r.GET("/probe", mw, func(c *gin.Context) {
		seen = userIDFrom(c)
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func TestAuthRequired_ValidToken(t *testing.T) {
	r, seen := authProbe(AuthRequired(testSecret))

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": 42,
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(42), *seen)
}

func TestAuthRequired_StringSubject(t *testing.T) {
	r, seen := authProbe(AuthRequired(testSecret))

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(42), *seen)
}

func TestAuthRequired_RejectsBadToken(t *testing.T) {
	r, _ := authProbe(AuthRequired(testSecret))

	badSignature := signToken(t, "wrong-secret", jwt.MapClaims{
		"sub": 42,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	expired := signToken(t, testSecret, jwt.MapClaims{
		"sub": 42,
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"bad signature", "Bearer " + badSignature},
		{"expired", "Bearer " + expired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthOptional_AnonymousPassesThrough(t *testing.T) {
	r, seen := authProbe(AuthOptional(testSecret))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), *seen)
}

func TestAuthOptional_InvalidTokenStaysAnonymous(t *testing.T) {
	r, seen := authProbe(AuthOptional(testSecret))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), *seen)
}

func TestWebhookSecretMiddleware(t *testing.T) {
	r := gin.New()
	r.POST("/hook", WebhookSecretMiddleware("hook-secret"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/hook", nil)
	req.Header.Set("X-Webhook-Secret", "hook-secret")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/hook", nil)
	req.Header.Set("X-Webhook-Secret", "nope")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubjectID(t *testing.T) {
	tests := []struct {
		name string
		sub  any
		id   int64
		ok   bool
	}{
		{"float", float64(7), 7, true},
		{"string", "7", 7, true},
		{"zero", float64(0), 0, false},
		{"negative", float64(-1), 0, false},
		{"garbage string", "abc", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := subjectID(tt.sub)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}
