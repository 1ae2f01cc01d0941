package middleware

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

const testSecret = "segredo"

func sign(t *testing.T, claims jwt.Claims, method jwt.SigningMethod, secret string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestParseToken(t *testing.T) {
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	id, err := ParseToken(sign(t, PlayerClaims{PlayerID: "p-1", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}}, jwt.SigningMethodHS256, testSecret), testSecret)
	require.NoError(t, err)
	assert.Equal(t, "p-1", id)

	id, err = ParseToken(sign(t, jwt.RegisteredClaims{Subject: "p-2", ExpiresAt: exp}, jwt.SigningMethodHS256, testSecret), testSecret)
	require.NoError(t, err)
	assert.Equal(t, "p-2", id)

	_, err = ParseToken(sign(t, jwt.RegisteredClaims{ExpiresAt: exp}, jwt.SigningMethodHS256, testSecret), testSecret)
	assert.ErrorIs(t, err, ErrMissingPlayer)

	_, err = ParseToken(sign(t, jwt.RegisteredClaims{Subject: "p-3", ExpiresAt: exp}, jwt.SigningMethodHS256, "outro"), testSecret)
	assert.Error(t, err)

	expired := jwt.NewNumericDate(time.Now().Add(-time.Minute))
	_, err = ParseToken(sign(t, jwt.RegisteredClaims{Subject: "p-4", ExpiresAt: expired}, jwt.SigningMethodHS256, testSecret), testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, err = ParseToken(sign(t, jwt.RegisteredClaims{Subject: "p-5"}, jwt.SigningMethodHS512, testSecret), testSecret)
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me", AuthMiddleware(testSecret), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(PlayerIDKey))
	})

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"bad token", "Bearer nope", http.StatusUnauthorized, ""},
		{"valid", "Bearer " + sign(t, jwt.RegisteredClaims{Subject: "p-9"}, jwt.SigningMethodHS256, testSecret), http.StatusOK, "p-9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS())
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
