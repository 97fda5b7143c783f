package httpapi

import (
	"chat-core/auth"
	"chat-core/errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func identityEchoRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(IdentityMiddleware(testSecret))
	router.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": callerIdentity(c).Subject})
	})
	return router
}

func TestIdentityMiddleware(t *testing.T) {
	router := identityEchoRouter()

	t.Run("should attach the identity from a valid bearer token", func(t *testing.T) {
		req := require.New(t)
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.IdentityClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "ext-alice",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}).SignedString(testSecret)
		req.NoError(err)

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		request.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(recorder, request)

		req.Equal(http.StatusOK, recorder.Code)
		req.JSONEq(`{"subject":"ext-alice"}`, recorder.Body.String())
	})

	t.Run("should leave the caller anonymous without a token", func(t *testing.T) {
		req := require.New(t)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/whoami", nil))

		req.Equal(http.StatusOK, recorder.Code)
		req.JSONEq(`{"subject":""}`, recorder.Body.String())
	})

	t.Run("should leave the caller anonymous on a garbage token", func(t *testing.T) {
		req := require.New(t)
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		request.Header.Set("Authorization", "Bearer not-a-token")
		router.ServeHTTP(recorder, request)

		req.Equal(http.StatusOK, recorder.Code)
		req.JSONEq(`{"subject":""}`, recorder.Body.String())
	})
}

func TestWriteError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"unauthorized", errors.ErrUnauthorized, http.StatusUnauthorized},
		{"profile missing", fmt.Errorf("%w: no profile", errors.ErrProfileMissing), http.StatusUnauthorized},
		{"forbidden", fmt.Errorf("%w: not a member", errors.ErrForbidden), http.StatusForbidden},
		{"validation", fmt.Errorf("%w: body required", errors.ErrValidation), http.StatusBadRequest},
		{"not found", fmt.Errorf("%w: message", errors.ErrNotFound), http.StatusNotFound},
		{"unknown", fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run("should map "+tc.name, func(t *testing.T) {
			req := require.New(t)
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)
			writeError(c, tc.err)
			req.Equal(tc.status, recorder.Code)
		})
	}
}
