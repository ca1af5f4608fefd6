package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/ladlehub/backend/internal/types"
)

type stubValidator struct {
	claims *types.TokenClaims
	err    error
}

func (s *stubValidator) ValidateToken(string) (*types.TokenClaims, error) {
	return s.claims, s.err
}

func setupRouter(validator TokenValidator, optional bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	mw := Auth(validator)
	if optional {
		mw = OptionalAuth(validator)
	}
	router.GET("/whoami", mw, func(c *gin.Context) {
		if id := CurrentUser(c); id != nil {
			c.JSON(http.StatusOK, gin.H{"user_id": id.String()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": nil})
	})
	return router
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	router := setupRouter(&stubValidator{err: errors.New("invalid")}, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsBadToken(t *testing.T) {
	router := setupRouter(&stubValidator{err: errors.New("invalid")}, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	userID := uuid.New()
	router := setupRouter(&stubValidator{claims: &types.TokenClaims{UserID: userID}}, false)

	for _, header := range []string{"token", "Basic abc", "Bearer a b"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", header)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthSetsUser(t *testing.T) {
	userID := uuid.New()
	router := setupRouter(&stubValidator{claims: &types.TokenClaims{UserID: userID, Username: "alice"}}, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer good")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestOptionalAuthPassesAnonymous(t *testing.T) {
	router := setupRouter(&stubValidator{err: errors.New("invalid")}, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "null")
}

func TestOptionalAuthSetsUserWhenPresent(t *testing.T) {
	userID := uuid.New()
	router := setupRouter(&stubValidator{claims: &types.TokenClaims{UserID: userID}}, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer good")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}
