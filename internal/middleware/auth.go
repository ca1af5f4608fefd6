package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/ladlehub/backend/internal/types"
)

// ContextUserID is the gin context key the authenticated user id is stored
// under.
const ContextUserID = "user_id"

// TokenValidator is an interface for validating JWT tokens.
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// Auth creates a middleware that rejects requests without a valid bearer
// token.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, validator)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid authorization header"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// OptionalAuth sets the user on the context when a valid bearer token is
// present and passes the request through untouched otherwise. Filter
// endpoints use it: anonymous callers get the lenient, unfiltered behavior
// instead of a rejection.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearerClaims(c, validator); ok {
			c.Set(ContextUserID, claims.UserID)
			c.Set("username", claims.Username)
		}
		c.Next()
	}
}

// CurrentUser extracts the authenticated user id from the context, nil for
// anonymous requests.
func CurrentUser(c *gin.Context) *uuid.UUID {
	val, exists := c.Get(ContextUserID)
	if !exists {
		return nil
	}
	id, ok := val.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}

func bearerClaims(c *gin.Context, validator TokenValidator) (*types.TokenClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := validator.ValidateToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}
