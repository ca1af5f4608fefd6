package api

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/ladlehub/backend/internal/service"
	"github.com/pageza/ladlehub/backend/internal/testdb"
)

type testEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	auth     *service.AuthService
	recipes  *service.RecipeService
	markings *service.MarkingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testdb.New(t)
	auth := service.NewAuthService(db, "test-secret")
	shoppingLists := service.NewShoppingListService(db, nil, service.NewLocalizer(), zap.NewNop())
	markings := service.NewMarkingService(db, shoppingLists)
	recipes := service.NewRecipeService(db, markings)

	router := gin.New()
	group := router.Group("/api/v1")
	NewRecipeHandler(recipes, markings, nil, auth).RegisterRoutes(group)
	NewShoppingListHandler(shoppingLists, auth).RegisterRoutes(group)
	NewTagHandler(service.NewTagService(db), auth).RegisterRoutes(group)

	return &testEnv{db: db, router: router, auth: auth, recipes: recipes, markings: markings}
}

func (e *testEnv) registerUser(t *testing.T, username string) string {
	t.Helper()
	token, err := e.auth.Register(context.Background(), username, username+"@example.com", "password123", "", "")
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(method, path, token string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}
