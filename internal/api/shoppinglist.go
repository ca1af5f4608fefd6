package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/ladlehub/backend/internal/middleware"
	"github.com/pageza/ladlehub/backend/internal/service"
)

type ShoppingListHandler struct {
	shoppingListService *service.ShoppingListService
	authService         *service.AuthService
}

func NewShoppingListHandler(shoppingListService *service.ShoppingListService, authService *service.AuthService) *ShoppingListHandler {
	return &ShoppingListHandler{shoppingListService: shoppingListService, authService: authService}
}

func (h *ShoppingListHandler) RegisterRoutes(router *gin.RouterGroup) {
	list := router.Group("/shopping-list", middleware.Auth(h.authService))
	{
		list.GET("", h.GetShoppingList)
		list.GET("/download", h.DownloadShoppingList)
	}
}

func (h *ShoppingListHandler) GetShoppingList(c *gin.Context) {
	caller := middleware.CurrentUser(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	items, err := h.shoppingListService.Aggregate(c.Request.Context(), *caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// DownloadShoppingList streams the consolidated list as a CSV attachment.
// Header labels follow the ?lang= query parameter.
func (h *ShoppingListHandler) DownloadShoppingList(c *gin.Context) {
	caller := middleware.CurrentUser(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	data, err := h.shoppingListService.ExportCSV(c.Request.Context(), *caller, c.DefaultQuery("lang", "en"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping-list.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}
